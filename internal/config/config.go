package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Report    ReportConfig
	Scheduler SchedulerConfig
	Admin     AdminConfig
	SMTP      SMTPConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	MigrationAuto = "auto"
	MigrationSQL  = "sql"
)

type DatabaseConfig struct {
	Driver        string
	Path          string
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SSLMode       string
	Timezone      string
	MigrationMode string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type StorageConfig struct {
	Path          string
	PublicURL     string
	UploadMaxSize int64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level  string
	Format string
}

type ReportConfig struct {
	ExpiringDays int
}

type SchedulerConfig struct {
	Enabled bool
	Spec    string
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// SMTPConfig configures the expiring policy digest mail. Empty NotifyEmails
// turns it off.
type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromName     string
	FromEmail    string
	NotifyEmails []string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "acente-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", DriverSQLite)
	viper.SetDefault("DB_PATH", "./data/acente.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "acente")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Istanbul")
	viper.SetDefault("DB_MIGRATION_MODE", MigrationAuto)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("STORAGE_PATH", "./uploads")
	viper.SetDefault("STORAGE_PUBLIC_URL", "/uploads")
	viper.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("REPORT_EXPIRING_DAYS", 30)
	viper.SetDefault("SCHEDULER_ENABLED", false)
	viper.SetDefault("SCHEDULER_SPEC", "0 3 * * *")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Acente")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:        viper.GetString("DB_DRIVER"),
			Path:          viper.GetString("DB_PATH"),
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			Name:          viper.GetString("DB_NAME"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			SSLMode:       viper.GetString("DB_SSL_MODE"),
			Timezone:      viper.GetString("DB_TIMEZONE"),
			MigrationMode: viper.GetString("DB_MIGRATION_MODE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			Path:          viper.GetString("STORAGE_PATH"),
			PublicURL:     viper.GetString("STORAGE_PUBLIC_URL"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Report: ReportConfig{
			ExpiringDays: viper.GetInt("REPORT_EXPIRING_DAYS"),
		},
		Scheduler: SchedulerConfig{
			Enabled: viper.GetBool("SCHEDULER_ENABLED"),
			Spec:    viper.GetString("SCHEDULER_SPEC"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
		SMTP: SMTPConfig{
			Host:         viper.GetString("SMTP_HOST"),
			Port:         viper.GetInt("SMTP_PORT"),
			Username:     viper.GetString("SMTP_USERNAME"),
			Password:     viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
			NotifyEmails: viper.GetStringSlice("NOTIFY_EMAILS"),
		},
	}
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// SQLiteDSN returns the SQLite data source with foreign keys enforced.
// Path may already be a "file:" URI (in-memory test databases).
func (c *DatabaseConfig) SQLiteDSN() string {
	if strings.Contains(c.Path, "?") {
		return c.Path + "&_foreign_keys=on"
	}
	return c.Path + "?_foreign_keys=on"
}
