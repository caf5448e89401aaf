package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sigortaci/acente-api/internal/config"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// Migrate brings the schema up to date using the configured mode
func Migrate(db *gorm.DB, cfg *config.DatabaseConfig, log *zap.Logger) error {
	log.Info("Running database migrations...", zap.String("mode", cfg.MigrationMode))

	var err error
	switch cfg.MigrationMode {
	case config.MigrationSQL:
		err = RunSQLMigrations(db)
	case config.MigrationAuto, "":
		err = AutoMigrate(db)
	default:
		err = fmt.Errorf("unknown migration mode %q", cfg.MigrationMode)
	}
	if err != nil {
		return err
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Policy{},
		&entity.PolicyFile{},
		&entity.AccountingRecord{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RunSQLMigrations applies the embedded versioned SQL files for the active dialect
func RunSQLMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	var (
		dir    string
		name   string
		driver migratedb.Driver
	)
	switch db.Dialector.Name() {
	case "sqlite":
		dir, name = "migrations/sqlite", "sqlite3"
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	case "postgres":
		dir, name = "migrations/postgres", "postgres"
		driver, err = migratepg.WithInstance(sqlDB, &migratepg.Config{})
	default:
		return fmt.Errorf("no sql migrations for dialect %q", db.Dialector.Name())
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	// m is not closed: that would close the shared *sql.DB
	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
