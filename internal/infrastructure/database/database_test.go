package database

import (
	"strings"
	"testing"

	"github.com/sigortaci/acente-api/internal/config"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/pkg/logger"
	"github.com/sigortaci/acente-api/pkg/utils"
)

func memoryConfig(t *testing.T, mode string) *config.DatabaseConfig {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return &config.DatabaseConfig{
		Driver:        config.DriverSQLite,
		Path:          "file:" + name + "?mode=memory&cache=shared",
		MigrationMode: mode,
	}
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	cfg := memoryConfig(t, config.MigrationAuto)
	db, err := Open(cfg, false, logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db, cfg, logger.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"users", "customers", "policies", "policy_files", "accounting", "idempotency_keys"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestSQLMigrationsCreateTables(t *testing.T) {
	cfg := memoryConfig(t, config.MigrationSQL)
	db, err := Open(cfg, false, logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db, cfg, logger.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// running twice is a no-op
	if err := RunSQLMigrations(db); err != nil {
		t.Fatalf("second run: %v", err)
	}

	c := entity.Customer{Name: "Ahmet Yılmaz", NationalID: "12345678901"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("insert into migrated schema: %v", err)
	}
	if c.ID == 0 {
		t.Fatalf("expected generated id")
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	cfg := memoryConfig(t, config.MigrationAuto)
	db, err := Open(cfg, false, logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	admin := &config.AdminConfig{Email: "admin@acente.test", Password: "s3cret-pass"}
	for i := 0; i < 2; i++ {
		if err := SeedAdmin(db, admin, logger.Nop()); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	var users []entity.User
	if err := db.Find(&users).Error; err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one admin, got %d", len(users))
	}
	if !users[0].IsAdmin() || !utils.CheckPasswordHash("s3cret-pass", users[0].Password) {
		t.Fatalf("seeded admin is wrong: %+v", users[0])
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(&config.DatabaseConfig{Driver: "mysql"}, false, logger.Nop()); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
