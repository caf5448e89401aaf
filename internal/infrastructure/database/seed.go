package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sigortaci/acente-api/internal/config"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account from ADMIN_* settings when it is missing
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig, log *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", strings.ToLower(cfg.Email)).First(&existing).Error
	if err == nil {
		log.Info("Admin user already exists", zap.String("email", cfg.Email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hashed, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}
	admin := entity.User{
		Name:     name,
		Email:    strings.ToLower(cfg.Email),
		Password: hashed,
		Role:     entity.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info("Admin user created", zap.String("email", cfg.Email))
	return nil
}
