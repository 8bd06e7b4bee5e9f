package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"biblioteca/internal/config"
	"biblioteca/internal/middleware/auth"
	"biblioteca/internal/models"
)

// Connect opens the database selected by DATABASE_URL. A postgres:// URL
// uses the postgres driver, anything else is treated as a sqlite file path.
func Connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres://"), strings.HasPrefix(cfg.DatabaseURL, "postgresql://"):
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	// TranslateError turns driver unique-violations into gorm.ErrDuplicatedKey,
	// which the services rely on for duplicate email/filename detection.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

// Migrate creates or updates the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Document{}, &models.Comment{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SeedAdmin provisions the privileged account named by ADMIN_EMAIL. An
// existing account is promoted, otherwise one is created. This is the only
// way a user gains the privileged role.
func SeedAdmin(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	var user models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&user).Error
	switch {
	case err == nil && user.Role == models.RolePrivileged:
		return nil
	case err == nil:
		if err := db.Model(&user).Update("role", models.RolePrivileged).Error; err != nil {
			return fmt.Errorf("failed to promote admin user: %w", err)
		}
		logger.Info("Promoted existing user to privileged role", "email", cfg.AdminEmail)
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &models.User{
			FirstName: "Admin",
			LastName:  "Admin",
			Email:     cfg.AdminEmail,
			Password:  hashed,
			Role:      models.RolePrivileged,
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logger.Info("Provisioned privileged account", "email", cfg.AdminEmail)
		return nil
	default:
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
}
