package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	AppEnv string `env:"APP_ENV" default:"development"`

	// HTTP
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	// postgres:// URLs use the postgres driver, anything else is treated
	// as a sqlite file path.
	DatabaseURL string `env:"DATABASE_URL" default:"biblioteca.db"`

	// Sessions
	SessionSecret string `env:"SESSION_SECRET" required:"true"`

	// File storage
	UploadDir      string `env:"UPLOAD_DIR" default:"./uploads"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" default:"20971520"`

	// Outbound mail
	SendGridAPIKey string        `env:"SENDGRID_API_KEY"`
	MailFrom       string        `env:"MAIL_FROM" default:"no-reply@biblioteca.local"`
	MailTimeout    time.Duration `env:"MAIL_TIMEOUT" default:"10s"`

	// Admin provisioning (optional; both must be set to take effect)
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Login rate limiting
	RedisURL   string  `env:"REDIS_URL"`
	LoginRate  float64 `env:"LOGIN_RATE" default:"1"`
	LoginBurst int     `env:"LOGIN_BURST" default:"5"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env file is fine, system env vars still apply.
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.AppEnv, "APP_ENV", "development"); err != nil {
		return nil, err
	}

	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.DatabaseURL, "DATABASE_URL", "biblioteca.db"); err != nil {
		return nil, err
	}

	if err := loadEnvStringRequired(&config.SessionSecret, "SESSION_SECRET"); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.UploadDir, "UPLOAD_DIR", "./uploads"); err != nil {
		return nil, err
	}
	if err := loadEnvInt64(&config.UploadMaxBytes, "UPLOAD_MAX_BYTES", 20<<20); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.SendGridAPIKey, "SENDGRID_API_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MailFrom, "MAIL_FROM", "no-reply@biblioteca.local"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.MailTimeout, "MAIL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.AdminEmail, "ADMIN_EMAIL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AdminPassword, "ADMIN_PASSWORD", ""); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.RedisURL, "REDIS_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.LoginRate, "LOGIN_RATE", 1); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.LoginBurst, "LOGIN_BURST", 5); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt64(target *int64, key string, defaultValue int64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// Session cookies are signed with this secret.
	if len(c.SessionSecret) < 32 {
		errors = append(errors, "SESSION_SECRET should be at least 32 characters long")
	}

	if c.UploadMaxBytes <= 0 {
		errors = append(errors, "UPLOAD_MAX_BYTES must be positive")
	}

	if c.AdminEmail != "" && c.AdminPassword == "" {
		errors = append(errors, "ADMIN_PASSWORD must be set when ADMIN_EMAIL is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
