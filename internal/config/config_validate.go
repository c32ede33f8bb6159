package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validatePhotos(); err != nil {
		return err
	}
	if err := c.validateSeed(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.Auth.BcryptCost)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Auth.LoginRate < 0 || c.Auth.LoginBurst < 1 {
		return fmt.Errorf("LOGIN_RATE must be non-negative and LOGIN_BURST at least 1")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case "memory":
		return nil
	case "sqlite":
		if c.Storage.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required when STORAGE_DRIVER=sqlite")
		}
		return nil
	default:
		return fmt.Errorf("STORAGE_DRIVER must be memory or sqlite, got %q", c.Storage.Driver)
	}
}

func (c *Config) validatePhotos() error {
	if c.Photos.MaxSize <= 0 {
		return fmt.Errorf("PHOTO_MAX_SIZE must be positive")
	}
	switch c.Photos.Backend {
	case "disk":
		if c.Photos.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR is required when PHOTO_BACKEND=disk")
		}
		return nil
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when PHOTO_BACKEND=s3")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
		}
		return nil
	case "sqlite":
		if c.Storage.Driver != "sqlite" {
			return fmt.Errorf("PHOTO_BACKEND=sqlite requires STORAGE_DRIVER=sqlite")
		}
		return nil
	default:
		return fmt.Errorf("PHOTO_BACKEND must be disk, s3 or sqlite, got %q", c.Photos.Backend)
	}
}

func (c *Config) validateSeed() error {
	if !c.Seed.Enabled {
		return nil
	}
	if c.Seed.Email == "" || c.Seed.Password == "" {
		return fmt.Errorf("SEED_EMAIL and SEED_PASSWORD are required when SEED_ENABLED=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level into a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", l.Level)
	}
	return level, nil
}
