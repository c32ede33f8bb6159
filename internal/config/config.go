// Package config loads the server configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"strconv"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Auth    AuthConfig    `koanf:"auth"`
	Storage StorageConfig `koanf:"storage"`
	Photos  PhotoConfig   `koanf:"photos"`
	S3      S3Config      `koanf:"s3"`
	Seed    SeedConfig    `koanf:"seed"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// AuthConfig holds token signing and login throttling settings.
type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	Issuer     string        `koanf:"issuer"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
	// LoginRate is the refill rate of the per-IP login bucket, in attempts per second.
	LoginRate  float64 `koanf:"login_rate"`
	LoginBurst int     `koanf:"login_burst"`
}

// StorageConfig selects the run and user repositories.
type StorageConfig struct {
	Driver       string `koanf:"driver"` // "memory" or "sqlite"
	DatabasePath string `koanf:"database_path"`
}

// PhotoConfig selects where uploaded photos are kept.
type PhotoConfig struct {
	Backend string `koanf:"backend"` // "disk", "s3" or "sqlite"
	Dir     string `koanf:"dir"`
	MaxSize int64  `koanf:"max_size"`
}

// S3Config configures the S3 (or MinIO) photo backend.
type S3Config struct {
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Prefix    string `koanf:"prefix"`
}

// SeedConfig describes the demo account created at startup.
type SeedConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
	DemoRuns bool   `koanf:"demo_runs"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}
