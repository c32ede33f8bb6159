package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "",
			Port:              3001,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   5 * time.Second,
			CORSOrigins:       []string{"https://run-tracker-front.onrender.com"},
		},
		Auth: AuthConfig{
			Issuer:     "run-tracker",
			TokenTTL:   24 * time.Hour,
			BcryptCost: 12,
			LoginRate:  0.2, // one attempt every 5s
			LoginBurst: 10,
		},
		Storage: StorageConfig{
			Driver:       "memory",
			DatabasePath: "run-tracker.db",
		},
		Photos: PhotoConfig{
			Backend: "disk",
			Dir:     "uploads",
			MaxSize: 5 << 20, // 5MB
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		Seed: SeedConfig{
			Enabled:  true,
			Email:    "test@example.com",
			Password: "password123",
			DemoRuns: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: struct defaults, then the first config file
// found, then environment variables. The result is validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"host":                "server.host",
	"port":                "server.port",
	"read_header_timeout": "server.read_header_timeout",
	"idle_timeout":        "server.idle_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"cors_origins":        "server.cors_origins",

	"jwt_secret":  "auth.jwt_secret",
	"jwt_issuer":  "auth.issuer",
	"token_ttl":   "auth.token_ttl",
	"bcrypt_cost": "auth.bcrypt_cost",
	"login_rate":  "auth.login_rate",
	"login_burst": "auth.login_burst",

	"storage_driver": "storage.driver",
	"database_path":  "storage.database_path",

	"photo_backend":  "photos.backend",
	"upload_dir":     "photos.dir",
	"photo_max_size": "photos.max_size",

	"s3_bucket":     "s3.bucket",
	"s3_region":     "s3.region",
	"s3_endpoint":   "s3.endpoint",
	"s3_access_key": "s3.access_key",
	"s3_secret_key": "s3.secret_key",
	"s3_prefix":     "s3.prefix",

	"seed_enabled":   "seed.enabled",
	"seed_email":     "seed.email",
	"seed_password":  "seed.password",
	"seed_demo_runs": "seed.demo_runs",

	"log_level": "logging.level",
}

// envTransformFunc maps known environment variables to config keys.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
