// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the fishing log API server.
// Values come from plain environment variables (no prefix).
type Config struct {
	// HTTP
	Port        int      `envconfig:"PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// Postgres
	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	MigrateOnBoot bool   `envconfig:"MIGRATE_ON_BOOT" default:"true"`

	// Photo storage
	AWSRegion    string        `envconfig:"AWS_REGION" default:"eu-north-1"`
	PhotoBucket  string        `envconfig:"PHOTO_BUCKET" required:"true"`
	SignedURLTTL time.Duration `envconfig:"SIGNED_URL_TTL" default:"5m"`

	// Uploads. 10 MiB covers any phone camera JPEG.
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config.Load: PORT %d out of range", cfg.Port)
	}
	if cfg.SignedURLTTL <= 0 {
		return Config{}, fmt.Errorf("config.Load: SIGNED_URL_TTL must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("config.Load: MAX_UPLOAD_BYTES must be positive")
	}
	return cfg, nil
}
