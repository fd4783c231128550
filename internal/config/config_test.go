package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarhu/fishing-log/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/fishinglog")
	t.Setenv("PHOTO_BUCKET", "fishing-log-photos")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("SIGNED_URL_TTL", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.MigrateOnBoot)
	assert.Equal(t, 5*time.Minute, cfg.SignedURLTTL)
	assert.Equal(t, int64(10485760), cfg.MaxUploadBytes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PHOTO_BUCKET", "fishing-log-photos")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_ParsesOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://app.example.com,https://staging.example.com")
	t.Setenv("SIGNED_URL_TTL", "30s")
	t.Setenv("MIGRATE_ON_BOOT", "false")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.SignedURLTTL)
	assert.False(t, cfg.MigrateOnBoot)
}

func TestLoad_PortOutOfRange(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "70000")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_NonPositiveTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("SIGNED_URL_TTL", "-1m")

	_, err := config.Load()

	assert.Error(t, err)
}
