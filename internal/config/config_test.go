package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 24*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.ChatTranscriptTTL)
	assert.False(t, cfg.SeedDemoData)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_TOKEN_TTL", "2h")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.AuthTokenTTL)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestBadValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL", "not-a-duration")
	t.Setenv("SEED_DEMO_DATA", "maybe")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.AuthTokenTTL)
	assert.False(t, cfg.SeedDemoData)
}
