package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Postgres, used for the durable mutation journal. Optional: when empty
	// the journal falls back to an in-memory trail.
	DatabaseURL string

	// Redis, used for chat transcript archival. Optional.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Gemini credentials. When the key is empty the assistant degrades to
	// fixed fallback responses instead of failing requests.
	GeminiAPIKey string
	GeminiModel  string

	AuthJWTSecret         string
	AuthTokenTTL          time.Duration
	AdminRegistrationCode string

	CORSAllowedOrigins []string

	ChatTranscriptTTL time.Duration
	SeedDemoData      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		AuthJWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
		AuthTokenTTL:          getEnvAsDuration("AUTH_TOKEN_TTL", 24*time.Hour),
		AdminRegistrationCode: getEnv("ADMIN_REGISTRATION_CODE", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		ChatTranscriptTTL: getEnvAsDuration("CHAT_TRANSCRIPT_TTL", 720*time.Hour),
		SeedDemoData:      getEnvAsBool("SEED_DEMO_DATA", false),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable into trimmed parts.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
