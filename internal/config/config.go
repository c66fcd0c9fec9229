package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	AllowedOrigins  []string
	AppURL          string
	DatabaseURL     string
	DatabaseReadURL string // Read replica URL for SELECT queries
	RedisURL        string

	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	ResendAPIKey string
	OwnerEmail   string

	AIImageAPIKey string
	AIImageAPIURL string
	AIImageModel  string

	CronSecret            string
	AllowedAdminIPs       []string
	ReportScheduleEnabled bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "production"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  parseList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		AppURL:          strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DatabaseReadURL: getEnv("DATABASE_READ_URL", getEnv("DATABASE_URL", "")), // Falls back to write DB if not set
		RedisURL:        getEnv("REDIS_URL", ""),

		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		OwnerEmail:   getEnv("OWNER_EMAIL", ""),

		AIImageAPIKey: getEnv("AI_IMAGE_API_KEY", ""),
		AIImageAPIURL: getEnv("AI_IMAGE_API_URL", "https://api.stability.ai/v1"),
		AIImageModel:  getEnv("AI_IMAGE_MODEL", "stable-diffusion-xl-1024-v1-0"),

		CronSecret:            getEnv("CRON_SECRET", ""),
		AllowedAdminIPs:       parseList(getEnv("ALLOWED_ADMIN_IP", "")),
		ReportScheduleEnabled: getBoolEnv("REPORT_SCHEDULE_ENABLED", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SupabaseJWTSecret == "" && !c.SupabaseAuthEnabled() {
		missing = append(missing, "SUPABASE_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	return nil
}

// IsDevelopment reports whether the server runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "local"
}

// SupabaseAuthEnabled reports whether sessions can be checked against the
// Supabase Auth API.
func (c *Config) SupabaseAuthEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// EmailEnabled reports whether owner notifications can be delivered.
func (c *Config) EmailEnabled() bool {
	return c.ResendAPIKey != "" && c.OwnerEmail != ""
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseList parses a comma-separated value into a slice
func parseList(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
