package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bakebot")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://bakebot.app, https://www.bakebot.app ,")
	t.Setenv("ALLOWED_ADMIN_IP", "10.0.0.1,10.0.0.2")
	t.Setenv("REPORT_SCHEDULE_ENABLED", "true")
	t.Setenv("APP_URL", "https://bakebot.app/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://bakebot.app", "https://www.bakebot.app"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.AllowedAdminIPs)
	assert.True(t, cfg.ReportScheduleEnabled)
	assert.Equal(t, "https://bakebot.app", cfg.AppURL)
	assert.Equal(t, "postgres://localhost/bakebot", cfg.DatabaseReadURL)
	assert.Equal(t, "stable-diffusion-xl-1024-v1-0", cfg.AIImageModel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		cfg           Config
		errorContains string
	}{
		{name: "valid", cfg: Config{Port: "8080", DatabaseURL: "postgres://x", SupabaseJWTSecret: "s"}},
		{name: "remote auth without secret", cfg: Config{Port: "8080", DatabaseURL: "postgres://x", SupabaseURL: "https://p.supabase.co", SupabaseAnonKey: "anon"}},
		{name: "url without anon key", cfg: Config{Port: "8080", DatabaseURL: "postgres://x", SupabaseURL: "https://p.supabase.co"}, errorContains: "SUPABASE_JWT_SECRET"},
		{name: "missing both", cfg: Config{Port: "8080"}, errorContains: "DATABASE_URL, SUPABASE_JWT_SECRET"},
		{name: "bad port", cfg: Config{Port: "http", DatabaseURL: "postgres://x", SupabaseJWTSecret: "s"}, errorContains: "invalid PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	t.Setenv("FLAG_OK", "1")
	t.Setenv("FLAG_BAD", "maybe")

	assert.True(t, getBoolEnv("FLAG_OK", false))
	assert.True(t, getBoolEnv("FLAG_BAD", true))
	assert.False(t, getBoolEnv("FLAG_UNSET", false))
}

func TestEmailEnabled(t *testing.T) {
	assert.False(t, (&Config{ResendAPIKey: "k"}).EmailEnabled())
	assert.True(t, (&Config{ResendAPIKey: "k", OwnerEmail: "o@b.dev"}).EmailEnabled())
}
