package app_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atrium-app/atrium/internal/app"
	_ "github.com/atrium-app/atrium/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")
	// t.Setenv registers the cleanup; the lookups below must not see a value.
	t.Setenv("APP_ADDR", "ignored")
	os.Unsetenv("APP_ADDR")
	t.Setenv("CORS_ORIGINS", "ignored")
	os.Unsetenv("CORS_ORIGINS")
	t.Setenv("APP_ENV", "ignored")
	os.Unsetenv("APP_ENV")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, "s3cret", cfg.TokenSecret)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresTokenSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	_, err := app.LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://app.example.com,https://admin.example.com")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "warn", cfg.LogLevel)
}
