package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "BACKEND_URL", "BACKEND_TIMEOUT", "TIMEZONE", "REVALIDATE_ON_INCREMENT"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "http://localhost:5000", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.False(t, cfg.RevalidateOnIncrement)
	assert.True(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REVALIDATE_ON_INCREMENT", "true")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("ALLOWED_ORIGINS", "https://pos.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.RevalidateOnIncrement)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_BadTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
}
