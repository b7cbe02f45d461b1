package app

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/libris/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"LIBRARY_API_URL", "LIBRARY_STORE_DRIVER", "LIBRARY_STORE_FILE",
		"LIBRARY_MASTER_KEY", "LIBRARY_MASTER_KEY_PATH", "HTTP_TIMEOUT",
		"HTTP_MAX_IDLE_CONNS", "RATELIMIT_CLIENT_REQUESTS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "http://localhost:8000/api/", cfg.APIURL)
	require.Equal(t, "sqlite", cfg.StoreDriver)
	require.Equal(t, "libris.db", cfg.StoreFile)
	require.Empty(t, cfg.MasterKey)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 4, cfg.MaxIdleConns)
	require.Equal(t, httpx.ClientLimit, cfg.RateLimit)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LIBRARY_API_URL", "https://library.example/api/")
	t.Setenv("LIBRARY_STORE_DRIVER", "redis")
	t.Setenv("LIBRARY_REDIS_PREFIX", "desk-3")
	t.Setenv("HTTP_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("RATELIMIT_CLIENT_REQUESTS", "5")

	cfg := LoadConfig()
	require.Equal(t, "https://library.example/api/", cfg.APIURL)
	require.Equal(t, "redis", cfg.StoreDriver)
	require.Equal(t, "desk-3", cfg.RedisPrefix)
	require.Equal(t, 4, cfg.MaxIdleConns)
	require.Equal(t, 5, cfg.RateLimit.RequestsPerWindow)
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 10 * time.Second},
		{"1m", time.Minute},
		{"30", 30 * time.Second},
		{"soon", 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("LIBRIS_TEST_TIMEOUT", tt.value)
			require.Equal(t, tt.want, getEnvDurationOrDefault("LIBRIS_TEST_TIMEOUT", 10*time.Second))
		})
	}
}
