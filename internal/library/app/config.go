package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/libris/pkg/httpx"
)

type Config struct {
	APIURL string // Library API base URL (default: http://localhost:8000/api/)

	StoreDriver   string // Token store driver (sqlite, memory, redis) (default: sqlite)
	StoreFile     string // SQLite file for the token store (default: ./libris.db)
	RedisAddr     string // Redis address for the redis driver (default: localhost:6379)
	RedisPrefix   string // Key prefix for the redis driver (default: libris)
	MasterKeyPath string // Optional: file holding the key that seals stored tokens
	MasterKey     string // Optional: the same key from the environment

	HTTPTimeout  time.Duration         // Per-request timeout (default: 10s)
	MaxIdleConns int                   // Idle keep-alive connections to the API (default: 4)
	RateLimit    httpx.RateLimitConfig // Outbound request budget
	MetricsFile  string                // Optional: write session counters here on exit

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
}

func LoadConfig() Config {
	return Config{
		APIURL:        getEnvOrDefault("LIBRARY_API_URL", "http://localhost:8000/api/"),
		StoreDriver:   getEnvOrDefault("LIBRARY_STORE_DRIVER", "sqlite"),
		StoreFile:     getEnvOrDefault("LIBRARY_STORE_FILE", "libris.db"),
		RedisAddr:     getEnvOrDefault("LIBRARY_REDIS_ADDR", "localhost:6379"),
		RedisPrefix:   getEnvOrDefault("LIBRARY_REDIS_PREFIX", "libris"),
		MasterKeyPath: os.Getenv("LIBRARY_MASTER_KEY_PATH"),
		MasterKey:     os.Getenv("LIBRARY_MASTER_KEY"),
		HTTPTimeout:   getEnvDurationOrDefault("HTTP_TIMEOUT", 10*time.Second),
		MaxIdleConns:  getEnvIntOrDefault("HTTP_MAX_IDLE_CONNS", 4),
		RateLimit:     httpx.ParseRateLimitFromEnv("CLIENT", httpx.ClientLimit),
		MetricsFile:   os.Getenv("LIBRARY_METRICS_FILE"),
		Env:           getEnvOrDefault("ENV", "dev"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "10s", "1m")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
