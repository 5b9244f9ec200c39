package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Secret []byte // Required: HMAC signing secret for tokens
	Issuer string // Optional: issuer claim for tokens (default: auth-service)

	Algorithm    string        // Optional: JWT signing algorithm (HS256, HS384, HS512) (default: HS256)
	AccessTTL    time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL   time.Duration // Optional: refresh token lifetime (default: 30 days)
	DatabaseFile string        // Optional: path to SQLite database file (default: ./auth.db)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Revoked token prune interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Secret:               []byte(os.Getenv("AUTH_SECRET")),
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "auth-service"),
		Algorithm:            getEnvOrDefault("AUTH_ALGORITHM", "HS256"),
		AccessTTL:            getEnvDurationOrDefault("AUTH_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:           getEnvDurationOrDefault("AUTH_REFRESH_TTL", 30*24*time.Hour),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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

	// Accepts Go duration syntax (e.g. "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are treated as seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
