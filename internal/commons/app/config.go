package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string // Required: issuer claim for session tokens
	EncryptionKey  string // Required: 64 hex chars, encrypts TOTP secrets at rest
	SessionSecret  string // Required: HMAC key for session tokens
	BootstrapToken string // Optional: token required to perform bootstrap

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./commons.db)
	PepperFile          string        // Optional: path to password pepper file (default: ./pepper)
	SessionTTL          time.Duration // Session token lifetime (default: 12h)
	ChallengeTTL        time.Duration // Step-up challenge lifetime (default: 5m)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	HousekeepingInterval time.Duration // Stale-pending sweep interval (default: 1h)
	PendingTOTPTTL       time.Duration // How long unconfirmed enrollments live (default: 24h)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("COMMONS_ISSUER", "commons"),
		EncryptionKey:  os.Getenv("COMMONS_ENCRYPTION_KEY"),
		SessionSecret:  os.Getenv("COMMONS_SESSION_SECRET"),
		BootstrapToken: os.Getenv("COMMONS_BOOTSTRAP_TOKEN"),

		DatabaseFile:        getEnvOrDefault("COMMONS_DATABASE_FILE", "commons.db"),
		PepperFile:          getEnvOrDefault("COMMONS_PEPPER_FILE", "pepper"),
		SessionTTL:          getEnvDurationOrDefault("COMMONS_SESSION_TTL", 12*time.Hour),
		ChallengeTTL:        getEnvDurationOrDefault("COMMONS_CHALLENGE_TTL", 5*time.Minute),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		PendingTOTPTTL:       getEnvDurationOrDefault("COMMONS_PENDING_TOTP_TTL", 24*time.Hour),
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
