package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string

	// Moderation lifecycle
	GraceWindow   time.Duration // how long a rejected material stays recoverable
	SweepInterval time.Duration // how often the in-process sweeper runs

	// Google Drive credentials (refresh-token flow)
	DriveClientID     string
	DriveClientSecret string
	DriveRefreshToken string

	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),

		GraceWindow:   time.Duration(getEnvInt("GRACE_WINDOW_HOURS", 48)) * time.Hour,
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 30)) * time.Minute,

		DriveClientID:     getEnv("DRIVE_CLIENT_ID", ""),
		DriveClientSecret: getEnv("DRIVE_CLIENT_SECRET", ""),
		DriveRefreshToken: getEnv("DRIVE_REFRESH_TOKEN", ""),

		LogDir:      getEnv("LOG_DIR", "logs"),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
