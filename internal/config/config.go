package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DatabasePath string

	// Auth
	JWTSecret     string
	SessionTTL    time.Duration
	RememberMeTTL time.Duration

	// Analytics
	Timezone *time.Location

	// App
	BaseURL   string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath: getEnv("DATABASE_PATH", "julifest.db"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	sessionHours, err := getEnvInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(sessionHours) * time.Hour

	rememberHours, err := getEnvInt("REMEMBER_ME_TTL_HOURS", 24*7)
	if err != nil {
		return nil, err
	}
	cfg.RememberMeTTL = time.Duration(rememberHours) * time.Hour

	// Timezone for day-bucketed analytics. The event is anchored to a single
	// venue, so one zone applies to every invitation.
	tzName := getEnv("TIMEZONE", "America/Mexico_City")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
