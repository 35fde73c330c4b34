package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the interview flow service.
type Config struct {
	BindAddr                   string
	ShutdownTimeout            time.Duration
	InterviewInactivityTimeout time.Duration
	MetricsNamespace           string

	AllowAnyOrigin bool

	IntentBackendMode string
	IntentBackendURL  string

	BrainMode    string
	BrainHTTPURL string

	BridgeTimeout       time.Duration
	AutoAdvanceMinTurns int

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:                   envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:           envOrDefault("APP_METRICS_NAMESPACE", "aliya"),
		AllowAnyOrigin:             false,
		IntentBackendMode:          envOrDefault("INTENT_BACKEND_MODE", "auto"),
		IntentBackendURL:           envTrimmed("INTENT_BACKEND_URL"),
		BrainMode:                  envOrDefault("BRAIN_MODE", "auto"),
		BrainHTTPURL:               envTrimmed("BRAIN_HTTP_URL"),
		DatabaseURL:                envTrimmed("DATABASE_URL"),
		ShutdownTimeout:            15 * time.Second,
		InterviewInactivityTimeout: 30 * time.Minute,
		BridgeTimeout:              10 * time.Second,
		AutoAdvanceMinTurns:        2,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.InterviewInactivityTimeout, err = durationFromEnv("APP_INTERVIEW_INACTIVITY_TIMEOUT", cfg.InterviewInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BridgeTimeout, err = durationFromEnv("BRIDGE_TIMEOUT", cfg.BridgeTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AutoAdvanceMinTurns, err = intFromEnv("AUTO_ADVANCE_MIN_TURNS", cfg.AutoAdvanceMinTurns)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.InterviewInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_INTERVIEW_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.BridgeTimeout <= 0 {
		return Config{}, fmt.Errorf("BRIDGE_TIMEOUT must be positive")
	}
	if cfg.AutoAdvanceMinTurns <= 0 {
		return Config{}, fmt.Errorf("AUTO_ADVANCE_MIN_TURNS must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
