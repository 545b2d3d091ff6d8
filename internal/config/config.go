package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the honeypot service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	APIKey         string
	AllowAnyOrigin bool

	BrainMode    string
	BrainHTTPURL string

	FinalCallbackURL string

	MaxTurns         int
	ClassifierWindow int

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "honeytrap"),
		APIKey:           stringsTrimSpace("APP_API_KEY"),
		AllowAnyOrigin:   false,
		BrainMode:        envOrDefault("BRAIN_ADAPTER_MODE", "auto"),
		BrainHTTPURL:     stringsTrimSpace("BRAIN_HTTP_URL"),
		FinalCallbackURL: stringsTrimSpace("FINAL_CALLBACK_URL"),
		MaxTurns:         10,
		ClassifierWindow: 8,
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),
		ShutdownTimeout:  15 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxTurns, err = intFromEnv("APP_MAX_TURNS", cfg.MaxTurns)
	if err != nil {
		return Config{}, err
	}
	cfg.ClassifierWindow, err = intFromEnv("APP_CLASSIFIER_WINDOW", cfg.ClassifierWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.MaxTurns < 1 {
		return Config{}, fmt.Errorf("APP_MAX_TURNS must be at least 1")
	}
	if cfg.ClassifierWindow < 1 {
		return Config{}, fmt.Errorf("APP_CLASSIFIER_WINDOW must be at least 1")
	}
	if cfg.ShutdownTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be at least 1s")
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

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
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
	v := stringsTrimSpace(key)
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
	v := strings.ToLower(stringsTrimSpace(key))
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
