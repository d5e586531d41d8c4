package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devViewerTokenSecret = "dev-secret-change-in-production"

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DBPath string

	// Logging
	LogLevel string

	// Viewer tokens
	ViewerTokenSecret string
	ViewerTokenTTL    time.Duration

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if there is one. Variables already set in
// the environment take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	ttl, err := getEnvAsDuration("VIEWER_TOKEN_TTL", 720*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		DBPath:            getEnv("DB_PATH", "./data/settleup.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ViewerTokenSecret: getEnv("VIEWER_TOKEN_SECRET", ""),
		ViewerTokenTTL:    ttl,
		AllowedOrigins:    getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
	}

	if cfg.ViewerTokenSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("VIEWER_TOKEN_SECRET is required in production")
	}
	if cfg.ViewerTokenSecret == "" {
		cfg.ViewerTokenSecret = devViewerTokenSecret
	}

	return cfg, nil
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}

// getEnvAsSlice splits a comma-separated variable, dropping empty entries.
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
