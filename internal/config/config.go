package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"invoicing-app/internal/logger"
)

// Config carries all runtime settings, populated from the environment.
type Config struct {
	// Remote engine
	EngineBaseURL  string // e.g. http://localhost:5000/api
	DatabaseName   string
	RequestTimeout time.Duration

	// HTTP server
	ListenPort     string
	AllowedOrigins []string

	// Sessions
	SessionTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads configuration from the environment. Call godotenv.Load first
// if a .env file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		EngineBaseURL:  getEnv("ENGINE_BASE_URL", "http://localhost:5000/api"),
		DatabaseName:   getEnv("ENGINE_DATABASE", "invoicing_db"),
		RequestTimeout: getDuration("ENGINE_TIMEOUT", 10*time.Second),
		ListenPort:     getEnv("SERVER_PORT", "8000"),
		AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "")),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogOutput:      getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.EngineBaseURL == "" {
		return fmt.Errorf("ENGINE_BASE_URL is required")
	}
	if c.DatabaseName == "" {
		return fmt.Errorf("ENGINE_DATABASE is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// LoggerConfig translates the logging settings for logger.Setup.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat, Output: c.LogOutput}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare numbers are treated as seconds.
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
