// Package config loads application configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the tool needs at startup.
type Config struct {
	Provider string `env:"SHOPSCRIBE_LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"SHOPSCRIBE_LLM_MODEL" envDefault:"gpt-4o-mini"`
	APIKey   string `env:"SHOPSCRIBE_LLM_API_KEY"`
	BaseURL  string `env:"SHOPSCRIBE_LLM_BASE_URL"`

	Addr     string `env:"SHOPSCRIBE_ADDR" envDefault:":8080"`
	LogLevel string `env:"SHOPSCRIBE_LOG_LEVEL" envDefault:"info"`

	// HTTPTimeoutSec is inherited by both the page fetcher and the AI
	// transport; the core never manages timeouts itself.
	HTTPTimeoutSec int `env:"SHOPSCRIBE_HTTP_TIMEOUT" envDefault:"60"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	switch cfg.Provider {
	case "openai", "deepseek", "mock":
	default:
		return nil, fmt.Errorf("unsupported SHOPSCRIBE_LLM_PROVIDER %q", cfg.Provider)
	}
	if cfg.Provider == "deepseek" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider deepseek requires SHOPSCRIBE_LLM_BASE_URL (OpenAI-compatible endpoint)")
	}
	if cfg.HTTPTimeoutSec <= 0 {
		cfg.HTTPTimeoutSec = 60
	}
	return cfg, nil
}

// HTTPTimeout returns the transport timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
