// Package config provides configuration loading for the Quartermaster bot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the bot.
type Config struct {
	// Slack settings
	SlackBotToken string
	SlackAppToken string

	// Claude settings
	AnthropicAPIKey string
	Model           string

	// Session limits
	MemorySize int           // turns retained per channel
	UsageLimit int           // lifetime admitted requests per user
	RateLimit  int           // admitted requests per user per window
	RateWindow time.Duration // trailing rate-limit window

	// Optional settings
	MetricsAddr string // empty disables the metrics listener
	LogLevel    string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Set prefix for environment variables
	v.SetEnvPrefix("QUARTERMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("MODEL", "")
	v.SetDefault("MEMORY_SIZE", 6)
	v.SetDefault("USAGE_LIMIT", 10)
	v.SetDefault("RATE_LIMIT", 3)
	v.SetDefault("RATE_WINDOW", "5m")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		SlackBotToken:   v.GetString("SLACK_BOT_TOKEN"),
		SlackAppToken:   v.GetString("SLACK_APP_TOKEN"),
		AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
		Model:           v.GetString("MODEL"),
		MemorySize:      v.GetInt("MEMORY_SIZE"),
		UsageLimit:      v.GetInt("USAGE_LIMIT"),
		RateLimit:       v.GetInt("RATE_LIMIT"),
		RateWindow:      v.GetDuration("RATE_WINDOW"),
		MetricsAddr:     v.GetString("METRICS_ADDR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	var errs []string

	if c.SlackBotToken == "" {
		errs = append(errs, "QUARTERMASTER_SLACK_BOT_TOKEN is required")
	}
	if c.SlackAppToken == "" {
		errs = append(errs, "QUARTERMASTER_SLACK_APP_TOKEN is required")
	}
	if c.AnthropicAPIKey == "" {
		errs = append(errs, "QUARTERMASTER_ANTHROPIC_API_KEY is required")
	}

	if c.MemorySize <= 0 {
		errs = append(errs, fmt.Sprintf("QUARTERMASTER_MEMORY_SIZE must be positive, got %d", c.MemorySize))
	}
	if c.UsageLimit <= 0 {
		errs = append(errs, fmt.Sprintf("QUARTERMASTER_USAGE_LIMIT must be positive, got %d", c.UsageLimit))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Sprintf("QUARTERMASTER_RATE_LIMIT must be positive, got %d", c.RateLimit))
	}
	if c.RateWindow <= 0 {
		errs = append(errs, fmt.Sprintf("QUARTERMASTER_RATE_WINDOW must be a positive duration, got %s", c.RateWindow))
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}
