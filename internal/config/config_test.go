package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("QUARTERMASTER_SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("QUARTERMASTER_SLACK_APP_TOKEN", "xapp-test")
	t.Setenv("QUARTERMASTER_ANTHROPIC_API_KEY", "sk-ant-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.MemorySize)
	assert.Equal(t, 10, cfg.UsageLimit)
	assert.Equal(t, 3, cfg.RateLimit)
	assert.Equal(t, 5*time.Minute, cfg.RateWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.Model)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUARTERMASTER_MEMORY_SIZE", "12")
	t.Setenv("QUARTERMASTER_RATE_WINDOW", "90s")
	t.Setenv("QUARTERMASTER_METRICS_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.MemorySize)
	assert.Equal(t, 90*time.Second, cfg.RateWindow)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadMissingTokens(t *testing.T) {
	t.Setenv("QUARTERMASTER_SLACK_BOT_TOKEN", "")
	t.Setenv("QUARTERMASTER_SLACK_APP_TOKEN", "")
	t.Setenv("QUARTERMASTER_ANTHROPIC_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUARTERMASTER_SLACK_BOT_TOKEN is required")
	assert.Contains(t, err.Error(), "QUARTERMASTER_SLACK_APP_TOKEN is required")
	assert.Contains(t, err.Error(), "QUARTERMASTER_ANTHROPIC_API_KEY is required")
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	cfg := &Config{
		SlackBotToken:   "xoxb",
		SlackAppToken:   "xapp",
		AnthropicAPIKey: "sk-ant",
		MemorySize:      0,
		UsageLimit:      -1,
		RateLimit:       3,
		RateWindow:      time.Minute,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUARTERMASTER_MEMORY_SIZE")
	assert.Contains(t, err.Error(), "QUARTERMASTER_USAGE_LIMIT")
	assert.NotContains(t, err.Error(), "QUARTERMASTER_RATE_LIMIT")
}
