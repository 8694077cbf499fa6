// Package main is the entry point for the Quartermaster channel assistant.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ethanmckee/quartermaster/internal/claude"
	"github.com/ethanmckee/quartermaster/internal/config"
	"github.com/ethanmckee/quartermaster/internal/metrics"
	"github.com/ethanmckee/quartermaster/internal/session"
	"github.com/ethanmckee/quartermaster/internal/slack"
)

func main() {
	// Setup logger
	logLevel := slog.LevelInfo
	if os.Getenv("QUARTERMASTER_LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting Quartermaster...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("Configuration loaded",
		"memory_size", cfg.MemorySize,
		"usage_limit", cfg.UsageLimit,
		"rate_limit", cfg.RateLimit,
		"rate_window", cfg.RateWindow,
	)

	// Create the session state manager
	sessions := session.NewManager(
		session.NewConversationWindow(cfg.MemorySize),
		session.NewUsageQuota(cfg.UsageLimit),
		session.NewSlidingWindowRateLimiter(cfg.RateLimit, cfg.RateWindow),
		logger,
	)

	// Create Claude client
	model := cfg.Model
	if model == "" {
		model = claude.DefaultModel
	}
	claudeClient := claude.NewClientWithModel(cfg.AnthropicAPIKey, model)

	// The bot supplies the admin capability check; wire it after creation.
	var bot *slack.Bot
	isAdmin := func(userID string) bool { return bot.IsWorkspaceAdmin(userID) }

	handler := slack.NewHandler(sessions, claudeClient, isAdmin, logger)

	bot, err = slack.NewBot(cfg, handler, logger)
	if err != nil {
		logger.Error("Failed to create Slack bot", "error", err)
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", "signal", sig)
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(gctx)
	})

	if cfg.MetricsAddr != "" {
		logger.Info("Serving metrics", "addr", cfg.MetricsAddr)
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.MetricsAddr)
		})
	}

	logger.Info("Quartermaster is running. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Bot error", "error", err)
		os.Exit(1)
	}

	logger.Info("Quartermaster stopped.")
}
