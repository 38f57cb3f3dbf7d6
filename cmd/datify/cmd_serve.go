package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/datify/internal/telegram"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bridge",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not configured (set telegram.token or TELEGRAM_BOT_TOKEN)")
	}

	a := newApp(cfg)
	adapter, err := telegram.New(cfg.Telegram.Token, a)
	if err != nil {
		return fmt.Errorf("create telegram adapter: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go adapter.Start(ctx)
	slog.Info("datify telegram bridge started",
		"base_url", cfg.BaseURL,
		"log_level", cfg.LogLevel,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	slog.Info("shutting down", "signal", sig)
	return nil
}
