package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gift_parser/internal/application"
	"gift_parser/internal/config"
	"gift_parser/pkg/contextx"
	"gift_parser/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load", logx.Error(err))
		os.Exit(1)
	}

	log, err := application.NewLogger(os.Stdout, cfg.App)
	if err != nil {
		slog.Error("logger setup", logx.Error(err))
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
