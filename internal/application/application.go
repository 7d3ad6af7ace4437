package application

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"gift_parser/internal/config"
	"gift_parser/internal/server"
	"gift_parser/internal/transport/bot"
	"gift_parser/internal/transport/bot/handler"
	"gift_parser/pkg/application/modules"
	"gift_parser/pkg/logx"
)

const logFieldMaxLen = 4096

// Run запускает HTTP API, метрики, пробы и, если задан токен, Telegram-бота.
// Возвращается после отмены ctx, когда все модули остановлены.
func Run(ctx context.Context, cfg config.Config) error {
	s, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close(context.WithoutCancel(ctx))

	g, ctx := errgroup.WithContext(ctx)

	srv := server.NewServer(
		server.NewGiftServer(s.Gifts),
		server.NewParseServer(s.Ingest, s.Runner),
		server.NewSystemServer(cfg.App.Name, cfg.App.Version, s.Repo),
	)

	// Запросы не отменяются вместе с ctx: их дожидается graceful shutdown.
	baseCtx := context.WithoutCancel(ctx)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           server.NewRouter(srv, logx.NewSensitiveDataMasker(), logFieldMaxLen),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)
	modules.MetricServer{ListenAddress: cfg.Metrics.ListenAddress}.Run(ctx, g)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		ReadyChecks:   s.readyChecks,
	}.Run(ctx, g)

	if cfg.Bot.Enabled() {
		telegramBot, err := bot.New(
			cfg.Bot.Token,
			handler.New(s.Gifts, s.Ingest, s.Runner, cfg.Bot.PageSize),
			cfg.Bot.AdminIDs,
		)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			return telegramBot.Run(ctx)
		})
	} else {
		logger(ctx).Info("telegram bot disabled")
	}

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := s.Runner.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("runner.Shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}
