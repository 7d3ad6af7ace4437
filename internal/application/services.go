package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gift_parser/internal/config"
	"gift_parser/internal/domain/entity"
	service "gift_parser/internal/domain/service/gift"
	"gift_parser/internal/domain/service/ingest"
	"gift_parser/internal/infrastructure/fragment"
	"gift_parser/internal/infrastructure/jobstore"
	"gift_parser/internal/infrastructure/notifier"
	"gift_parser/internal/infrastructure/persistence"
	"gift_parser/internal/worker"
	"gift_parser/pkg/application/connectors"
	"gift_parser/pkg/logx"
	"gift_parser/pkg/probe"
)

// Services общий набор зависимостей для API, бота и CLI.
type Services struct {
	Repo   *persistence.GiftRepository
	Gifts  *service.GiftService
	Ingest *ingest.Service
	Runner *worker.BatchRunner

	readyChecks map[string]probe.ReadyCheck
	closers     []func(context.Context)
}

// NewLogger логгер процесса по настройкам App.
func NewLogger(w io.Writer, cfg config.App) (*slog.Logger, error) {
	log, err := logx.NewLogger(w, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logx.NewLogger: %w", err)
	}

	return log.With(
		slog.String(logx.FieldAppName, cfg.Name),
		slog.String(logx.FieldAppVersion, cfg.Version),
	), nil
}

// Build подключает хранилища и собирает сервисы. Redis и memcache необязательны:
// без них прогресс задач и блокировка после 429 живут в памяти процесса.
func Build(ctx context.Context, cfg config.Config) (*Services, error) {
	s := &Services{readyChecks: make(map[string]probe.ReadyCheck)}

	// 1. Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	s.closers = append(s.closers, pg.Close)

	if err := persistence.EnsureSchema(ctx, db); err != nil {
		s.Close(ctx)

		return nil, fmt.Errorf("persistence.EnsureSchema: %w", err)
	}

	s.Repo = persistence.NewGiftRepository(db)
	s.Gifts = service.NewGiftService(s.Repo)
	s.readyChecks["postgres"] = s.Repo.Ping

	// 2. Fetcher
	fetcher := fragment.NewClient(fragment.Options{
		BaseURL:      cfg.Fragment.BaseURL,
		UserAgent:    cfg.Fragment.UserAgent,
		Timeout:      cfg.Fragment.Timeout,
		BlockTime:    cfg.Fragment.BlockTime,
		MaxBodyBytes: cfg.Fragment.MaxBodyBytes,
		LogBodyMax:   cfg.Fragment.LogBodyMax,
	}, s.blockCache(ctx, cfg.Memcache))

	s.Ingest = ingest.NewService(fetcher, fragment.NewPageExtractor(), s.Repo).
		WithCreatedHook(func(context.Context, entity.Gift) {
			s.Gifts.InvalidateCounts()
		})

	// 3. Batch jobs
	s.Runner = worker.NewBatchRunner(s.Ingest, s.jobStore(ctx, cfg)).
		WithDelayBounds(cfg.Ingest.MinDelay, cfg.Ingest.MaxDelay)

	if cfg.Bot.Enabled() && cfg.Bot.NotifyChatID != 0 {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.NotifyChatID)
		if err != nil {
			s.Close(ctx)

			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		s.Runner.WithNotifier(alertBot)
	}

	return s, nil
}

func (s *Services) blockCache(ctx context.Context, cfg config.Memcache) fragment.BlockCache {
	if cfg.Address == "" {
		return fragment.NewMemoryBlockCache()
	}

	mc := &connectors.Memcache{
		Address:      cfg.Address,
		Timeout:      cfg.Timeout,
		MaxIdleConns: cfg.MaxIdleConns,
	}
	client := mc.Client(ctx)

	s.readyChecks["memcache"] = func(context.Context) error {
		return client.Ping()
	}

	return fragment.NewMemcacheBlockCache(client)
}

func (s *Services) jobStore(ctx context.Context, cfg config.Config) worker.JobStore {
	if cfg.Redis.Address == "" {
		return jobstore.NewMemory(cfg.Ingest.JobsRetention)
	}

	rc := &connectors.Redis{
		Address:        cfg.Redis.Address,
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		DatabaseNumber: cfg.Redis.DatabaseNumber,
		PoolSize:       cfg.Redis.PoolSize,
	}
	client := rc.Client(ctx)
	s.closers = append(s.closers, rc.Close)

	s.readyChecks["redis"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}

	return jobstore.NewRedis(client, cfg.Ingest.JobsRetention)
}

// Close закрывает подключения в обратном порядке.
func (s *Services) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i](ctx)
	}
}
