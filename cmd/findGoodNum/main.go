package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gift_parser/internal/application"
	"gift_parser/internal/config"
	service "gift_parser/internal/domain/service/gift"
	"gift_parser/internal/domain/service/numRating"
	"gift_parser/internal/domain/value"
	"gift_parser/internal/infrastructure/persistence"
	"gift_parser/pkg/application/connectors"
	"gift_parser/pkg/contextx"
	"gift_parser/pkg/logx"
)

// go run ./cmd/findGoodNum -min 80 -prefix "Plush Pepe"
//
// Ищет в каталоге подарки с красивыми серийными номерами.

func main() {
	minScore := flag.Float64("min", 75, "minimal serial rating, 0-100") //nolint:mnd
	prefix := flag.String("prefix", "", "gift name prefix")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *minScore, *prefix); err != nil {
		slog.Error("application error", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, minScore float64, prefix string) error {
	// 1. Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log, err := application.NewLogger(os.Stderr, cfg.App)
	if err != nil {
		return err
	}

	ctx = contextx.WithLogger(ctx, log)

	// 2. Подключение к базе данных
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	svc := service.NewGiftService(persistence.NewGiftRepository(db))

	gifts, err := svc.Export(ctx)
	if err != nil {
		return fmt.Errorf("export catalogue: %w", err)
	}

	found := 0

	for _, gift := range gifts {
		if !strings.HasPrefix(gift.Name.String(), prefix) {
			continue
		}

		rating, ok := numRating.RateName(gift.Name)
		if !ok || !rating.IsUnique || rating.Score < minScore {
			continue
		}

		found++

		fmt.Printf("%-40s %5.0f %-14s %s\n", gift.Name, rating.Score, rating.Description, value.NFTLink(gift.Name, gift.ID)) //nolint:forbidigo
	}

	log.Info("catalogue scanned",
		slog.Int("total", len(gifts)),
		slog.Int("found", found),
		slog.Float64("min-score", minScore))

	return nil
}
