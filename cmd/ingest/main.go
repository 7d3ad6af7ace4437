package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gift_parser/internal/application"
	"gift_parser/internal/config"
	"gift_parser/internal/domain/entity"
	"gift_parser/pkg/contextx"
	"gift_parser/pkg/logx"
)

// go run ./cmd/ingest -type plushpepe -start 1 -end 100 -delay 1s
//
// Разбирает диапазон в текущем процессе и печатает итоговый прогресс.
// Ctrl+C останавливает разбор, уже сохранённые подарки остаются в базе.

func main() {
	giftType := flag.String("type", "", "gift type, e.g. plushpepe")
	startID := flag.Int64("start", 1, "first gift id")
	endID := flag.Int64("end", 1, "last gift id")
	delay := flag.Duration("delay", time.Second, "pause between pages")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, entity.BatchRequest{
		GiftType: *giftType,
		StartID:  *startID,
		EndID:    *endID,
		Delay:    *delay,
	}); err != nil {
		slog.Error("ingest failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, req entity.BatchRequest) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log, err := application.NewLogger(os.Stderr, cfg.App)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	s, err := application.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close(context.WithoutCancel(ctx))

	job, err := s.Runner.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("runner.Run: %w", err)
	}

	fmt.Printf( //nolint:forbidigo
		"%s %s: %d/%d (%s), success %d, failed %d\n",
		job.ID, job.Status, job.Current, job.Total, job.Progress, job.Success, job.Failed,
	)

	return nil
}
