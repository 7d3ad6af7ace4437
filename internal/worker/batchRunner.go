package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/contextx"
	"gift_parser/pkg/errcodes"
	"gift_parser/pkg/logx"
)

const (
	DefaultMinDelay = 100 * time.Millisecond
	DefaultMaxDelay = 5 * time.Second

	jobIDPrefix = "task_"
)

var ErrShuttingDown = errors.New("batch runner is shutting down")

type Ingester interface {
	IngestOne(ctx context.Context, id int64, giftType value.GiftType) (*entity.Gift, bool)
}

type JobStore interface {
	Save(ctx context.Context, job entity.Job) error
	Get(ctx context.Context, id string) (entity.Job, error)
	List(ctx context.Context) ([]entity.Job, error)
}

// JobNotifier узнаёт о завершении задачи (например, чат администратора).
type JobNotifier interface {
	NotifyJobFinished(ctx context.Context, job entity.Job) error
}

// BatchRunner разбирает диапазоны id строго последовательно, с паузой между страницами.
// Разные задачи идут параллельно, каждая в своей горутине.
type BatchRunner struct {
	ingester Ingester
	jobs     JobStore
	notifier JobNotifier

	minDelay time.Duration
	maxDelay time.Duration
	now      func() time.Time

	// Control fields
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

func NewBatchRunner(ingester Ingester, jobs JobStore) *BatchRunner {
	return &BatchRunner{
		ingester: ingester,
		jobs:     jobs,
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		now:      time.Now,
		cancels:  make(map[string]context.CancelFunc),
	}
}

func (w *BatchRunner) WithDelayBounds(minDelay, maxDelay time.Duration) *BatchRunner {
	w.minDelay = minDelay
	w.maxDelay = maxDelay

	return w
}

func (w *BatchRunner) WithNotifier(notifier JobNotifier) *BatchRunner {
	w.notifier = notifier

	return w
}

// Start проверяет параметры и запускает задачу в фоне. При неверных параметрах
// задача не создаётся и ничего не запускается.
func (w *BatchRunner) Start(ctx context.Context, req entity.BatchRequest) (entity.Job, error) {
	giftType, err := w.validate(req)
	if err != nil {
		return entity.Job{}, err
	}

	job := w.newJob(req, giftType)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return entity.Job{}, domain.WrapError(ErrShuttingDown, errcodes.InternalServerError, "service is stopping")
	}

	if err := w.jobs.Save(ctx, job); err != nil {
		return entity.Job{}, fmt.Errorf("jobs.Save: %w", err)
	}

	// Задача переживает HTTP-запрос или сообщение бота, которые её создали.
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancels[job.ID] = cancel

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.cancels, job.ID)
			w.mu.Unlock()
			cancel()
		}()

		w.run(jobCtx, job, giftType, req.Delay)
	}()

	return job, nil
}

// Run выполняет задачу в текущей горутине и возвращает итоговый прогресс.
func (w *BatchRunner) Run(ctx context.Context, req entity.BatchRequest) (entity.Job, error) {
	giftType, err := w.validate(req)
	if err != nil {
		return entity.Job{}, err
	}

	job := w.newJob(req, giftType)

	if err := w.jobs.Save(ctx, job); err != nil {
		return entity.Job{}, fmt.Errorf("jobs.Save: %w", err)
	}

	return w.run(ctx, job, giftType, req.Delay), nil
}

// Cancel останавливает задачу перед следующим id. Счётчики сохраняются, статус станет cancelled.
func (w *BatchRunner) Cancel(ctx context.Context, jobID string) (entity.Job, error) {
	w.mu.Lock()
	cancel, running := w.cancels[jobID]
	w.mu.Unlock()

	job, err := w.jobs.Get(ctx, jobID)
	if err != nil {
		return entity.Job{}, fmt.Errorf("jobs.Get: %w", err)
	}

	// Итог уже записан, даже если горутина задачи ещё не вышла.
	if job.Status.Finished() {
		return job, domain.NewError(errcodes.JobAlreadyFinished, "task already "+job.Status.String())
	}

	if !running {
		return job, domain.NewError(errcodes.JobNotFound, "task is not running in this instance")
	}

	cancel()

	logger(ctx).Info("batch job cancel requested", slog.String(logx.FieldJobID, jobID))

	return job, nil
}

func (w *BatchRunner) Progress(ctx context.Context, jobID string) (entity.Job, error) {
	job, err := w.jobs.Get(ctx, jobID)
	if err != nil {
		return entity.Job{}, fmt.Errorf("jobs.Get: %w", err)
	}

	return job, nil
}

func (w *BatchRunner) List(ctx context.Context) ([]entity.Job, error) {
	jobs, err := w.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("jobs.List: %w", err)
	}

	return jobs, nil
}

// Active число задач, выполняющихся в этом процессе.
func (w *BatchRunner) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.cancels)
}

// Shutdown отменяет все задачи и ждёт, пока они запишут итоговый прогресс.
func (w *BatchRunner) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true

	for _, cancel := range w.cancels {
		cancel()
	}
	w.mu.Unlock()

	done := make(chan struct{})

	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait batch jobs: %w", ctx.Err())
	}
}

func (w *BatchRunner) validate(req entity.BatchRequest) (value.GiftType, error) {
	giftType, err := value.ParseGiftType(req.GiftType)
	if err != nil {
		return "", domain.WrapError(err, errcodes.InvalidGiftType, "gift type must contain latin letters or digits")
	}

	if req.StartID < 1 {
		return "", domain.NewError(errcodes.InvalidRange, "start_id must be positive")
	}

	if req.StartID > req.EndID {
		return "", domain.NewError(errcodes.InvalidRange, "start_id must not exceed end_id")
	}

	if req.Delay < w.minDelay || req.Delay > w.maxDelay {
		return "", domain.NewError(
			errcodes.InvalidDelay,
			fmt.Sprintf("delay must be between %s and %s", w.minDelay, w.maxDelay),
		)
	}

	return giftType, nil
}

func (w *BatchRunner) newJob(req entity.BatchRequest, giftType value.GiftType) entity.Job {
	total := int(req.EndID - req.StartID + 1)

	return entity.Job{
		ID:        jobIDPrefix + xid.New().String(),
		Total:     total,
		Status:    value.JobStatusStarting,
		Progress:  entity.FormatProgress(0, total),
		GiftType:  giftType.String(),
		StartID:   req.StartID,
		EndID:     req.EndID,
		Delay:     req.Delay,
		StartedAt: w.now().UTC(),
	}
}

func (w *BatchRunner) run(ctx context.Context, job entity.Job, giftType value.GiftType, delay time.Duration) entity.Job {
	ctx = contextx.WithTraceID(ctx, contextx.TraceID(job.ID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldJobID, job.ID)))

	activeJobs.Inc()
	defer activeJobs.Dec()

	logger(ctx).Info(
		"batch job started",
		logx.Stringer(logx.FieldGiftType, giftType),
		slog.Int64("start-id", job.StartID),
		slog.Int64("end-id", job.EndID),
		slog.Duration("delay", delay),
	)

	job.Status = value.JobStatusRunning
	w.save(ctx, job)

	for id := job.StartID; id <= job.EndID; id++ {
		if ctx.Err() != nil {
			break
		}

		_, ok := w.ingester.IngestOne(ctx, id, giftType)

		// Отмена посреди запроса не считается неудачей этого id.
		if !ok && ctx.Err() != nil {
			break
		}

		job.Current++

		if ok {
			job.Success++
		} else {
			job.Failed++
		}

		job.Progress = entity.FormatProgress(job.Current, job.Total)
		w.save(ctx, job)

		if id < job.EndID && !sleep(ctx, delay) {
			break
		}
	}

	job.Status = value.JobStatusCompleted
	if job.Current < job.Total {
		job.Status = value.JobStatusCancelled
	}

	completedAt := w.now().UTC()
	job.CompletedAt = &completedAt

	// Итог пишется и после отмены.
	finalCtx := context.WithoutCancel(ctx)
	w.save(finalCtx, job)

	finishedJobs.WithLabelValues(job.Status.String()).Inc()

	logger(ctx).Info(
		"batch job finished",
		slog.String(logx.FieldJobStatus, job.Status.String()),
		slog.Int("success", job.Success),
		slog.Int("failed", job.Failed),
		slog.Int("total", job.Total),
	)

	if w.notifier != nil {
		if err := w.notifier.NotifyJobFinished(finalCtx, job); err != nil {
			logger(ctx).Warn("job notification failed", logx.Error(err))
		}
	}

	return job
}

func (w *BatchRunner) save(ctx context.Context, job entity.Job) {
	if err := w.jobs.Save(ctx, job); err != nil {
		logger(ctx).Error("failed to save job progress", logx.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
