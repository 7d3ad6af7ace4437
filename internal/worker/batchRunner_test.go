package worker_test

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/internal/infrastructure/jobstore"
	"gift_parser/internal/worker"
	"gift_parser/pkg/errcodes"
)

type fakeIngester struct {
	mu       sync.Mutex
	calls    []int64
	failIDs  []int64
	inFlight atomic.Int32
	overlap  atomic.Bool
	block    chan struct{}
}

func (f *fakeIngester) IngestOne(ctx context.Context, id int64, _ value.GiftType) (*entity.Gift, bool) {
	if f.inFlight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.inFlight.Add(-1)

	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, false
		}
	}

	if slices.Contains(f.failIDs, id) {
		return nil, false
	}

	return &entity.Gift{ID: id}, true
}

func (f *fakeIngester) Calls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.calls)
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []entity.Job
}

func (f *fakeNotifier) NotifyJobFinished(_ context.Context, job entity.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.jobs = append(f.jobs, job)

	return nil
}

func (f *fakeNotifier) Jobs() []entity.Job {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.jobs)
}

func waitFinished(t *testing.T, runner *worker.BatchRunner, id string) entity.Job {
	t.Helper()

	var job entity.Job

	require.Eventually(t, func() bool {
		var err error

		job, err = runner.Progress(context.Background(), id)

		return err == nil && job.Status.Finished()
	}, 5*time.Second, 10*time.Millisecond)

	return job
}

func TestBatchRunnerStartValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		req  entity.BatchRequest
		code string
	}{
		{
			name: "Start after end",
			req:  entity.BatchRequest{GiftType: "widget", StartID: 5, EndID: 3, Delay: 100 * time.Millisecond},
			code: errcodes.InvalidRange.String(),
		},
		{
			name: "Zero start",
			req:  entity.BatchRequest{GiftType: "widget", StartID: 0, EndID: 3, Delay: 100 * time.Millisecond},
			code: errcodes.InvalidRange.String(),
		},
		{
			name: "Delay too short",
			req:  entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 3, Delay: 10 * time.Millisecond},
			code: errcodes.InvalidDelay.String(),
		},
		{
			name: "Delay too long",
			req:  entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 3, Delay: 6 * time.Second},
			code: errcodes.InvalidDelay.String(),
		},
		{
			name: "Bad gift type",
			req:  entity.BatchRequest{GiftType: "!!", StartID: 1, EndID: 3, Delay: 100 * time.Millisecond},
			code: errcodes.InvalidGiftType.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ingester := &fakeIngester{}
			jobs := jobstore.NewMemory(time.Hour)
			runner := worker.NewBatchRunner(ingester, jobs)

			_, err := runner.Start(ctx, tc.req)
			rq.Error(err)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tc.code, code.String())

			listed, err := runner.List(ctx)
			rq.NoError(err)
			rq.Empty(listed)
			rq.Zero(runner.Active())
			rq.Empty(ingester.Calls())
		})
	}
}

func TestBatchRunnerCountsFailuresAndCompletes(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ingester := &fakeIngester{failIDs: []int64{2, 4}}
	notifier := &fakeNotifier{}
	runner := worker.NewBatchRunner(ingester, jobstore.NewMemory(time.Hour)).WithNotifier(notifier)

	started, err := runner.Start(ctx, entity.BatchRequest{GiftType: "Widget", StartID: 1, EndID: 5, Delay: 100 * time.Millisecond})
	rq.NoError(err)
	rq.Regexp(`^task_[0-9a-v]{20}$`, started.ID)
	rq.Equal(value.JobStatusStarting, started.Status)
	rq.Equal(5, started.Total)
	rq.Equal("widget", started.GiftType)

	job := waitFinished(t, runner, started.ID)

	rq.Equal(value.JobStatusCompleted, job.Status)
	rq.Equal(5, job.Total)
	rq.Equal(5, job.Current)
	rq.Equal(3, job.Success)
	rq.Equal(2, job.Failed)
	rq.Equal("100.0%", job.Progress)
	rq.NotNil(job.CompletedAt)

	rq.Equal([]int64{1, 2, 3, 4, 5}, ingester.Calls())
	rq.False(ingester.overlap.Load())

	rq.Eventually(func() bool { return len(notifier.Jobs()) == 1 }, time.Second, 10*time.Millisecond)
	rq.Equal(started.ID, notifier.Jobs()[0].ID)
	rq.Eventually(func() bool { return runner.Active() == 0 }, time.Second, 10*time.Millisecond)
}

func TestBatchRunnerPacing(t *testing.T) {
	rq := require.New(t)

	runner := worker.NewBatchRunner(&fakeIngester{}, jobstore.NewMemory(time.Hour))

	start := time.Now()

	job, err := runner.Run(context.Background(), entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 4, Delay: 100 * time.Millisecond})
	rq.NoError(err)
	rq.Equal(value.JobStatusCompleted, job.Status)
	rq.Equal(4, job.Success)

	rq.GreaterOrEqual(time.Since(start), 300*time.Millisecond)
}

func TestBatchRunnerCancel(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ingester := &fakeIngester{}
	runner := worker.NewBatchRunner(ingester, jobstore.NewMemory(time.Hour))

	started, err := runner.Start(ctx, entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 100, Delay: 5 * time.Second})
	rq.NoError(err)

	rq.Eventually(func() bool { return len(ingester.Calls()) == 1 }, time.Second, 10*time.Millisecond)

	_, err = runner.Cancel(ctx, started.ID)
	rq.NoError(err)

	job := waitFinished(t, runner, started.ID)
	rq.Equal(value.JobStatusCancelled, job.Status)
	rq.Equal(1, job.Current)
	rq.Equal(1, job.Success)
	rq.Equal(100, job.Total)
	rq.NotNil(job.CompletedAt)

	rq.Eventually(func() bool { return runner.Active() == 0 }, time.Second, 10*time.Millisecond)

	_, err = runner.Cancel(ctx, started.ID)
	rq.True(domain.IsCode(err, errcodes.JobAlreadyFinished))

	_, err = runner.Cancel(ctx, "task_unknown")
	rq.True(domain.IsCode(err, errcodes.JobNotFound))
}

func TestBatchRunnerCancelDuringFetch(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ingester := &fakeIngester{block: make(chan struct{})}
	runner := worker.NewBatchRunner(ingester, jobstore.NewMemory(time.Hour))

	started, err := runner.Start(ctx, entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 3, Delay: 100 * time.Millisecond})
	rq.NoError(err)

	rq.Eventually(func() bool { return len(ingester.Calls()) == 1 }, time.Second, 10*time.Millisecond)

	_, err = runner.Cancel(ctx, started.ID)
	rq.NoError(err)

	job := waitFinished(t, runner, started.ID)
	rq.Equal(value.JobStatusCancelled, job.Status)
	rq.Zero(job.Current)
	rq.Zero(job.Failed)
}

func TestBatchRunnerConcurrentJobs(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	runner := worker.NewBatchRunner(&fakeIngester{}, jobstore.NewMemory(time.Hour))

	first, err := runner.Start(ctx, entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 3, Delay: 100 * time.Millisecond})
	rq.NoError(err)

	second, err := runner.Start(ctx, entity.BatchRequest{GiftType: "gadget", StartID: 10, EndID: 11, Delay: 100 * time.Millisecond})
	rq.NoError(err)
	rq.NotEqual(first.ID, second.ID)

	a := waitFinished(t, runner, first.ID)
	b := waitFinished(t, runner, second.ID)

	rq.Equal(3, a.Success)
	rq.Equal(2, b.Success)

	listed, err := runner.List(ctx)
	rq.NoError(err)
	rq.Len(listed, 2)
}

func TestBatchRunnerShutdown(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	runner := worker.NewBatchRunner(&fakeIngester{}, jobstore.NewMemory(time.Hour))

	started, err := runner.Start(ctx, entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 50, Delay: 5 * time.Second})
	rq.NoError(err)

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	rq.NoError(runner.Shutdown(shutdownCtx))
	rq.Zero(runner.Active())

	job, err := runner.Progress(ctx, started.ID)
	rq.NoError(err)
	rq.Equal(value.JobStatusCancelled, job.Status)

	_, err = runner.Start(ctx, entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 2, Delay: 100 * time.Millisecond})
	rq.ErrorIs(err, worker.ErrShuttingDown)
}

func TestBatchRunnerProgressUnknown(t *testing.T) {
	rq := require.New(t)

	runner := worker.NewBatchRunner(&fakeIngester{}, jobstore.NewMemory(time.Hour))

	_, err := runner.Progress(context.Background(), "task_nope")
	rq.True(domain.IsCode(err, errcodes.JobNotFound))
}
