package jobstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/internal/infrastructure/jobstore"
	"gift_parser/pkg/errcodes"
)

type store interface {
	Save(ctx context.Context, job entity.Job) error
	Get(ctx context.Context, id string) (entity.Job, error)
	List(ctx context.Context) ([]entity.Job, error)
}

func testStore(t *testing.T, s store) {
	t.Helper()

	rq := require.New(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "task_missing")
	rq.True(domain.IsCode(err, errcodes.JobNotFound))

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	older := entity.Job{ID: "task_a", Total: 5, Status: value.JobStatusRunning, Progress: "20.0%", Current: 1, StartedAt: started}
	newer := entity.Job{ID: "task_b", Total: 3, Status: value.JobStatusStarting, Progress: "0.0%", StartedAt: started.Add(time.Minute)}

	rq.NoError(s.Save(ctx, older))
	rq.NoError(s.Save(ctx, newer))

	got, err := s.Get(ctx, "task_a")
	rq.NoError(err)
	rq.Equal(older, got)

	completedAt := started.Add(2 * time.Minute)
	older.Status = value.JobStatusCompleted
	older.Current, older.Success, older.Failed = 5, 3, 2
	older.Progress = "100.0%"
	older.CompletedAt = &completedAt

	rq.NoError(s.Save(ctx, older))

	got, err = s.Get(ctx, "task_a")
	rq.NoError(err)
	rq.Equal(value.JobStatusCompleted, got.Status)
	rq.Equal(3, got.Success)
	rq.Equal(2, got.Failed)
	rq.True(completedAt.Equal(*got.CompletedAt))

	jobs, err := s.List(ctx)
	rq.NoError(err)
	rq.Len(jobs, 2)
	rq.Equal("task_b", jobs[0].ID)
	rq.Equal("task_a", jobs[1].ID)
}

func TestMemory(t *testing.T) {
	testStore(t, jobstore.NewMemory(time.Hour))
}

func TestMemoryRetention(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := jobstore.NewMemory(50 * time.Millisecond)

	rq.NoError(s.Save(ctx, entity.Job{ID: "task_running", Status: value.JobStatusRunning}))
	rq.NoError(s.Save(ctx, entity.Job{ID: "task_done", Status: value.JobStatusCompleted}))

	rq.Eventually(func() bool {
		_, err := s.Get(ctx, "task_done")

		return domain.IsCode(err, errcodes.JobNotFound)
	}, time.Second, 10*time.Millisecond)

	_, err := s.Get(ctx, "task_running")
	rq.NoError(err)
}

// Requires Redis, address taken from REDIS_TEST_ADDR. Uses database 15 and flushes it.
func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("redis is not available")
	}

	require.NoError(t, client.FlushDB(ctx).Err())

	testStore(t, jobstore.NewRedis(client, time.Hour))
}
