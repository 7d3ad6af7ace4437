package jobstore

import (
	"context"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/pkg/errcodes"
)

// Memory хранит прогресс задач в памяти процесса. Завершённые задачи живут retention,
// активные не истекают.
type Memory struct {
	jobs      *cache.Cache
	retention time.Duration
}

func NewMemory(retention time.Duration) *Memory {
	return &Memory{
		jobs:      cache.New(cache.NoExpiration, retention),
		retention: retention,
	}
}

func (m *Memory) Save(_ context.Context, job entity.Job) error {
	ttl := cache.NoExpiration
	if job.Status.Finished() {
		ttl = m.retention
	}

	m.jobs.Set(job.ID, job, ttl)

	return nil
}

func (m *Memory) Get(_ context.Context, id string) (entity.Job, error) {
	v, found := m.jobs.Get(id)
	if !found {
		return entity.Job{}, domain.NewError(errcodes.JobNotFound, "task not found")
	}

	return v.(entity.Job), nil //nolint:forcetypeassert
}

// List возвращает задачи от новых к старым.
func (m *Memory) List(_ context.Context) ([]entity.Job, error) {
	items := m.jobs.Items()

	jobs := make([]entity.Job, 0, len(items))
	for _, item := range items {
		jobs = append(jobs, item.Object.(entity.Job)) //nolint:forcetypeassert
	}

	sortJobs(jobs)

	return jobs, nil
}

func sortJobs(jobs []entity.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].StartedAt.Equal(jobs[j].StartedAt) {
			return jobs[i].ID > jobs[j].ID
		}

		return jobs[i].StartedAt.After(jobs[j].StartedAt)
	})
}
