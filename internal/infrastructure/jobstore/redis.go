package jobstore

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	keyPrefix = "gift_parser:job:"
	indexKey  = "gift_parser:jobs"
	// Активная задача без обновлений дольше этого срока считается брошенной.
	activeTTL = 24 * time.Hour
)

// Redis делает прогресс задач видимым для всех экземпляров сервиса.
type Redis struct {
	client    redis.UniversalClient
	retention time.Duration
}

func NewRedis(client redis.UniversalClient, retention time.Duration) *Redis {
	return &Redis{client: client, retention: retention}
}

func (r *Redis) Save(ctx context.Context, job entity.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode task")
	}

	ttl := activeTTL
	if job.Status.Finished() {
		ttl = r.retention
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+job.ID, payload, ttl)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(job.StartedAt.UnixNano()), Member: job.ID})

		return nil
	})
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save task")
	}

	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (entity.Job, error) {
	payload, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Job{}, domain.NewError(errcodes.JobNotFound, "task not found")
		}

		return entity.Job{}, domain.WrapError(err, errcodes.InternalServerError, "failed to load task")
	}

	var job entity.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return entity.Job{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode task")
	}

	return job, nil
}

// List возвращает задачи от новых к старым и вычищает из индекса истёкшие.
func (r *Redis) List(ctx context.Context) ([]entity.Job, error) {
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list tasks")
	}

	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load tasks")
	}

	jobs := make([]entity.Job, 0, len(values))

	var expired []any

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])

			continue
		}

		var job entity.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode task")
		}

		jobs = append(jobs, job)
	}

	if len(expired) > 0 {
		if err := r.client.ZRem(ctx, indexKey, expired...).Err(); err != nil {
			logger(ctx).Warn("failed to drop expired tasks from index", "count", len(expired), "error", err)
		}
	}

	return jobs, nil
}
