package server

import (
	"context"
	"net/http"
	"time"

	"gift_parser/pkg/errcodes"
	"gift_parser/pkg/httpx/reply"
	"gift_parser/pkg/logx"
	"gift_parser/pkg/rest"
)

type catalogueCounter interface {
	Count(ctx context.Context) (int, error)
}

type SystemServer struct {
	name    string
	version string
	counter catalogueCounter
	now     func() time.Time
}

func NewSystemServer(name, version string, counter catalogueCounter) SystemServer {
	return SystemServer{
		name:    name,
		version: version,
		counter: counter,
		now:     time.Now,
	}
}

func (s SystemServer) getRoot(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.Root{
		Message: "Telegram gifts parser API",
		Status:  "running",
		Name:    s.name,
		Version: s.version,
		Endpoints: map[string]string{
			"health":      "/health",
			"gifts":       "/v1/gifts",
			"gifts_count": "/v1/gifts/count",
			"export":      "/v1/gifts/export",
			"parse":       "/v1/parse",
			"batch_parse": "/v1/parse/batch",
			"tasks":       "/v1/tasks",
		},
	})

	return nil
}

// getHealth считает записи напрямую в базе, поэтому недоступная база видна сразу.
func (s SystemServer) getHealth(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	count, err := s.counter.Count(ctx)
	if err != nil {
		logger(ctx).Error("health check failed", logx.Error(err))
		reply.Fail(ctx, w, http.StatusInternalServerError, errcodes.InternalServerError, "database unavailable")

		return nil
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Health{
		Status:     "healthy",
		Timestamp:  s.now().UTC(),
		Database:   "connected",
		TotalGifts: count,
	})

	return nil
}
