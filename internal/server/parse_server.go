package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/errcodes"
	"gift_parser/pkg/httpx/reply"
	"gift_parser/pkg/httpx/req"
	"gift_parser/pkg/rest"
)

type ingester interface {
	IngestOne(ctx context.Context, id int64, giftType value.GiftType) (*entity.Gift, bool)
}

type batchRunner interface {
	Start(ctx context.Context, req entity.BatchRequest) (entity.Job, error)
	Progress(ctx context.Context, jobID string) (entity.Job, error)
	List(ctx context.Context) ([]entity.Job, error)
	Cancel(ctx context.Context, jobID string) (entity.Job, error)
}

// ParseServer разбор одной страницы и управление пакетными задачами.
type ParseServer struct {
	ingester    ingester
	batchRunner batchRunner
}

func NewParseServer(ingester ingester, batchRunner batchRunner) ParseServer {
	return ParseServer{
		ingester:    ingester,
		batchRunner: batchRunner,
	}
}

func (s ParseServer) postV1Parse(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ParseRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	giftType, err := value.ParseGiftType(request.GiftType)
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidGiftType, "gift type must contain latin letters or digits")
	}

	gift, ok := s.ingester.IngestOne(ctx, request.GiftID, giftType)
	if !ok {
		return domain.NewError(
			errcodes.GiftNotParsed,
			fmt.Sprintf("gift %d not found or has insufficient data", request.GiftID),
		)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTGift(*gift))

	return nil
}

func (s ParseServer) postV1ParseBatch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.BatchRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	job, err := s.batchRunner.Start(ctx, newDomainBatchRequest(request))
	if err != nil {
		return fmt.Errorf("batchRunner.Start: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, newRESTBatchResponse(job))

	return nil
}

func (s ParseServer) getV1Tasks(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	jobs, err := s.batchRunner.List(ctx)
	if err != nil {
		return fmt.Errorf("batchRunner.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTaskList(jobs))

	return nil
}

func (s ParseServer) getV1Task(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	job, err := s.batchRunner.Progress(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("batchRunner.Progress: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTask(job))

	return nil
}

func (s ParseServer) deleteV1Task(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	job, err := s.batchRunner.Cancel(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("batchRunner.Cancel: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, newRESTTask(job))

	return nil
}
