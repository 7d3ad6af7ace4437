package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"gift_parser/internal/domain/entity"
	"gift_parser/pkg/httpx/reply"
	"gift_parser/pkg/httpx/req"
	"gift_parser/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
	maxPageOffset    = 1 << 30
)

type giftService interface {
	Get(ctx context.Context, name string) (entity.Gift, error)
	List(ctx context.Context, limit, offset int) ([]entity.Gift, int, error)
	CountByPrefix(ctx context.Context, prefix string) (int, error)
	UpdatePricing(ctx context.Context, name string, pricing entity.Pricing) (entity.Gift, error)
	Export(ctx context.Context) ([]entity.Gift, error)
}

type GiftServer struct {
	giftService giftService
	now         func() time.Time
}

func NewGiftServer(giftService giftService) GiftServer {
	return GiftServer{
		giftService: giftService,
		now:         time.Now,
	}
}

func (s GiftServer) getV1Gifts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := req.QueryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
	if err != nil {
		return err
	}

	offset, err := req.QueryInt(r, "offset", 0, 0, maxPageOffset)
	if err != nil {
		return err
	}

	gifts, total, err := s.giftService.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("giftService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.GiftList{
		Items:  newRESTGifts(gifts),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})

	return nil
}

func (s GiftServer) getV1GiftsCount(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	prefix := r.URL.Query().Get("prefix")

	count, err := s.giftService.CountByPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("giftService.CountByPrefix: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.GiftCount{Prefix: prefix, Count: count})

	return nil
}

func (s GiftServer) getV1GiftsExport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	gifts, err := s.giftService.Export(ctx)
	if err != nil {
		return fmt.Errorf("giftService.Export: %w", err)
	}

	body, err := json.Marshal(newRESTGifts(gifts))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	fileName := "gifts-" + s.now().UTC().Format("20060102-150405") + ".json"

	reply.Attachment(ctx, w, fileName, "application/json; charset=utf-8", body)

	return nil
}

func (s GiftServer) getV1Gift(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	gift, err := s.giftService.Get(ctx, chi.URLParam(r, "name"))
	if err != nil {
		return fmt.Errorf("giftService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTGift(gift))

	return nil
}

func (s GiftServer) patchV1GiftPricing(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.GiftPricing

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	gift, err := s.giftService.UpdatePricing(ctx, chi.URLParam(r, "name"), newDomainPricing(request))
	if err != nil {
		return fmt.Errorf("giftService.UpdatePricing: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTGift(gift))

	return nil
}
