package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/logx"
)

type Fetcher interface {
	Fetch(ctx context.Context, id int64, giftType value.GiftType) entity.FetchResult
}

// Extractor разбирает страницу. Порядок тегов на странице считается контрактом:
// первый модель, второй фон, третий символ.
type Extractor interface {
	Extract(id int64, body []byte) (entity.Gift, bool)
}

type GiftStore interface {
	Upsert(ctx context.Context, gift entity.Gift) (entity.UpsertResult, error)
}

// CreatedHook вызывается после появления новой записи (сброс кэшей счётчиков).
type CreatedHook func(ctx context.Context, gift entity.Gift)

type Service struct {
	fetcher   Fetcher
	extractor Extractor
	store     GiftStore
	onCreated CreatedHook
}

func NewService(fetcher Fetcher, extractor Extractor, store GiftStore) *Service {
	return &Service{
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
	}
}

func (s *Service) WithCreatedHook(hook CreatedHook) *Service {
	s.onCreated = hook

	return s
}

// IngestOne скачивает страницу подарка, разбирает её и сохраняет запись, если такого имени ещё нет.
// Возвращает nil и false, если страница не скачалась, данных недостаточно или хранилище
// ответило ошибкой. Повтор уже сохранённого имени считается успехом.
func (s *Service) IngestOne(ctx context.Context, id int64, giftType value.GiftType) (gift *entity.Gift, ok bool) {
	log := logger(ctx).With(
		slog.Int64(logx.FieldGiftID, id),
		logx.Stringer(logx.FieldGiftType, giftType),
	)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error(
				"panic while ingesting gift",
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)
			ingestTotal.WithLabelValues(resultPanic).Inc()

			gift, ok = nil, false
		}
	}()

	start := time.Now()
	doc := s.fetcher.Fetch(ctx, id, giftType)
	fetchDuration.Observe(time.Since(start).Seconds())

	if !doc.OK() {
		log.Warn("gift page not fetched", slog.String(logx.FieldURL, doc.URL), logx.Error(doc.Err))
		ingestTotal.WithLabelValues(resultFetchFailed).Inc()

		return nil, false
	}

	candidate, ok := s.extractor.Extract(id, doc.Body)
	if !ok {
		log.Info("insufficient data on gift page", slog.String(logx.FieldURL, doc.URL))
		ingestTotal.WithLabelValues(resultInsufficient).Inc()

		return nil, false
	}

	res, err := s.store.Upsert(ctx, candidate)
	if err != nil {
		log.Error("gift not stored", slog.String(logx.FieldGiftName, candidate.Name.String()), logx.Error(fmt.Errorf("store.Upsert: %w", err)))
		ingestTotal.WithLabelValues(resultStoreFailed).Inc()

		return nil, false
	}

	if !res.Created {
		log.Info("gift already in catalogue", slog.String(logx.FieldGiftName, candidate.Name.String()))
		ingestTotal.WithLabelValues(resultDuplicate).Inc()

		return &res.Gift, true
	}

	log.Info("gift added", slog.String(logx.FieldGiftName, res.Gift.Name.String()))
	ingestTotal.WithLabelValues(resultCreated).Inc()

	if s.onCreated != nil {
		s.onCreated(ctx, res.Gift)
	}

	return &res.Gift, true
}
