package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/errcodes"
)

const (
	countCacheTTL     = 30 * time.Second
	countCacheCleanup = 5 * time.Minute
	exportPageSize    = 500
	maxPageSize       = 1000
)

type GiftRepository interface {
	GetByName(ctx context.Context, name value.GiftName) (*entity.Gift, error)
	List(ctx context.Context, limit, offset int) ([]entity.Gift, error)
	Count(ctx context.Context) (int, error)
	CountByPrefix(ctx context.Context, prefix string) (int, error)
	UpdatePricing(ctx context.Context, name value.GiftName, pricing entity.Pricing) (*entity.Gift, error)
}

// GiftService отвечает на запросы к каталогу. Запись в каталог идёт только через ingest,
// здесь есть лишь ручное обновление оценки.
type GiftService struct {
	giftRepo   GiftRepository
	countCache *cache.Cache
}

func NewGiftService(giftRepo GiftRepository) *GiftService {
	return &GiftService{
		giftRepo:   giftRepo,
		countCache: cache.New(countCacheTTL, countCacheCleanup),
	}
}

func (s *GiftService) Get(ctx context.Context, name string) (entity.Gift, error) {
	giftName, err := parseName(name)
	if err != nil {
		return entity.Gift{}, err
	}

	gift, err := s.giftRepo.GetByName(ctx, giftName)
	if err != nil {
		return entity.Gift{}, fmt.Errorf("giftRepo.GetByName: %w", err)
	}

	return *gift, nil
}

// List возвращает страницу каталога и общее число записей.
func (s *GiftService) List(ctx context.Context, limit, offset int) ([]entity.Gift, int, error) {
	if limit <= 0 || limit > maxPageSize || offset < 0 {
		return nil, 0, domain.NewError(errcodes.InvalidPaging, "limit must be in [1, 1000], offset must not be negative")
	}

	gifts, err := s.giftRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("giftRepo.List: %w", err)
	}

	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return gifts, total, nil
}

// Count общее число подарков. Значение кэшируется на countCacheTTL.
func (s *GiftService) Count(ctx context.Context) (int, error) {
	return s.cachedCount(ctx, "", func() (int, error) {
		return s.giftRepo.Count(ctx)
	})
}

// CountByPrefix число подарков, чьё имя начинается с prefix.
func (s *GiftService) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	prefix = strings.TrimSpace(prefix)

	return s.cachedCount(ctx, prefix, func() (int, error) {
		return s.giftRepo.CountByPrefix(ctx, prefix)
	})
}

func (s *GiftService) cachedCount(ctx context.Context, key string, load func() (int, error)) (int, error) {
	cacheKey := "count:" + key

	if cached, found := s.countCache.Get(cacheKey); found {
		return cached.(int), nil //nolint:forcetypeassert
	}

	count, err := load()
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", key, err)
	}

	s.countCache.Set(cacheKey, count, cache.DefaultExpiration)

	logger(ctx).Debug("count cached", "prefix", key, "count", count)

	return count, nil
}

// InvalidateCounts сбрасывает кэш счётчиков после появления новых записей.
func (s *GiftService) InvalidateCounts() {
	s.countCache.Flush()
}

// UpdatePricing единственный путь, которым меняются уже сохранённые подарки.
func (s *GiftService) UpdatePricing(ctx context.Context, name string, pricing entity.Pricing) (entity.Gift, error) {
	giftName, err := parseName(name)
	if err != nil {
		return entity.Gift{}, err
	}

	if pricing.SalePrice == nil && pricing.RarityScore == nil && pricing.EstimatedPrice == nil {
		return entity.Gift{}, domain.NewError(errcodes.ValidationError, "nothing to update")
	}

	gift, err := s.giftRepo.UpdatePricing(ctx, giftName, pricing)
	if err != nil {
		return entity.Gift{}, fmt.Errorf("giftRepo.UpdatePricing: %w", err)
	}

	logger(ctx).Info("gift pricing updated", "name", giftName, "id", gift.ID)

	return *gift, nil
}

// Export выгружает весь каталог постранично.
func (s *GiftService) Export(ctx context.Context) ([]entity.Gift, error) {
	var all []entity.Gift

	for offset := 0; ; offset += exportPageSize {
		page, err := s.giftRepo.List(ctx, exportPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("giftRepo.List(offset=%d): %w", offset, err)
		}

		all = append(all, page...)

		if len(page) < exportPageSize {
			break
		}
	}

	logger(ctx).Info("catalogue exported", "count", len(all))

	return all, nil
}

func parseName(name string) (value.GiftName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewError(errcodes.InvalidGiftName, "gift name must not be empty")
	}

	return value.GiftName(name), nil
}
