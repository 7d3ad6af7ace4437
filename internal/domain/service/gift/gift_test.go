package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	service "gift_parser/internal/domain/service/gift"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/errcodes"
)

type fakeRepo struct {
	gifts        []entity.Gift
	countCalls   int
	listErr      error
	updatedNames []value.GiftName
}

func (f *fakeRepo) GetByName(_ context.Context, name value.GiftName) (*entity.Gift, error) {
	for _, g := range f.gifts {
		if g.Name == name {
			return &g, nil
		}
	}

	return nil, domain.NewError(errcodes.GiftNotFound, "gift not found")
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]entity.Gift, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	if offset >= len(f.gifts) {
		return nil, nil
	}

	return f.gifts[offset:min(offset+limit, len(f.gifts))], nil
}

func (f *fakeRepo) Count(context.Context) (int, error) {
	f.countCalls++

	return len(f.gifts), nil
}

func (f *fakeRepo) CountByPrefix(_ context.Context, prefix string) (int, error) {
	f.countCalls++

	n := 0

	for _, g := range f.gifts {
		if strings.HasPrefix(g.Name.String(), prefix) {
			n++
		}
	}

	return n, nil
}

func (f *fakeRepo) UpdatePricing(ctx context.Context, name value.GiftName, pricing entity.Pricing) (*entity.Gift, error) {
	gift, err := f.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	f.updatedNames = append(f.updatedNames, name)
	gift.RarityScore = pricing.RarityScore

	return gift, nil
}

func newRepo(n int) *fakeRepo {
	repo := &fakeRepo{}

	for i := 1; i <= n; i++ {
		repo.gifts = append(repo.gifts, entity.Gift{
			ID:   int64(i),
			Name: value.GiftName("Plush Pepe #" + string(rune('0'+i%10))),
		})
	}

	return repo
}

func TestGiftServiceGet(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := service.NewGiftService(newRepo(3))

	gift, err := svc.Get(ctx, "  Plush Pepe #2 ")
	rq.NoError(err)
	rq.Equal(int64(2), gift.ID)

	_, err = svc.Get(ctx, "Plush Pepe #9")
	rq.True(domain.IsCode(err, errcodes.GiftNotFound))

	_, err = svc.Get(ctx, " ")
	rq.True(domain.IsCode(err, errcodes.InvalidGiftName))
}

func TestGiftServiceList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	testCases := []struct {
		name    string
		limit   int
		offset  int
		wantLen int
		wantErr bool
	}{
		{name: "First page", limit: 2, offset: 0, wantLen: 2},
		{name: "Tail", limit: 2, offset: 4, wantLen: 1},
		{name: "Past the end", limit: 2, offset: 10, wantLen: 0},
		{name: "Zero limit", limit: 0, offset: 0, wantErr: true},
		{name: "Negative offset", limit: 1, offset: -1, wantErr: true},
	}

	svc := service.NewGiftService(newRepo(5))

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			gifts, total, err := svc.List(ctx, tc.limit, tc.offset)
			if tc.wantErr {
				rq.True(domain.IsCode(err, errcodes.InvalidPaging))

				return
			}

			rq.NoError(err)
			rq.Len(gifts, tc.wantLen)
			rq.Equal(5, total)
		})
	}
}

func TestGiftServiceCountCached(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newRepo(4)
	svc := service.NewGiftService(repo)

	n, err := svc.CountByPrefix(ctx, "Plush")
	rq.NoError(err)
	rq.Equal(4, n)

	n, err = svc.CountByPrefix(ctx, "Plush")
	rq.NoError(err)
	rq.Equal(4, n)
	rq.Equal(1, repo.countCalls)

	svc.InvalidateCounts()

	_, err = svc.CountByPrefix(ctx, "Plush")
	rq.NoError(err)
	rq.Equal(2, repo.countCalls)

	n, err = svc.CountByPrefix(ctx, "Durov")
	rq.NoError(err)
	rq.Zero(n)
}

func TestGiftServiceUpdatePricing(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newRepo(2)
	svc := service.NewGiftService(repo)

	score := 87.5

	gift, err := svc.UpdatePricing(ctx, "Plush Pepe #1", entity.Pricing{RarityScore: &score})
	rq.NoError(err)
	rq.Equal(&score, gift.RarityScore)
	rq.Equal([]value.GiftName{"Plush Pepe #1"}, repo.updatedNames)

	_, err = svc.UpdatePricing(ctx, "Plush Pepe #1", entity.Pricing{})
	rq.True(domain.IsCode(err, errcodes.ValidationError))
}

func TestGiftServiceExport(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	gifts, err := service.NewGiftService(newRepo(7)).Export(ctx)
	rq.NoError(err)
	rq.Len(gifts, 7)

	repo := newRepo(1)
	repo.listErr = errors.New("connection reset")

	_, err = service.NewGiftService(repo).Export(ctx)
	rq.ErrorContains(err, "connection reset")
}
