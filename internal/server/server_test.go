package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/internal/infrastructure/jobstore"
	"gift_parser/internal/server"
	"gift_parser/internal/worker"
	"gift_parser/pkg/errcodes"
	"gift_parser/pkg/logx"
	"gift_parser/pkg/rest"
	"gift_parser/pkg/tests"
)

type fakeGiftService struct {
	gifts    []entity.Gift
	countErr error
}

func (f *fakeGiftService) Get(_ context.Context, name string) (entity.Gift, error) {
	for _, g := range f.gifts {
		if g.Name.String() == name {
			return g, nil
		}
	}

	return entity.Gift{}, domain.NewError(errcodes.GiftNotFound, "gift not found")
}

func (f *fakeGiftService) List(_ context.Context, limit, offset int) ([]entity.Gift, int, error) {
	if offset >= len(f.gifts) {
		return nil, len(f.gifts), nil
	}

	return f.gifts[offset:min(offset+limit, len(f.gifts))], len(f.gifts), nil
}

func (f *fakeGiftService) Count(context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}

	return len(f.gifts), nil
}

func (f *fakeGiftService) CountByPrefix(_ context.Context, prefix string) (int, error) {
	n := 0

	for _, g := range f.gifts {
		if strings.HasPrefix(g.Name.String(), prefix) {
			n++
		}
	}

	return n, nil
}

func (f *fakeGiftService) UpdatePricing(ctx context.Context, name string, pricing entity.Pricing) (entity.Gift, error) {
	if pricing.SalePrice == nil && pricing.RarityScore == nil && pricing.EstimatedPrice == nil {
		return entity.Gift{}, domain.NewError(errcodes.ValidationError, "nothing to update")
	}

	gift, err := f.Get(ctx, name)
	if err != nil {
		return entity.Gift{}, err
	}

	gift.EstimatedPrice = pricing.EstimatedPrice

	return gift, nil
}

func (f *fakeGiftService) Export(context.Context) ([]entity.Gift, error) {
	return f.gifts, nil
}

type fakeIngester struct {
	failIDs map[int64]bool
}

func (f fakeIngester) IngestOne(_ context.Context, id int64, giftType value.GiftType) (*entity.Gift, bool) {
	if f.failIDs[id] {
		return nil, false
	}

	return &entity.Gift{
		ID:        id,
		Name:      value.GiftName("Widget #" + giftType.String()),
		Model:     "Alpha",
		Backdrop:  "Blue",
		Symbol:    "Star",
		SalePrice: value.SalePriceMinted,
	}, true
}

func newTestAPI(t *testing.T, gifts *fakeGiftService) tests.APIClient {
	t.Helper()

	runner := worker.NewBatchRunner(fakeIngester{failIDs: map[int64]bool{2: true, 4: true}}, jobstore.NewMemory(time.Hour))

	srv := server.NewServer(
		server.NewGiftServer(gifts),
		server.NewParseServer(fakeIngester{failIDs: map[int64]bool{404: true}}, runner),
		server.NewSystemServer("gift_parser", "test", gifts),
	)

	ts := httptest.NewServer(server.NewRouter(srv, logx.NewSensitiveDataMasker(), 1024))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = runner.Shutdown(context.Background()) })

	return tests.NewAPIClient(ts.URL, ts.Client())
}

func catalogue() *fakeGiftService {
	return &fakeGiftService{gifts: []entity.Gift{
		{ID: 12, Name: "Widget #12", Model: "Alpha", Backdrop: "Blue", Symbol: "Star", SalePrice: "Minted"},
		{ID: 13, Name: "Widget #13", Model: "Beta", Backdrop: "Red", Symbol: "Moon", SalePrice: "1,250"},
		{ID: 2790, Name: "Plush Pepe #2790", Model: "Gold", Backdrop: "Black", Symbol: "Crown", SalePrice: "Minted"},
	}}
}

func TestGifts(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t, catalogue())

	var list rest.GiftList

	resp, err := api.Get(ctx, "/v1/gifts?limit=2&offset=1", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.NotEmpty(resp.Header.Get("X-Trace-Id"))
	rq.Equal(3, list.Total)
	rq.Len(list.Items, 2)
	rq.Equal("Widget #13", list.Items[0].Name)
	rq.Equal("https://t.me/nft/widget-13", list.Items[0].Link)

	var apiErr rest.Error

	resp, err = api.Get(ctx, "/v1/gifts?limit=5000", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidPaging.String()), apiErr.Code)

	var gift rest.Gift

	resp, err = api.Get(ctx, "/v1/gifts/Plush%20Pepe%20%232790", nil, &gift, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(int64(2790), gift.ID)
	rq.Equal("Gold", gift.Model)
	rq.NotNil(gift.SalePrice)
	rq.Equal("Minted", *gift.SalePrice)

	apiErr = rest.Error{}

	resp, err = api.Get(ctx, "/v1/gifts/Nope%20%231", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.GiftNotFound.String()), apiErr.Code)
	rq.NotEmpty(apiErr.SupportID)

	var count rest.GiftCount

	resp, err = api.Get(ctx, "/v1/gifts/count?prefix=Widget", nil, &count, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(rest.GiftCount{Prefix: "Widget", Count: 2}, count)
}

func TestGiftsExport(t *testing.T) {
	rq := require.New(t)
	api := newTestAPI(t, catalogue())

	var exported []rest.Gift

	resp, err := api.Get(context.Background(), "/v1/gifts/export", nil, &exported, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Contains(resp.Header.Get("Content-Disposition"), "attachment;")
	rq.Len(exported, 3)
}

func TestGiftPricing(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t, catalogue())

	price := 42.5

	var gift rest.Gift

	resp, err := api.Patch(ctx, "/v1/gifts/Widget%20%2312/pricing", nil, rest.GiftPricing{EstimatedPrice: &price}, &gift, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.NotNil(gift.EstimatedPrice)
	rq.InDelta(42.5, *gift.EstimatedPrice, 0.0001)

	var apiErr rest.Error

	resp, err = api.Patch(ctx, "/v1/gifts/Widget%20%2312/pricing", nil, rest.GiftPricing{}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ValidationError.String()), apiErr.Code)

	negative := -1.0
	apiErr = rest.Error{}

	resp, err = api.Patch(ctx, "/v1/gifts/Widget%20%2312/pricing", nil, rest.GiftPricing{RarityScore: &negative}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestParse(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t, catalogue())

	testCases := []struct {
		name       string
		request    rest.ParseRequest
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Parsed",
			request:    rest.ParseRequest{GiftID: 12, GiftType: "Widget"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Not parsed",
			request:    rest.ParseRequest{GiftID: 404, GiftType: "widget"},
			wantStatus: http.StatusNotFound,
			wantCode:   errcodes.GiftNotParsed.String(),
		},
		{
			name:       "Zero id",
			request:    rest.ParseRequest{GiftID: 0, GiftType: "widget"},
			wantStatus: http.StatusBadRequest,
			wantCode:   errcodes.ValidationError.String(),
		},
		{
			name:       "Bad type",
			request:    rest.ParseRequest{GiftID: 1, GiftType: "!!!"},
			wantStatus: http.StatusBadRequest,
			wantCode:   errcodes.InvalidGiftType.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var (
				gift   rest.Gift
				apiErr rest.Error
			)

			resp, err := api.Post(ctx, "/v1/parse", nil, tc.request, &gift, &apiErr)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)

			if tc.wantCode != "" {
				rq.Equal(rest.ErrorCode(tc.wantCode), apiErr.Code)

				return
			}

			rq.Equal(tc.request.GiftID, gift.ID)
			rq.Equal("Widget #widget", gift.Name)
		})
	}
}

func TestBatch(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t, catalogue())

	var apiErr rest.Error

	resp, err := api.Post(ctx, "/v1/parse/batch", nil, rest.BatchRequest{StartID: 5, EndID: 3, GiftType: "widget"}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidRange.String()), apiErr.Code)

	tooSlow := 10.0
	apiErr = rest.Error{}

	resp, err = api.Post(ctx, "/v1/parse/batch", nil, rest.BatchRequest{StartID: 1, EndID: 3, GiftType: "widget", Delay: &tooSlow}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidDelay.String()), apiErr.Code)

	var tasks rest.TaskList

	_, err = api.Get(ctx, "/v1/tasks", nil, &tasks, nil)
	rq.NoError(err)
	rq.Zero(tasks.TotalTasks)

	delay := 0.1

	var started rest.BatchResponse

	resp, err = api.Post(ctx, "/v1/parse/batch", nil, rest.BatchRequest{StartID: 1, EndID: 5, GiftType: "widget", Delay: &delay}, &started, nil)
	rq.NoError(err)
	rq.Equal(http.StatusAccepted, resp.StatusCode)
	rq.NotEmpty(started.TaskID)
	rq.Equal("1-5", started.Details.Range)
	rq.Equal("widget", started.Details.Type)
	rq.InDelta(0.1, started.Details.Delay, 0.0001)

	var task rest.Task

	rq.Eventually(func() bool {
		task = rest.Task{}
		_, err := api.Get(ctx, "/v1/tasks/"+started.TaskID, nil, &task, nil)

		return err == nil && task.Status == "completed"
	}, 5*time.Second, 50*time.Millisecond)

	rq.Equal(5, task.Total)
	rq.Equal(3, task.Success)
	rq.Equal(2, task.Failed)
	rq.Equal("100.0%", task.Progress)

	_, err = api.Get(ctx, "/v1/tasks", nil, &tasks, nil)
	rq.NoError(err)
	rq.Equal(1, tasks.TotalTasks)
	rq.Len(tasks.CompletedTasks, 1)
	rq.Empty(tasks.ActiveTasks)

	apiErr = rest.Error{}

	resp, err = api.Delete(ctx, "/v1/tasks/"+started.TaskID, nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusConflict, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.JobAlreadyFinished.String()), apiErr.Code)

	apiErr = rest.Error{}

	resp, err = api.Get(ctx, "/v1/tasks/task_missing", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.JobNotFound.String()), apiErr.Code)
}

func TestBatchCancel(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t, catalogue())

	delay := 5.0

	var started rest.BatchResponse

	_, err := api.Post(ctx, "/v1/parse/batch", nil, rest.BatchRequest{StartID: 1, EndID: 1000, GiftType: "widget", Delay: &delay}, &started, nil)
	rq.NoError(err)

	var task rest.Task

	resp, err := api.Delete(ctx, "/v1/tasks/"+started.TaskID, nil, &task, nil)
	rq.NoError(err)
	rq.Equal(http.StatusAccepted, resp.StatusCode)

	rq.Eventually(func() bool {
		task = rest.Task{}
		_, err := api.Get(ctx, "/v1/tasks/"+started.TaskID, nil, &task, nil)

		return err == nil && task.Status == "cancelled"
	}, 5*time.Second, 50*time.Millisecond)

	rq.Less(task.Current, task.Total)
}

func TestRootAndHealth(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	gifts := catalogue()
	api := newTestAPI(t, gifts)

	var root rest.Root

	resp, err := api.Get(ctx, "/", nil, &root, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("running", root.Status)
	rq.Equal("/v1/parse/batch", root.Endpoints["batch_parse"])

	var health rest.Health

	resp, err = api.Get(ctx, "/health", nil, &health, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("healthy", health.Status)
	rq.Equal("connected", health.Database)
	rq.Equal(3, health.TotalGifts)

	gifts.countErr = errors.New("connection refused")

	var apiErr rest.Error

	resp, err = api.Get(ctx, "/health", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusInternalServerError, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InternalServerError.String()), apiErr.Code)
}
