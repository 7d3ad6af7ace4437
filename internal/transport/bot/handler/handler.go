package handler

import (
	"context"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/contextx"
	"gift_parser/pkg/logx"
)

const defaultPageSize = 10

type giftCatalogue interface {
	Get(ctx context.Context, name string) (entity.Gift, error)
	List(ctx context.Context, limit, offset int) ([]entity.Gift, int, error)
	Count(ctx context.Context) (int, error)
	CountByPrefix(ctx context.Context, prefix string) (int, error)
}

type ingester interface {
	IngestOne(ctx context.Context, id int64, giftType value.GiftType) (*entity.Gift, bool)
}

type batchRunner interface {
	Start(ctx context.Context, req entity.BatchRequest) (entity.Job, error)
	Progress(ctx context.Context, jobID string) (entity.Job, error)
	List(ctx context.Context) ([]entity.Job, error)
	Cancel(ctx context.Context, jobID string) (entity.Job, error)
}

type Handler struct {
	gifts    giftCatalogue
	ingester ingester
	runner   batchRunner
	pageSize int
}

func New(gifts giftCatalogue, ingester ingester, runner batchRunner, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Handler{
		gifts:    gifts,
		ingester: ingester,
		runner:   runner,
		pageSize: pageSize,
	}
}

// callerContext контекст для вызова сервисов: логгер знает, кто отправил команду.
func callerContext(ctx context.Context, from *telego.User) context.Context {
	if from == nil {
		return ctx
	}

	userID := contextx.UserID(from.ID)
	ctx = contextx.WithUserID(ctx, userID)

	return contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldUserID, userID)))
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
		LinkPreviewOptions: &telego.LinkPreviewOptions{
			IsDisabled: true,
		},
	})

	return err
}

func (h *Handler) sendHTMLWithKeyboard(ctx *th.Context, chatID int64, text string, keyboard *telego.InlineKeyboardMarkup) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
		LinkPreviewOptions: &telego.LinkPreviewOptions{
			IsDisabled: true,
		},
	})

	return err
}

func logFailure(ctx context.Context, msg string, err error) {
	logger(ctx).Error(msg, logx.Error(err), slog.String("transport", "telegram"))
}
