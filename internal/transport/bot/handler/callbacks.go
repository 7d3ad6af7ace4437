package handler

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"gift_parser/internal/domain"
	"gift_parser/internal/transport/bot/view"
	"gift_parser/pkg/errcodes"
	"gift_parser/pkg/logx"
)

const (
	callbackGiftsPage  = "gifts_page:"
	callbackTaskCancel = "task_cancel:"
	callbackNoop       = "noop"
)

// OnGiftsPageCallback листает каталог. Формат данных: "gifts_page:<номер>".
func (h *Handler) OnGiftsPageCallback(ctx *th.Context, query telego.CallbackQuery) error {
	c := callerContext(ctx, &query.From)

	page, err := strconv.Atoi(strings.TrimPrefix(query.Data, callbackGiftsPage))
	if err != nil || page < 1 {
		page = 1
	}

	text, keyboard, err := h.catalogPage(c, page)
	if err != nil {
		logFailure(c, "catalog page", err)

		// Сообщаем об ошибке всплывающим уведомлением
		return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(view.CatalogError).WithShowAlert())
	}

	if query.Message != nil {
		_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      tu.ID(query.Message.GetChat().ID),
			MessageID:   query.Message.GetMessageID(),
			Text:        text,
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: keyboard,
			LinkPreviewOptions: &telego.LinkPreviewOptions{
				IsDisabled: true,
			},
		})
		// Telegram отвечает ошибкой, если текст не изменился.
		if err != nil {
			logger(c).Debug("edit catalog message", logx.Error(err))
		}
	}

	// Обязательно отвечаем на коллбэк, чтобы убрать часики
	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

// OnTaskCancelCallback кнопка остановки из /tasks. Формат данных: "task_cancel:<id>".
func (h *Handler) OnTaskCancelCallback(ctx *th.Context, query telego.CallbackQuery) error {
	c := callerContext(ctx, &query.From)

	text := h.cancelTask(c, strings.TrimPrefix(query.Data, callbackTaskCancel))

	if query.Message != nil {
		if err := h.sendHTML(ctx, query.Message.GetChat().ID, text); err != nil {
			logger(c).Warn("send cancel result", logx.Error(err))
		}
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

func (h *Handler) OnNoopCallback(ctx *th.Context, query telego.CallbackQuery) error {
	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

func (h *Handler) catalogPage(ctx context.Context, page int) (string, *telego.InlineKeyboardMarkup, error) {
	gifts, total, err := h.gifts.List(ctx, h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		return "", nil, fmt.Errorf("gifts.List: %w", err)
	}

	pages := totalPages(total, h.pageSize)

	if page > pages {
		page = pages

		gifts, total, err = h.gifts.List(ctx, h.pageSize, (page-1)*h.pageSize)
		if err != nil {
			return "", nil, fmt.Errorf("gifts.List: %w", err)
		}
	}

	if len(gifts) == 0 {
		return view.CatalogEmpty, nil, nil
	}

	return view.CatalogPage(gifts, page, pages, total, (page-1)*h.pageSize), createPaginationKeyboard(page, pages), nil
}

func (h *Handler) cancelTask(ctx context.Context, jobID string) string {
	_, err := h.runner.Cancel(ctx, jobID)

	switch {
	case err == nil:
		return fmt.Sprintf(view.CancelRequested, html.EscapeString(jobID))
	case domain.IsCode(err, errcodes.JobAlreadyFinished):
		return fmt.Sprintf(view.CancelNotRunning, html.EscapeString(jobID))
	case domain.IsCode(err, errcodes.JobNotFound):
		return fmt.Sprintf(view.TaskNotFound, html.EscapeString(jobID))
	default:
		logFailure(ctx, "cancel task", err)

		return view.InternalError
	}
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(callbackGiftsPage+strconv.Itoa(page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData(callbackNoop))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(callbackGiftsPage+strconv.Itoa(page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}
