package handler

import (
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"gift_parser/internal/domain"
	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/service/numRating"
	"gift_parser/internal/transport/bot/view"
	"gift_parser/pkg/errcodes"
	"gift_parser/pkg/logx"
	"gift_parser/pkg/lox"
)

const cancelButtonsPerRow = 2

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnHelp(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.HelpMessage)
}

// OnGifts показывает страницу каталога со ссылками t.me/nft.
// Использование: /gifts [страница]
func (h *Handler) OnGifts(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)

	text, keyboard, err := h.catalogPage(c, parsePage(commandArgs(msg.Text)))
	if err != nil {
		logFailure(c, "catalog page", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.CatalogError)
	}

	return h.sendHTMLWithKeyboard(ctx, msg.Chat.ID, text, keyboard)
}

// OnGift ищет подарок по полному имени.
// Использование: /gift Plush Pepe #2790
func (h *Handler) OnGift(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)

	name := commandTail(msg.Text)
	if name == "" {
		return h.sendHTML(ctx, msg.Chat.ID, view.GiftUsage)
	}

	gift, err := h.gifts.Get(c, name)

	switch {
	case domain.IsCode(err, errcodes.GiftNotFound):
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.GiftNotFound, html.EscapeString(name)))
	case err != nil:
		logFailure(c, "gift lookup", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	rating, rated := numRating.RateName(gift.Name)

	return h.sendHTML(ctx, msg.Chat.ID, view.GiftDetails(gift, rating, rated))
}

// OnCount считает подарки, чьё имя начинается с префикса.
// Использование: /count [префикс]
func (h *Handler) OnCount(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)
	prefix := commandTail(msg.Text)

	if prefix == "" {
		count, err := h.gifts.Count(c)
		if err != nil {
			logFailure(c, "count gifts", err)

			return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
		}

		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.CountAllTemplate, count))
	}

	count, err := h.gifts.CountByPrefix(c, prefix)
	if err != nil {
		logFailure(c, "count gifts by prefix", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.CountTemplate, html.EscapeString(prefix), count))
}

// OnParse разбирает одну страницу fragment.com.
// Использование: /parse plushpepe 2790
func (h *Handler) OnParse(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)

	giftType, id, err := parseParseArgs(commandArgs(msg.Text))
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.ParseUsage)
	}

	gift, ok := h.ingester.IngestOne(c, id, giftType)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.ParseFailed, id))
	}

	rating, rated := numRating.RateName(gift.Name)

	return h.sendHTML(ctx, msg.Chat.ID, view.GiftDetails(*gift, rating, rated))
}

// OnBatch запускает пакетный разбор диапазона.
// Использование: /batch plushpepe 1 100 [1.5]
func (h *Handler) OnBatch(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)

	req, err := parseBatchArgs(commandArgs(msg.Text))
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.BatchUsage)
	}

	job, err := h.runner.Start(c, req)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Code != errcodes.InternalServerError {
			return h.sendHTML(ctx, msg.Chat.ID, "❌ "+html.EscapeString(appErr.Message))
		}

		logFailure(c, "start batch", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	logger(c).Info("batch started from bot", slog.String(logx.FieldJobID, job.ID))

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(
		view.BatchStartTemplate,
		html.EscapeString(job.ID),
		html.EscapeString(job.GiftType),
		job.StartID,
		job.EndID,
		job.Delay,
	))
}

// OnTask показывает прогресс задачи.
// Использование: /task task_xxx
func (h *Handler) OnTask(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)

	args := commandArgs(msg.Text)
	if len(args) != 1 {
		return h.sendHTML(ctx, msg.Chat.ID, view.TaskUsage)
	}

	job, err := h.runner.Progress(c, args[0])

	switch {
	case domain.IsCode(err, errcodes.JobNotFound):
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.TaskNotFound, html.EscapeString(args[0])))
	case err != nil:
		logFailure(c, "task progress", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Task(job))
}

// OnTasks список задач с кнопками остановки активных.
func (h *Handler) OnTasks(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)

	jobs, err := h.runner.List(c)
	if err != nil {
		logFailure(c, "list tasks", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	keyboard := cancelKeyboard(jobs)
	if keyboard == nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.TaskList(jobs))
	}

	return h.sendHTMLWithKeyboard(ctx, msg.Chat.ID, view.TaskList(jobs), keyboard)
}

// OnCancel останавливает задачу.
// Использование: /cancel task_xxx
func (h *Handler) OnCancel(ctx *th.Context, msg telego.Message) error {
	c := callerContext(ctx, msg.From)

	args := commandArgs(msg.Text)
	if len(args) != 1 {
		return h.sendHTML(ctx, msg.Chat.ID, view.CancelUsage)
	}

	return h.sendHTML(ctx, msg.Chat.ID, h.cancelTask(c, args[0]))
}

func cancelKeyboard(jobs []entity.Job) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	for _, job := range jobs {
		if job.Status.Finished() {
			continue
		}

		buttons = append(buttons, tu.InlineKeyboardButton("⛔ "+job.ID).
			WithCallbackData(callbackTaskCancel+job.ID))
	}

	if len(buttons) == 0 {
		return nil
	}

	return tu.InlineKeyboard(lox.Chunk(buttons, cancelButtonsPerRow)...)
}
