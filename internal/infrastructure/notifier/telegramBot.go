package notifier

import (
	"context"
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

// TelegramBot пишет в чат администратора об окончании пакетных задач.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64, opts ...telego.BotOption) (*TelegramBot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NotifyJobFinished отправляет итог задачи: статус и счётчики.
func (b *TelegramBot) NotifyJobFinished(ctx context.Context, job entity.Job) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		JobFinishedText(job),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func JobFinishedText(job entity.Job) string {
	icon := "✅"
	if job.Status == value.JobStatusCancelled {
		icon = "⛔"
	}

	return fmt.Sprintf(
		"%s <b>Task %s</b> %s\n\n"+
			"🎁 <b>Type:</b> %s\n"+
			"🔢 <b>Range:</b> %d-%d\n"+
			"📊 <b>Progress:</b> %d/%d (%s)\n"+
			"👍 <b>Success:</b> %d\n"+
			"👎 <b>Failed:</b> %d",
		icon,
		html.EscapeString(job.ID),
		job.Status,
		html.EscapeString(job.GiftType),
		job.StartID,
		job.EndID,
		job.Current,
		job.Total,
		job.Progress,
		job.Success,
		job.Failed,
	)
}
