package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"gift_parser/internal/transport/bot/handler"
	"gift_parser/pkg/contextx"
	"gift_parser/pkg/logx"
)

const longPollingTimeout = 60

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var commands = []telego.BotCommand{
	{Command: "gifts", Description: "Каталог подарков"},
	{Command: "gift", Description: "Подарок по полному имени"},
	{Command: "count", Description: "Количество подарков по префиксу"},
	{Command: "help", Description: "Список команд"},
}

// Bot представляет собой Telegram-бота
type Bot struct {
	bot      *telego.Bot
	handler  *handler.Handler
	adminIDs []int64
}

// New создает новый экземпляр бота
func New(token string, commandHandler *handler.Handler, adminIDs []int64, opts ...telego.BotOption) (*Bot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		bot:      bot,
		handler:  commandHandler,
		adminIDs: adminIDs,
	}, nil
}

// Run получает обновления через long polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands}); err != nil {
		logger(ctx).Warn("failed to set bot commands", logx.Error(err))
	}

	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: longPollingTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminIDs)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler stopped", logx.Error(err))
		}
	}()

	logger(ctx).Info("telegram bot started", slog.Int("admins", len(b.adminIDs)))

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	logger(ctx).Info("telegram bot stopped")

	return nil
}
