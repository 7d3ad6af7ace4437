package middleware

import (
	"log/slog"
	"slices"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"gift_parser/pkg/contextx"
	"gift_parser/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// AdminOnly пропускает дальше только обновления от администраторов.
// Остальные молча отбрасываются.
func AdminOnly(adminIDs []int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		userID, ok := senderID(update)
		if !ok {
			return nil
		}

		if IsAdmin(adminIDs, userID) {
			return ctx.Next(update)
		}

		logger(ctx).Warn(
			"admin command rejected",
			logx.Stringer(logx.FieldUserID, contextx.UserID(userID)),
			slog.Int("update-id", update.UpdateID),
		)

		return nil
	}
}

func IsAdmin(adminIDs []int64, userID int64) bool {
	return slices.Contains(adminIDs, userID)
}

func senderID(update telego.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	default:
		return 0, false
	}
}
