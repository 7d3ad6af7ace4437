package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"gift_parser/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminIDs []int64) {
	// Команды для всех
	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))
	bh.HandleMessage(h.OnHelp, th.CommandEqual("help"))
	bh.HandleMessage(h.OnGifts, th.CommandEqual("gifts"))
	bh.HandleMessage(h.OnGift, th.CommandEqual("gift"))
	bh.HandleMessage(h.OnCount, th.CommandEqual("count"))

	bh.HandleCallbackQuery(h.OnGiftsPageCallback, th.CallbackDataPrefix(callbackGiftsPage))
	bh.HandleCallbackQuery(h.OnNoopCallback, th.CallbackDataEqual(callbackNoop))

	// Управление разбором только для администраторов
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminIDs))

	adminGroup.HandleMessage(h.OnParse, th.CommandEqual("parse"))
	adminGroup.HandleMessage(h.OnBatch, th.CommandEqual("batch"))
	adminGroup.HandleMessage(h.OnTask, th.CommandEqual("task"))
	adminGroup.HandleMessage(h.OnTasks, th.CommandEqual("tasks"))
	adminGroup.HandleMessage(h.OnCancel, th.CommandEqual("cancel"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminIDs))

	cbGroup.HandleCallbackQuery(h.OnTaskCancelCallback, th.CallbackDataPrefix(callbackTaskCancel))
}
