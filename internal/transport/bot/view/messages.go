package view

import (
	"fmt"
	"html"
	"strings"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

const (
	StartMessage = "👋 <b>Каталог подарков Telegram</b>\n\n" +
		"Я собираю подарки с fragment.com и показываю их каталог.\n" +
		"Список команд: /help"

	HelpMessage = "📖 <b>Команды</b>\n\n" +
		"/gifts [страница] список подарков со ссылками\n" +
		"/gift <code>Plush Pepe #2790</code> подробности о подарке\n" +
		"/count [префикс] количество подарков\n\n" +
		"🔐 <b>Для администраторов</b>\n" +
		"/parse <code>тип id</code> разобрать одну страницу\n" +
		"/batch <code>тип начало конец [пауза]</code> разобрать диапазон\n" +
		"/task <code>id</code> прогресс задачи\n" +
		"/tasks все задачи\n" +
		"/cancel <code>id</code> остановить задачу"

	CatalogEmpty       = "📭 Каталог пуст."
	CatalogError       = "❌ Ошибка получения данных"
	InternalError      = "❌ Что-то пошло не так, попробуйте позже"
	GiftUsage          = "❌ Использование: /gift <code>Plush Pepe #2790</code>"
	ParseUsage         = "❌ Использование: /parse <code>plushpepe 2790</code>"
	BatchUsage         = "❌ Использование: /batch <code>plushpepe 1 100 [1.5]</code>"
	TaskUsage          = "❌ Использование: /task <code>task_id</code>"
	CancelUsage        = "❌ Использование: /cancel <code>task_id</code>"
	TasksEmpty         = "📭 Задач пока не было."
	CatalogPageTitle   = "📚 <b>Каталог подарков</b> (Стр. %d/%d, всего %d)\n\n"
	CatalogItemLine    = "%d. <a href=\"%s\">%s</a>\n"
	CountTemplate      = "🔢 Подарков с префиксом <b>%s</b>: %d"
	CountAllTemplate   = "🔢 Всего подарков: %d"
	GiftNotFound       = "❌ Подарок <b>%s</b> не найден.\n\n💡 Введите полное имя с номером, например <code>Plush Pepe #2790</code>"
	ParseFailed        = "⚠️ Подарок <code>%d</code> не найден или на странице недостаточно данных"
	CancelRequested    = "⛔ Остановка задачи <code>%s</code> запрошена"
	CancelNotRunning   = "⚠️ Задача <code>%s</code> не выполняется"
	TaskNotFound       = "❌ Задача <code>%s</code> не найдена"
	BatchStartTemplate = "🚀 Задача <code>%s</code> запущена\n\n🎁 Тип: %s\n🔢 Диапазон: %d-%d\n⏱ Пауза: %s"
)

func e(s string) string {
	return html.EscapeString(s)
}

// CatalogPage страница каталога: ссылки на подарки с порядковыми номерами.
func CatalogPage(gifts []entity.Gift, page, totalPages, total, offset int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(CatalogPageTitle, page, totalPages, total))

	for i, gift := range gifts {
		sb.WriteString(fmt.Sprintf(CatalogItemLine, offset+i+1, value.NFTLink(gift.Name, gift.ID), e(gift.Name.String())))
	}

	return sb.String()
}

func GiftDetails(gift entity.Gift, rating entity.Rating, rated bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🎁 <b>%s</b>\n\n", e(gift.Name.String())))
	sb.WriteString(fmt.Sprintf("🆔 ID: <code>%d</code>\n", gift.ID))
	sb.WriteString(fmt.Sprintf("🧩 Модель: %s\n", e(gift.Model)))
	sb.WriteString(fmt.Sprintf("🎨 Фон: %s\n", e(gift.Backdrop)))
	sb.WriteString(fmt.Sprintf("✨ Символ: %s\n", e(gift.Symbol)))
	sb.WriteString(fmt.Sprintf("💰 Цена: %s\n", e(gift.SalePrice)))

	if gift.EstimatedPrice != nil {
		sb.WriteString(fmt.Sprintf("📈 Оценка: %.2f TON\n", *gift.EstimatedPrice))
	}

	if rated && rating.IsUnique {
		sb.WriteString(fmt.Sprintf("🏅 Номер: %s (%.0f/100)\n", e(rating.Description), rating.Score))
	}

	sb.WriteString("\n🔗 " + value.NFTLink(gift.Name, gift.ID))

	return sb.String()
}

func Task(job entity.Job) string {
	text := fmt.Sprintf(
		"%s <b>Задача</b> <code>%s</code>\n\n"+
			"📌 Статус: %s\n"+
			"🎁 Тип: %s\n"+
			"🔢 Диапазон: %d-%d\n"+
			"📊 Прогресс: %d/%d (%s)\n"+
			"👍 Успешно: %d\n"+
			"👎 Ошибок: %d",
		statusIcon(job.Status),
		e(job.ID),
		job.Status,
		e(job.GiftType),
		job.StartID,
		job.EndID,
		job.Current,
		job.Total,
		job.Progress,
		job.Success,
		job.Failed,
	)

	if job.CompletedAt != nil {
		text += "\n🏁 Завершена: " + job.CompletedAt.Format("2006-01-02 15:04:05 MST")
	}

	return text
}

func TaskList(jobs []entity.Job) string {
	if len(jobs) == 0 {
		return TasksEmpty
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📋 <b>Задачи (%d)</b>\n\n", len(jobs)))

	for _, job := range jobs {
		sb.WriteString(fmt.Sprintf(
			"%s <code>%s</code> %s %d-%d %s\n",
			statusIcon(job.Status),
			e(job.ID),
			e(job.GiftType),
			job.StartID,
			job.EndID,
			job.Progress,
		))
	}

	return sb.String()
}

func statusIcon(status value.JobStatus) string {
	switch status {
	case value.JobStatusStarting:
		return "🕐"
	case value.JobStatusRunning:
		return "🔄"
	case value.JobStatusCancelled:
		return "⛔"
	case value.JobStatusCompleted:
		return "✅"
	default:
		return "❔"
	}
}
