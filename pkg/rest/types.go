// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Gift Подарок каталога
type Gift struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Model          string     `json:"model"`
	Backdrop       string     `json:"backdrop"`
	Symbol         string     `json:"symbol"`
	SalePrice      *string    `json:"sale_price"`
	RarityScore    *float64   `json:"rarity_score"`
	EstimatedPrice *float64   `json:"estimated_price"`
	DateAdded      *time.Time `json:"date_added"`
	Link           string     `json:"link"`
}

// GiftList Страница каталога
type GiftList struct {
	Items  []Gift `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// GiftCount Количество подарков по префиксу имени
type GiftCount struct {
	Prefix string `json:"prefix"`
	Count  int    `json:"count"`
}

// GiftPricing Ручное обновление оценки подарка
type GiftPricing struct {
	SalePrice      *string  `json:"sale_price" validate:"omitempty,min=1"`
	RarityScore    *float64 `json:"rarity_score" validate:"omitempty,gte=0"`
	EstimatedPrice *float64 `json:"estimated_price" validate:"omitempty,gte=0"`
}

// ParseRequest Разбор одной страницы
type ParseRequest struct {
	GiftID   int64  `json:"gift_id" validate:"gt=0"`
	GiftType string `json:"user_selection_gifts" validate:"required"`
}

// BatchRequest Запуск пакетного разбора
type BatchRequest struct {
	StartID  int64    `json:"start_id" validate:"gt=0"`
	EndID    int64    `json:"end_id" validate:"gt=0"`
	GiftType string   `json:"user_selection_gifts" validate:"required"`
	Delay    *float64 `json:"delay"`
}

// BatchResponse Подтверждение запуска пакетного разбора
type BatchResponse struct {
	TaskID  string       `json:"task_id"`
	Message string       `json:"message"`
	Details BatchDetails `json:"details"`
}

type BatchDetails struct {
	Range string  `json:"range"`
	Type  string  `json:"type"`
	Delay float64 `json:"delay"`
}

// Task Прогресс пакетного разбора
type Task struct {
	TaskID      string     `json:"task_id"`
	Current     int        `json:"current"`
	Total       int        `json:"total"`
	Success     int        `json:"success"`
	Failed      int        `json:"failed"`
	Status      string     `json:"status"`
	Progress    string     `json:"progress"`
	GiftType    string     `json:"type"`
	StartID     int64      `json:"start_id"`
	EndID       int64      `json:"end_id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskList Сводка по задачам
type TaskList struct {
	ActiveTasks    []Task `json:"active_tasks"`
	CompletedTasks []Task `json:"completed_tasks"`
	TotalTasks     int    `json:"total_tasks"`
}

// Health Состояние сервиса
type Health struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Database   string    `json:"database"`
	TotalGifts int       `json:"total_gifts"`
}

// Root Описание сервиса
type Root struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
