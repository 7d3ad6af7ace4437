package entity

import (
	"fmt"
	"time"

	"gift_parser/internal/domain/value"
)

// BatchRequest параметры пакетного разбора диапазона [StartID, EndID].
type BatchRequest struct {
	GiftType string
	StartID  int64
	EndID    int64
	Delay    time.Duration
}

// Job прогресс пакетного разбора.
type Job struct {
	ID          string          `json:"id"`
	Current     int             `json:"current"`
	Total       int             `json:"total"`
	Success     int             `json:"success"`
	Failed      int             `json:"failed"`
	Status      value.JobStatus `json:"status"`
	Progress    string          `json:"progress"`
	GiftType    string          `json:"gift_type"`
	StartID     int64           `json:"start_id"`
	EndID       int64           `json:"end_id"`
	Delay       time.Duration   `json:"delay"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// FormatProgress процент обработанных id с одним знаком после запятой.
func FormatProgress(current, total int) string {
	if total <= 0 {
		return "0.0%"
	}

	return fmt.Sprintf("%.1f%%", float64(current)/float64(total)*100) //nolint:mnd
}
