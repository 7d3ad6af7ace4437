package handler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

func TestCreatePaginationKeyboard(t *testing.T) {
	rq := require.New(t)

	first := createPaginationKeyboard(1, 3).InlineKeyboard[0]
	rq.Len(first, 2)
	rq.Equal("1 / 3", first[0].Text)
	rq.Equal("gifts_page:2", first[1].CallbackData)

	middle := createPaginationKeyboard(2, 3).InlineKeyboard[0]
	rq.Len(middle, 3)
	rq.Equal("gifts_page:1", middle[0].CallbackData)
	rq.Equal("noop", middle[1].CallbackData)

	single := createPaginationKeyboard(1, 1).InlineKeyboard[0]
	rq.Len(single, 1)
}

func TestCancelKeyboard(t *testing.T) {
	rq := require.New(t)

	rq.Nil(cancelKeyboard([]entity.Job{{ID: "task_done", Status: value.JobStatusCompleted}}))

	keyboard := cancelKeyboard([]entity.Job{
		{ID: "task_a", Status: value.JobStatusRunning},
		{ID: "task_b", Status: value.JobStatusStarting},
		{ID: "task_c", Status: value.JobStatusCancelled},
		{ID: "task_d", Status: value.JobStatusRunning},
	})
	rq.NotNil(keyboard)
	rq.Len(keyboard.InlineKeyboard, 2)
	rq.Len(keyboard.InlineKeyboard[0], 2)
	rq.Len(keyboard.InlineKeyboard[1], 1)
	rq.Equal("task_cancel:task_d", keyboard.InlineKeyboard[1][0].CallbackData)
}
