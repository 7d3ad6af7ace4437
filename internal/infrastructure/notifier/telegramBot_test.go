package notifier_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/internal/infrastructure/notifier"
)

func finishedJob(status value.JobStatus) entity.Job {
	return entity.Job{
		ID:       "task_abc",
		Current:  5,
		Total:    5,
		Success:  3,
		Failed:   2,
		Status:   status,
		Progress: "100.0%",
		GiftType: "widget",
		StartID:  1,
		EndID:    5,
	}
}

func TestJobFinishedText(t *testing.T) {
	rq := require.New(t)

	text := notifier.JobFinishedText(finishedJob(value.JobStatusCompleted))
	rq.Contains(text, "task_abc")
	rq.Contains(text, "completed")
	rq.Contains(text, "1-5")
	rq.Contains(text, "5/5 (100.0%)")
	rq.Contains(text, "<b>Success:</b> 3")
	rq.Contains(text, "<b>Failed:</b> 2")

	rq.True(strings.HasPrefix(notifier.JobFinishedText(finishedJob(value.JobStatusCancelled)), "⛔"))
}

func TestNotifyJobFinished(t *testing.T) {
	rq := require.New(t)

	var sent atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			sent.Store(string(body))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)) //nolint:errcheck
	}))
	defer server.Close()

	token := "1234567890:" + strings.Repeat("A", 35)

	bot, err := notifier.NewTelegramBot(token, 42, telego.WithAPIServer(server.URL), telego.WithDiscardLogger())
	rq.NoError(err)

	rq.NoError(bot.NotifyJobFinished(context.Background(), finishedJob(value.JobStatusCompleted)))

	body, ok := sent.Load().(string)
	rq.True(ok)
	rq.Contains(body, `"chat_id":42`)
	rq.Contains(body, "task_abc")
	rq.Contains(body, `"parse_mode":"HTML"`)
}
