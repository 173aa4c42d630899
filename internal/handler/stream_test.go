package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

func TestStreamSendsSnapshots(t *testing.T) {
	refinement := store.NewRefinementStore()
	h := NewStreamHandler(refinement, logger.NewNop())
	h.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/studio/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Stream(rec, req)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	refinement.InitSession(model.Question{ID: "q1", QuestionText: "What absorbs light?"})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: reset")
	assert.Contains(t, body, "event: session")
	assert.Contains(t, body, `"question_text":"What absorbs light?"`)
}
