package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
	"github.com/capitalize-ai/question-studio/pkg/metrics"
)

// StreamHandler pushes refinement session changes over SSE.
type StreamHandler struct {
	refinement *store.RefinementStore
	logger     *logger.Logger
	interval   time.Duration
	heartbeat  time.Duration
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(refinement *store.RefinementStore, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		refinement: refinement,
		logger:     log,
		interval:   250 * time.Millisecond,
		heartbeat:  30 * time.Second,
	}
}

// sessionVersion identifies an observable state of the refinement session.
type sessionVersion struct {
	id       string
	updated  time.Time
	turn     int
	refining bool
	messages int
}

func versionOf(s *model.RefinementSession) sessionVersion {
	if s == nil {
		return sessionVersion{}
	}
	return sessionVersion{
		id:       s.ID,
		updated:  s.UpdatedAt,
		turn:     s.TurnNumber,
		refining: s.Refining,
		messages: len(s.Messages),
	}
}

// Stream handles GET /studio/stream
//
// Events: "session" carries a full snapshot whenever it changes, "reset" is
// sent when no session is active, "heartbeat" keeps idle connections open.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	poll := time.NewTicker(h.interval)
	defer poll.Stop()
	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	var last sessionVersion
	first := true

	for {
		snap := h.refinement.Snapshot()
		if v := versionOf(snap); first || v != last {
			var err error
			if snap == nil {
				err = sendSSEEvent(w, flusher, "reset", map[string]bool{"active": false})
			} else {
				err = sendSSEEvent(w, flusher, "session", snap)
			}
			if err != nil {
				h.logger.Warn("failed to send studio event", zap.Error(err))
				return
			}
			last, first = v, false
		}

		select {
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected")
			return
		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", map[string]time.Time{"timestamp": time.Now()})
		case <-poll.C:
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
