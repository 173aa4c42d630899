package handler

import (
	"context"
	"net/http"
	"time"

	natsclient "github.com/capitalize-ai/question-studio/internal/nats"
	"github.com/capitalize-ai/question-studio/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	history    store.HistoryRepository
	natsClient *natsclient.Client
}

// NewHealthHandler creates a new health handler. natsClient may be nil when
// event mirroring is disabled.
func NewHealthHandler(history store.HistoryRepository, natsClient *natsclient.Client) *HealthHandler {
	return &HealthHandler{
		history:    history,
		natsClient: natsClient,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.history.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "history store unavailable",
		})
		return
	}

	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
