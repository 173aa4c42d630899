package handler

import (
	"net/http"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/service"
	"github.com/capitalize-ai/question-studio/internal/store"
)

// UIHandler handles presentation state and the notification feed.
type UIHandler struct {
	ui   *store.UIStore
	feed *service.NotificationFeed
}

// NewUIHandler creates a new UI handler.
func NewUIHandler(ui *store.UIStore, feed *service.NotificationFeed) *UIHandler {
	return &UIHandler{ui: ui, feed: feed}
}

// State handles GET /ui
func (h *UIHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ui.State())
}

// SetMode handles PUT /ui/mode
func (h *UIHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode model.ViewMode `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ui.SetViewMode(req.Mode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.ui.State())
}

// SetSidebar handles PUT /ui/sidebar. An absent "open" toggles the sidebar.
func (h *UIHandler) SetSidebar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open *bool `json:"open"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Open == nil {
		h.ui.ToggleSidebar()
	} else {
		h.ui.SetSidebarOpen(*req.Open)
	}
	writeJSON(w, http.StatusOK, h.ui.State())
}

// SetPanels handles PUT /ui/panels
func (h *UIHandler) SetPanels(w http.ResponseWriter, r *http.Request) {
	var sizes model.PanelSizes
	if err := decodeJSON(r, &sizes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ui.SetPanelSizes(sizes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.ui.State())
}

// Notifications handles GET /notifications. Returned notifications are
// removed from the feed.
func (h *UIHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.feed.Drain(),
	})
}
