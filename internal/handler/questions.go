package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

// QuestionHandler handles the current question list, the selection and the
// session history.
type QuestionHandler struct {
	workspace *store.Workspace
	logger    *logger.Logger
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(ws *store.Workspace, log *logger.Logger) *QuestionHandler {
	return &QuestionHandler{
		workspace: ws,
		logger:    log,
	}
}

// QuestionsResponse is the current question view.
type QuestionsResponse struct {
	SessionID string           `json:"session_id,omitempty"`
	Questions []model.Question `json:"questions"`
	Selected  *model.Question  `json:"selected"`
}

// List handles GET /questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	qs := h.workspace.Questions
	resp := QuestionsResponse{
		Questions: qs.Questions(),
		Selected:  qs.SelectedQuestion(),
	}
	if sess := qs.CurrentSession(); sess != nil {
		resp.SessionID = sess.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PATCH /questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.QuestionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.workspace.UpdateQuestion(id, patch) {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	if q, ok := h.workspace.Questions.Question(id); ok {
		writeJSON(w, http.StatusOK, q)
		return
	}
	// Only the question under refinement carried this id.
	if snap := h.workspace.Refinement.Snapshot(); snap != nil {
		writeJSON(w, http.StatusOK, snap.Question)
		return
	}
	writeError(w, http.StatusNotFound, "question not found")
}

// Delete handles DELETE /questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.workspace.DeleteQuestion(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectRequest selects a question by id; a null id clears the selection.
type SelectRequest struct {
	QuestionID *string `json:"question_id"`
}

// Select handles PUT /selection
func (h *QuestionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qs := h.workspace.Questions
	if req.QuestionID == nil {
		qs.SelectQuestion(nil)
		writeJSON(w, http.StatusOK, map[string]any{"selected": nil})
		return
	}

	q, ok := qs.Question(*req.QuestionID)
	if !ok {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	qs.SelectQuestion(&q)
	writeJSON(w, http.StatusOK, map[string]any{"selected": q})
}

// Session handles GET /session
func (h *QuestionHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess := h.workspace.Questions.CurrentSession()
	if sess == nil {
		writeError(w, http.StatusNotFound, "no current session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ClearSession handles DELETE /session
func (h *QuestionHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	h.workspace.Questions.ClearCurrentSession()
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /history
func (h *QuestionHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": h.workspace.Questions.History(),
	})
}

// OpenHistory handles POST /history/{id}/open
func (h *QuestionHandler) OpenHistory(w http.ResponseWriter, r *http.Request) {
	qs := h.workspace.Questions
	if !qs.OpenHistorySession(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, qs.CurrentSession())
}
