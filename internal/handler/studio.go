package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/middleware"
	"github.com/capitalize-ai/question-studio/internal/service"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

// StudioHandler handles the conversational refinement studio.
type StudioHandler struct {
	refinement *service.RefinementService
	workspace  *store.Workspace
	logger     *logger.Logger
}

// NewStudioHandler creates a new studio handler.
func NewStudioHandler(svc *service.RefinementService, ws *store.Workspace, log *logger.Logger) *StudioHandler {
	return &StudioHandler{
		refinement: svc,
		workspace:  ws,
		logger:     log,
	}
}

// StartRequest opens the studio on a question.
type StartRequest struct {
	QuestionID string `json:"question_id"`
}

// RefineRequest carries one refinement instruction.
type RefineRequest struct {
	Instruction string `json:"instruction"`
}

// Get handles GET /studio
func (h *StudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.workspace.Refinement.Snapshot()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no active refinement session")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Start handles POST /studio
func (h *StudioHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeJSON(r, &req); err != nil || req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "question_id is required")
		return
	}

	sess, err := h.refinement.Start(req.QuestionID)
	if errors.Is(err, store.ErrQuestionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to start refinement", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start refinement")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Reset handles DELETE /studio
func (h *StudioHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.refinement.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// Refine handles POST /studio/refine
func (h *StudioHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req RefineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateInstruction(req.Instruction); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.refinement.Refine(r.Context(), req.Instruction)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, store.ErrNoQuestionSelected),
		errors.Is(err, store.ErrRefinementInFlight),
		errors.Is(err, store.ErrSessionSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeGatewayError(w, err)
	}
}
