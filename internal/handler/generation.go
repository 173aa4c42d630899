package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/middleware"
	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/service"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

const maxDocumentSize = 20 << 20

// GenerationHandler handles batch and similar question generation.
type GenerationHandler struct {
	generation *service.GenerationService
	similarity *service.SimilarityService
	logger     *logger.Logger
}

// NewGenerationHandler creates a new generation handler.
func NewGenerationHandler(gen *service.GenerationService, sim *service.SimilarityService, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{
		generation: gen,
		similarity: sim,
		logger:     log,
	}
}

// FromText handles POST /generate/text
func (h *GenerationHandler) FromText(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateFromTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.generation.FromText(r.Context(), req)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// FromDocument handles POST /generate/document (multipart, field "file")
func (h *GenerationHandler) FromDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if err := middleware.ValidateFilename(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts, err := formOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.generation.FromDocument(r.Context(), header.Filename, file, opts)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	h.logger.Debug("document processed", zap.String("filename", header.Filename), zap.Int64("size", header.Size))
	writeJSON(w, http.StatusCreated, sess)
}

// Similar handles POST /similar
func (h *GenerationHandler) Similar(w http.ResponseWriter, r *http.Request) {
	var req model.SimilarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateContent(req.QuestionText); err != nil {
		writeError(w, http.StatusBadRequest, "question_text: "+err.Error())
		return
	}

	resp, err := h.similarity.Generate(r.Context(), req)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// LastSimilar handles GET /similar
func (h *GenerationHandler) LastSimilar(w http.ResponseWriter, r *http.Request) {
	resp := h.similarity.Last()
	if resp == nil {
		writeError(w, http.StatusNotFound, "no similar questions generated")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func formOptions(r *http.Request) (model.GenerateOptions, error) {
	var opts model.GenerateOptions

	if v := r.FormValue("num_questions"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, errInvalidField("num_questions")
		}
		opts.NumQuestions = n
	}
	if v := r.FormValue("question_types"); v != "" {
		for _, t := range strings.Split(v, ",") {
			qt := model.QuestionType(strings.TrimSpace(t))
			if !qt.Valid() {
				return opts, errInvalidField("question_types")
			}
			opts.QuestionTypes = append(opts.QuestionTypes, qt)
		}
	}
	if v := r.FormValue("difficulty"); v != "" {
		d := model.Difficulty(v)
		if !d.Valid() {
			return opts, errInvalidField("difficulty")
		}
		opts.Difficulty = d
	}
	opts.TopicFocus = r.FormValue("topic_focus")
	return opts, nil
}

func errInvalidField(name string) error {
	return fmt.Errorf("invalid %s", name)
}
