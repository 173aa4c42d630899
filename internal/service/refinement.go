package service

import (
	"context"
	"errors"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
	"github.com/capitalize-ai/question-studio/pkg/metrics"
)

const (
	refinedNotice  = "Question refined successfully!"
	refineFallback = "Failed to refine question"
)

// RefineResult is the outcome of one successful refinement exchange.
type RefineResult struct {
	Session      *model.RefinementSession `json:"session"`
	Message      model.Message            `json:"message"`
	EditDistance int                      `json:"edit_distance"`
}

// RefinementService runs conversational refinement turns against the workspace.
type RefinementService struct {
	gateway   Gateway
	workspace *store.Workspace
	notifier  Notifier
	publisher EventPublisher
	logger    *logger.Logger
}

// NewRefinementService creates a new refinement service.
func NewRefinementService(gw Gateway, ws *store.Workspace, notifier Notifier, publisher EventPublisher, log *logger.Logger) *RefinementService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &RefinementService{
		gateway:   gw,
		workspace: ws,
		notifier:  notifier,
		publisher: publisher,
		logger:    log.Named("refinement"),
	}
}

// Start opens a refinement session on a question from the current list.
func (s *RefinementService) Start(questionID string) (*model.RefinementSession, error) {
	id, err := s.workspace.StartRefinement(questionID)
	if err != nil {
		return nil, err
	}
	s.logger.WithSession(id).Info("refinement session started", zap.String("question_id", questionID))
	return s.workspace.Refinement.Snapshot(), nil
}

// Reset drops the active refinement session.
func (s *RefinementService) Reset() {
	s.workspace.ResetRefinement()
}

// Refine sends instruction for the question under edit and applies the result.
// A result that arrives after the session was replaced or reset is discarded
// and ErrSessionSuperseded is returned.
func (s *RefinementService) Refine(ctx context.Context, instruction string) (*RefineResult, error) {
	turn, err := s.workspace.BeginTurn(instruction)
	if err != nil {
		s.notifier.Error(userMessage(err, refineFallback))
		return nil, err
	}

	log := s.logger.WithSession(turn.SessionID)
	// The exchange runs to completion even if the caller goes away; the
	// session check on completion handles staleness.
	ctx = context.WithoutCancel(ctx)

	s.publishMessage(ctx, log, turn.SessionID, turn.UserMessage)

	req := model.RefineRequest{
		QuestionState: turn.Question,
		Instruction:   turn.Instruction,
	}
	if turn.ConversationID != "" {
		convID := turn.ConversationID
		req.ConversationID = &convID
	}

	resp, err := s.gateway.Refine(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, log, turn, err)
	}

	msg, err := s.workspace.CompleteTurn(turn, resp)
	if err != nil {
		s.superseded(ctx, log, turn)
		return nil, err
	}

	distance := levenshtein.ComputeDistance(turn.Question.QuestionText, resp.RefinedQuestion.QuestionText)
	metrics.RecordRefinement("success", distance)
	s.notifier.Success(refinedNotice)
	log.Info("question refined",
		zap.String("question_id", turn.Question.ID),
		zap.Int("turn", resp.TurnNumber),
		zap.Int("edit_distance", distance),
	)

	s.publishMessage(ctx, log, turn.SessionID, msg)
	s.publishEvent(ctx, log, model.StudioEvent{
		SessionID: turn.SessionID,
		Type:      model.EventTypeRefined,
		Metadata: map[string]any{
			"question_id":     turn.Question.ID,
			"conversation_id": resp.ConversationID,
			"edit_distance":   distance,
		},
	})

	return &RefineResult{
		Session:      s.workspace.Refinement.Snapshot(),
		Message:      msg,
		EditDistance: distance,
	}, nil
}

func (s *RefinementService) fail(ctx context.Context, log *logger.Logger, turn store.Turn, cause error) error {
	text := userMessage(cause, refineFallback)
	msg, err := s.workspace.FailTurn(turn, text)
	if errors.Is(err, store.ErrSessionSuperseded) {
		s.superseded(ctx, log, turn)
		return err
	}

	metrics.RecordRefinement("failure", 0)
	s.notifier.Error(text)
	log.Warn("refinement failed", zap.Error(cause))

	s.publishMessage(ctx, log, turn.SessionID, msg)
	s.publishEvent(ctx, log, model.StudioEvent{
		SessionID: turn.SessionID,
		Type:      model.EventTypeError,
		Reason:    text,
	})
	return cause
}

func (s *RefinementService) superseded(ctx context.Context, log *logger.Logger, turn store.Turn) {
	metrics.RecordRefinement("superseded", 0)
	log.Info("discarding refinement result for replaced session", zap.String("question_id", turn.Question.ID))
	s.publishEvent(ctx, log, model.StudioEvent{
		SessionID: turn.SessionID,
		Type:      model.EventTypeSuperseded,
	})
}

func (s *RefinementService) publishMessage(ctx context.Context, log *logger.Logger, sessionID string, msg model.Message) {
	if err := s.publisher.PublishMessage(ctx, sessionID, msg); err != nil {
		log.Warn("failed to publish message", zap.Error(err))
	}
}

func (s *RefinementService) publishEvent(ctx context.Context, log *logger.Logger, event model.StudioEvent) {
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now()
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		log.Warn("failed to publish event", zap.Error(err))
	}
}
