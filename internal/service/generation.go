package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
	"github.com/capitalize-ai/question-studio/pkg/metrics"
)

const (
	textSourceName     = "Text Input"
	documentSourceName = "Uploaded PDF"
	generateFallback   = "Failed to generate questions"
)

// GenerationService runs batch generation and commits results to the question store.
type GenerationService struct {
	gateway   Gateway
	questions *store.QuestionStore
	notifier  Notifier
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewGenerationService creates a new generation service.
func NewGenerationService(gw Gateway, questions *store.QuestionStore, notifier Notifier, publisher EventPublisher, log *logger.Logger) *GenerationService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &GenerationService{
		gateway:   gw,
		questions: questions,
		notifier:  notifier,
		publisher: publisher,
		logger:    log.Named("generation"),
		now:       time.Now,
	}
}

// FromText generates questions from free text.
func (s *GenerationService) FromText(ctx context.Context, req model.GenerateFromTextRequest) (*model.GenerationSession, error) {
	resp, err := s.gateway.GenerateFromText(ctx, req)
	if err != nil {
		s.notifier.Error(userMessage(err, generateFallback))
		return nil, err
	}
	return s.commit(ctx, resp, model.SourceText, textSourceName), nil
}

// FromDocument generates questions from an uploaded document.
func (s *GenerationService) FromDocument(ctx context.Context, filename string, file io.Reader, opts model.GenerateOptions) (*model.GenerationSession, error) {
	resp, err := s.gateway.GenerateFromDocument(ctx, filename, file, opts)
	if err != nil {
		s.notifier.Error(userMessage(err, generateFallback))
		return nil, err
	}
	name := filename
	if name == "" {
		name = documentSourceName
	}
	return s.commit(ctx, resp, model.SourceDocument, name), nil
}

func (s *GenerationService) commit(ctx context.Context, resp *model.GenerateResponse, source model.SourceType, name string) *model.GenerationSession {
	session := model.GenerationSession{
		ID:          resp.SessionID,
		SourceType:  source,
		SourceName:  name,
		Questions:   resp.Questions,
		GeneratedAt: s.now(),
		Summary:     resp.GenerationSummary,
	}
	if session.ID == "" {
		session.ID = uuid.Must(uuid.NewV7()).String()
	}
	if session.Questions == nil {
		session.Questions = []model.Question{}
	}

	s.questions.AddSession(session)
	metrics.QuestionsGeneratedTotal.WithLabelValues(string(source)).Add(float64(len(session.Questions)))
	s.notifier.Success(fmt.Sprintf("Generated %d questions!", len(session.Questions)))

	log := s.logger.WithSession(session.ID)
	log.Info("generation session added",
		zap.String("source", string(source)),
		zap.Int("questions", len(session.Questions)),
	)

	if err := s.publisher.PublishEvent(ctx, model.StudioEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: session.ID,
		Type:      model.EventTypeGenerated,
		Metadata: map[string]any{
			"source":    string(source),
			"questions": len(session.Questions),
		},
		CreatedAt: session.GeneratedAt,
	}); err != nil {
		log.Warn("failed to publish generation event", zap.Error(err))
	}

	return s.questions.CurrentSession()
}
