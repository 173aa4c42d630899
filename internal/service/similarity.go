package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

const similarFallback = "Failed to generate similar questions"

// SimilarityService generates variations of a question. The last result is
// kept for presentation; it is not part of the question store.
type SimilarityService struct {
	gateway  Gateway
	notifier Notifier
	logger   *logger.Logger

	mu   sync.RWMutex
	last *model.SimilarResponse
}

// NewSimilarityService creates a new similarity service.
func NewSimilarityService(gw Gateway, notifier Notifier, log *logger.Logger) *SimilarityService {
	return &SimilarityService{
		gateway:  gw,
		notifier: notifier,
		logger:   log.Named("similarity"),
	}
}

// Generate requests variations of req's question.
func (s *SimilarityService) Generate(ctx context.Context, req model.SimilarRequest) (*model.SimilarResponse, error) {
	resp, err := s.gateway.GenerateSimilar(ctx, req)
	if err != nil {
		s.notifier.Error(userMessage(err, similarFallback))
		return nil, err
	}

	s.mu.Lock()
	s.last = resp
	s.mu.Unlock()

	s.notifier.Success(fmt.Sprintf("Generated %d similar questions!", len(resp.SimilarQuestions)))
	s.logger.Info("similar questions generated",
		zap.String("session_id", resp.SessionID),
		zap.Int("count", len(resp.SimilarQuestions)),
	)
	return resp, nil
}

// Last returns the most recent result, or nil.
func (s *SimilarityService) Last() *model.SimilarResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Reset forgets the last result.
func (s *SimilarityService) Reset() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}
