package store

import (
	"fmt"
	"time"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

func testQuestion(id string) model.Question {
	return model.Question{
		ID:            id,
		QuestionText:  "What is the capital of France?",
		QuestionType:  model.QuestionTypeMultipleChoice,
		Difficulty:    model.DifficultyEasy,
		Topic:         "Geography",
		Explanation:   "Paris is the capital and largest city of France.",
		CorrectAnswer: "Paris",
		Options: []model.QuestionOption{
			{Label: "A", Text: "Paris", IsCorrect: true},
			{Label: "B", Text: "London"},
			{Label: "C", Text: "Berlin"},
		},
		ConfidenceScore: 0.95,
	}
}

func testSession(id string, questionIDs ...string) model.GenerationSession {
	qs := make([]model.Question, len(questionIDs))
	for i, qid := range questionIDs {
		qs[i] = testQuestion(qid)
	}
	return model.GenerationSession{
		ID:          id,
		SourceType:  model.SourceText,
		SourceName:  "Text Input",
		Questions:   qs,
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Summary:     fmt.Sprintf("Generated %d questions", len(qs)),
	}
}

func newTestQuestionStore() (*QuestionStore, *MemoryHistory) {
	repo := NewMemoryHistory()
	return NewQuestionStore(repo, logger.NewNop()), repo
}

func nopLogger() *logger.Logger { return logger.NewNop() }

func ptr[T any](v T) *T { return &v }
