// Package model defines data structures for the question studio.
package model

import (
	"errors"
	"fmt"
)

// QuestionType is the kind of a generated question.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "mcq"
	QuestionTypeOpenEnded      QuestionType = "open_ended"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeOpenEnded
}

// Difficulty is the requested or assigned difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return true
	}
	return false
}

// QuestionOption is one answer option of a multiple choice question.
type QuestionOption struct {
	Label     string `json:"label"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is a generated quiz question.
type Question struct {
	ID              string           `json:"id"`
	QuestionText    string           `json:"question_text"`
	QuestionType    QuestionType     `json:"question_type"`
	Difficulty      Difficulty       `json:"difficulty"`
	Topic           string           `json:"topic"`
	Explanation     string           `json:"explanation"`
	CorrectAnswer   string           `json:"correct_answer"`
	Options         []QuestionOption `json:"options"`
	ConfidenceScore float64          `json:"confidence_score"`
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	if q.Options != nil {
		opts := make([]QuestionOption, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
	}
	return q
}

// ClampConfidence pulls the confidence score into [0,1] and reports whether
// it changed.
func (q *Question) ClampConfidence() bool {
	switch {
	case q.ConfidenceScore < 0:
		q.ConfidenceScore = 0
	case q.ConfidenceScore > 1:
		q.ConfidenceScore = 1
	default:
		return false
	}
	return true
}

// Validate checks the structural rules of a question.
func (q Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id is required")
	}
	if q.ConfidenceScore < 0 || q.ConfidenceScore > 1 {
		return fmt.Errorf("question %s: confidence score %v out of range", q.ID, q.ConfidenceScore)
	}
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct > 1 {
		return fmt.Errorf("question %s: %d options marked correct", q.ID, correct)
	}
	return nil
}

// QuestionPatch carries a partial update. Nil fields are left untouched.
// There is no ID field: identity never changes after creation.
type QuestionPatch struct {
	QuestionText    *string           `json:"question_text,omitempty"`
	QuestionType    *QuestionType     `json:"question_type,omitempty"`
	Difficulty      *Difficulty       `json:"difficulty,omitempty"`
	Topic           *string           `json:"topic,omitempty"`
	Explanation     *string           `json:"explanation,omitempty"`
	CorrectAnswer   *string           `json:"correct_answer,omitempty"`
	Options         *[]QuestionOption `json:"options,omitempty"`
	ConfidenceScore *float64          `json:"confidence_score,omitempty"`
}

// PatchFrom builds a patch that replaces every mutable field with q's values.
func PatchFrom(q Question) QuestionPatch {
	q = q.Clone()
	return QuestionPatch{
		QuestionText:    &q.QuestionText,
		QuestionType:    &q.QuestionType,
		Difficulty:      &q.Difficulty,
		Topic:           &q.Topic,
		Explanation:     &q.Explanation,
		CorrectAnswer:   &q.CorrectAnswer,
		Options:         &q.Options,
		ConfidenceScore: &q.ConfidenceScore,
	}
}

// Apply returns a copy of q with the patch merged in.
func (p QuestionPatch) Apply(q Question) Question {
	q = q.Clone()
	if p.QuestionText != nil {
		q.QuestionText = *p.QuestionText
	}
	if p.QuestionType != nil {
		q.QuestionType = *p.QuestionType
	}
	if p.Difficulty != nil {
		q.Difficulty = *p.Difficulty
	}
	if p.Topic != nil {
		q.Topic = *p.Topic
	}
	if p.Explanation != nil {
		q.Explanation = *p.Explanation
	}
	if p.CorrectAnswer != nil {
		q.CorrectAnswer = *p.CorrectAnswer
	}
	if p.Options != nil {
		if *p.Options == nil {
			q.Options = nil
		} else {
			opts := make([]QuestionOption, len(*p.Options))
			copy(opts, *p.Options)
			q.Options = opts
		}
	}
	if p.ConfidenceScore != nil {
		q.ConfidenceScore = *p.ConfidenceScore
	}
	return q
}
