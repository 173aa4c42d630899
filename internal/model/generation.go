package model

import (
	"encoding/json"
	"time"
)

// SourceType is where the questions of a generation session came from.
type SourceType string

const (
	SourceText     SourceType = "text"
	SourceDocument SourceType = "document"
)

// UnmarshalJSON accepts the service's "pdf" spelling for documents.
func (s *SourceType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "pdf" {
		raw = string(SourceDocument)
	}
	*s = SourceType(raw)
	return nil
}

// MaxHistorySessions bounds the generation history.
const MaxHistorySessions = 50

// GenerationSession is one completed generation request.
type GenerationSession struct {
	ID          string     `json:"id"`
	SourceType  SourceType `json:"source_type"`
	SourceName  string     `json:"source_name,omitempty"`
	Questions   []Question `json:"questions"`
	GeneratedAt time.Time  `json:"generated_at"`
	Summary     string     `json:"summary,omitempty"`
}

// Clone returns a deep copy of the session.
func (s GenerationSession) Clone() GenerationSession {
	if s.Questions != nil {
		qs := make([]Question, len(s.Questions))
		for i, q := range s.Questions {
			qs[i] = q.Clone()
		}
		s.Questions = qs
	}
	return s
}

// GenerateOptions are the tuning knobs shared by text and document generation.
type GenerateOptions struct {
	NumQuestions  int            `json:"num_questions,omitempty"`
	QuestionTypes []QuestionType `json:"question_types,omitempty"`
	Difficulty    Difficulty     `json:"difficulty,omitempty"`
	TopicFocus    string         `json:"topic_focus,omitempty"`
}

// GenerateFromTextRequest is the body of POST /generate/from-text.
type GenerateFromTextRequest struct {
	Content string `json:"content"`
	GenerateOptions
}

// GenerateResponse is returned by both generation endpoints.
type GenerateResponse struct {
	SessionID         string     `json:"session_id"`
	Questions         []Question `json:"questions"`
	GenerationSummary string     `json:"generation_summary"`
	SourceType        SourceType `json:"source_type"`
}

// VariationType selects how similar questions differ from the original.
type VariationType string

const (
	VariationParaphrase      VariationType = "paraphrase"
	VariationDifficultyShift VariationType = "difficulty_shift"
	VariationContextChange   VariationType = "context_change"
)

// SimilarRequest is the body of POST /similar/generate.
type SimilarRequest struct {
	QuestionText  string           `json:"question_text"`
	QuestionType  QuestionType     `json:"question_type,omitempty"`
	Options       []QuestionOption `json:"options,omitempty"`
	CorrectAnswer string           `json:"correct_answer,omitempty"`
	NumSimilar    int              `json:"num_similar,omitempty"`
	VariationType VariationType    `json:"variation_type,omitempty"`
}

// OriginalAnalysis describes the question the variations were derived from.
type OriginalAnalysis struct {
	CoreConcept       string   `json:"core_concept"`
	DifficultyLevel   string   `json:"difficulty_level"`
	QuestionStructure string   `json:"question_structure"`
	KeyDistractors    []string `json:"key_distractors,omitempty"`
}

// SimilarQuestion is one generated variation.
type SimilarQuestion struct {
	ID              string           `json:"id"`
	QuestionText    string           `json:"question_text"`
	Options         []QuestionOption `json:"options,omitempty"`
	CorrectAnswer   string           `json:"correct_answer"`
	VariationType   string           `json:"variation_type"`
	SimilarityScore float64          `json:"similarity_score"`
	Explanation     string           `json:"explanation"`
}

// SimilarResponse is returned by POST /similar/generate.
type SimilarResponse struct {
	SessionID        string            `json:"session_id"`
	OriginalAnalysis OriginalAnalysis  `json:"original_analysis"`
	SimilarQuestions []SimilarQuestion `json:"similar_questions"`
}
