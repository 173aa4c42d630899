package model

import (
	"time"
)

// RefinementSession is one conversational refinement thread on a single question.
type RefinementSession struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Question       Question  `json:"question"`
	Messages       []Message `json:"messages"`
	TurnNumber     int       `json:"turn_number"`
	Refining       bool      `json:"refining"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the session.
func (s RefinementSession) Clone() RefinementSession {
	s.Question = s.Question.Clone()
	if s.Messages != nil {
		msgs := make([]Message, len(s.Messages))
		copy(msgs, s.Messages)
		s.Messages = msgs
	}
	return s
}

// RefineRequest is the body of POST /refine/refine.
type RefineRequest struct {
	QuestionState  Question `json:"question_state"`
	Instruction    string   `json:"instruction"`
	ConversationID *string  `json:"conversation_id,omitempty"`
}

// RefineResponse is returned by POST /refine/refine.
type RefineResponse struct {
	ConversationID  string   `json:"conversation_id"`
	RefinedQuestion Question `json:"refined_question"`
	ChangesMade     string   `json:"changes_made"`
	ConfidenceScore float64  `json:"confidence_score"`
	TurnNumber      int      `json:"turn_number"`
}
