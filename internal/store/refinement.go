package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/capitalize-ai/question-studio/internal/model"
)

// RefinementStore owns the single active refinement session. It is never
// persisted.
type RefinementStore struct {
	mu      sync.RWMutex
	session *model.RefinementSession
	now     func() time.Time
}

// NewRefinementStore creates a store with no active session.
func NewRefinementStore() *RefinementStore {
	return &RefinementStore{now: time.Now}
}

// InitSession discards any previous session and starts a new one on question.
// It returns the new session id.
func (s *RefinementStore) InitSession(question model.Question) string {
	now := s.now()
	session := &model.RefinementSession{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Question:  question.Clone(),
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	return session.ID
}

// AddMessage appends to the transcript. Roles are not validated.
func (s *RefinementStore) AddMessage(msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return false
	}
	s.session.Messages = append(s.session.Messages, msg)
	s.session.UpdatedAt = s.now()
	return true
}

// UpdateQuestion replaces the question under edit. The identifier of the
// question under edit is kept.
func (s *RefinementStore) UpdateQuestion(question model.Question) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return false
	}
	q := question.Clone()
	q.ID = s.session.Question.ID
	s.session.Question = q
	s.session.UpdatedAt = s.now()
	return true
}

// SetConversationID records the remote conversation id. Once set it is never
// overwritten; later calls report false.
func (s *RefinementStore) SetConversationID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || id == "" || s.session.ConversationID != "" {
		return false
	}
	s.session.ConversationID = id
	return true
}

// IncrementTurn advances the turn counter by one.
func (s *RefinementStore) IncrementTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.TurnNumber++
	}
}

// SetRefining sets the in-flight flag.
func (s *RefinementStore) SetRefining(refining bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Refining = refining
	}
}

// ResetSession drops the active session.
func (s *RefinementStore) ResetSession() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// Snapshot returns a copy of the active session, or nil.
func (s *RefinementStore) Snapshot() *model.RefinementSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	sess := s.session.Clone()
	return &sess
}

// ActiveSessionID returns the id of the active session, or "".
func (s *RefinementStore) ActiveSessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.ID
}
