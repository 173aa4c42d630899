package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/pkg/logger"
	"github.com/capitalize-ai/question-studio/pkg/metrics"
)

// QuestionStore owns the generated questions: the current session, the flat
// question list, the selected question and the bounded session history.
// Only the history is persisted.
type QuestionStore struct {
	repo        HistoryRepository
	logger      *logger.Logger
	saveTimeout time.Duration

	mu        sync.RWMutex
	current   *model.GenerationSession
	questions []model.Question
	selected  *model.Question
	sessions  []model.GenerationSession

	// persistMu orders history writes so a slow save never lands after a newer one.
	persistMu sync.Mutex
}

// NewQuestionStore creates an empty store backed by repo.
func NewQuestionStore(repo HistoryRepository, log *logger.Logger) *QuestionStore {
	return &QuestionStore{
		repo:        repo,
		logger:      log.Named("question_store"),
		saveTimeout: 5 * time.Second,
	}
}

// Load hydrates the history from the repository. Transient state starts empty.
func (s *QuestionStore) Load(ctx context.Context) error {
	sessions, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	history := make([]model.GenerationSession, 0, len(sessions))
	seen := make(map[string]struct{}, len(sessions))
	for _, sess := range sessions {
		if _, dup := seen[sess.ID]; dup {
			continue
		}
		seen[sess.ID] = struct{}{}
		sess.Questions = dedupeQuestions(sess.Questions)
		history = append(history, sess)
		if len(history) == model.MaxHistorySessions {
			break
		}
	}

	s.mu.Lock()
	s.sessions = history
	s.current = nil
	s.questions = nil
	s.selected = nil
	s.mu.Unlock()

	metrics.HistorySessions.Set(float64(len(history)))
	s.logger.Info("history loaded", zap.Int("sessions", len(history)))
	return nil
}

// SetCurrentSession replaces the current session and the flat question list
// together. A nil session clears both.
func (s *QuestionStore) SetCurrentSession(session *model.GenerationSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCurrentLocked(session)
}

func (s *QuestionStore) setCurrentLocked(session *model.GenerationSession) {
	if session == nil {
		s.current = nil
		s.questions = nil
		return
	}
	sess := session.Clone()
	sess.Questions = dedupeQuestions(sess.Questions)
	s.current = &sess
	s.questions = cloneQuestions(sess.Questions)
}

// AddSession prepends session to the history, evicting the oldest entries
// beyond the bound, and makes it the current session.
func (s *QuestionStore) AddSession(session model.GenerationSession) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	sess := session.Clone()
	sess.Questions = dedupeQuestions(sess.Questions)

	history := make([]model.GenerationSession, 0, model.MaxHistorySessions)
	history = append(history, sess)
	for _, existing := range s.sessions {
		if len(history) == model.MaxHistorySessions {
			break
		}
		if existing.ID == sess.ID {
			continue
		}
		history = append(history, existing)
	}
	s.sessions = history
	s.setCurrentLocked(&sess)
	snapshot := cloneSessions(s.sessions)
	s.mu.Unlock()

	metrics.HistorySessions.Set(float64(len(snapshot)))
	s.persist(snapshot)
}

// OpenHistorySession makes a history entry the current session again.
func (s *QuestionStore) OpenHistorySession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.setCurrentLocked(&s.sessions[i])
			return true
		}
	}
	return false
}

// SelectQuestion sets the selected question. Nil clears the selection.
func (s *QuestionStore) SelectQuestion(question *model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if question == nil {
		s.selected = nil
		return
	}
	q := question.Clone()
	s.selected = &q
}

// UpdateQuestion merges patch into every copy of the question: the flat list,
// the selection, the current session and its history entry. It reports false
// and changes nothing when id is not in the flat list.
func (s *QuestionStore) UpdateQuestion(id string, patch model.QuestionPatch) bool {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	idx := indexOf(s.questions, id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.questions[idx] = patch.Apply(s.questions[idx])
	if s.selected != nil && s.selected.ID == id {
		q := patch.Apply(*s.selected)
		s.selected = &q
	}

	var snapshot []model.GenerationSession
	if s.current != nil {
		if i := indexOf(s.current.Questions, id); i >= 0 {
			s.current.Questions[i] = patch.Apply(s.current.Questions[i])
		}
		if h := s.historyIndexLocked(s.current.ID); h >= 0 {
			if i := indexOf(s.sessions[h].Questions, id); i >= 0 {
				s.sessions[h].Questions[i] = patch.Apply(s.sessions[h].Questions[i])
				snapshot = cloneSessions(s.sessions)
			}
		}
	}
	s.mu.Unlock()

	if snapshot != nil {
		s.persist(snapshot)
	}
	return true
}

// DeleteQuestion removes the question from the flat list, the current session
// and its history entry, and clears the selection if it pointed at it.
func (s *QuestionStore) DeleteQuestion(id string) bool {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	idx := indexOf(s.questions, id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.questions = removeAt(s.questions, idx)
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}

	var snapshot []model.GenerationSession
	if s.current != nil {
		if i := indexOf(s.current.Questions, id); i >= 0 {
			s.current.Questions = removeAt(s.current.Questions, i)
		}
		if h := s.historyIndexLocked(s.current.ID); h >= 0 {
			if i := indexOf(s.sessions[h].Questions, id); i >= 0 {
				s.sessions[h].Questions = removeAt(s.sessions[h].Questions, i)
				snapshot = cloneSessions(s.sessions)
			}
		}
	}
	s.mu.Unlock()

	if snapshot != nil {
		s.persist(snapshot)
	}
	return true
}

// ClearCurrentSession drops the current session, the flat list and the
// selection. History is untouched.
func (s *QuestionStore) ClearCurrentSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.questions = nil
	s.selected = nil
}

// CurrentSession returns a copy of the current session, or nil.
func (s *QuestionStore) CurrentSession() *model.GenerationSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	sess := s.current.Clone()
	return &sess
}

// Questions returns a copy of the flat question list.
func (s *QuestionStore) Questions() []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneQuestions(s.questions)
}

// Question looks a question up in the flat list.
func (s *QuestionStore) Question(id string) (model.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.questions, id); i >= 0 {
		return s.questions[i].Clone(), true
	}
	return model.Question{}, false
}

// SelectedQuestion returns a copy of the selected question, or nil.
func (s *QuestionStore) SelectedQuestion() *model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	q := s.selected.Clone()
	return &q
}

// History returns the retained sessions, most recent first.
func (s *QuestionStore) History() []model.GenerationSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSessions(s.sessions)
}

func (s *QuestionStore) historyIndexLocked(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// persist saves the history on a best effort basis; failures are logged only.
func (s *QuestionStore) persist(sessions []model.GenerationSession) {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, sessions); err != nil {
		s.logger.Warn("failed to persist history", zap.Error(err), zap.Int("sessions", len(sessions)))
	}
}

func indexOf(questions []model.Question, id string) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}

func removeAt(questions []model.Question, i int) []model.Question {
	out := make([]model.Question, 0, len(questions)-1)
	out = append(out, questions[:i]...)
	return append(out, questions[i+1:]...)
}

// dedupeQuestions keeps the first occurrence of every id.
func dedupeQuestions(questions []model.Question) []model.Question {
	if questions == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(questions))
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}

func cloneQuestions(questions []model.Question) []model.Question {
	if questions == nil {
		return []model.Question{}
	}
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out
}

func cloneSessions(sessions []model.GenerationSession) []model.GenerationSession {
	out := make([]model.GenerationSession, len(sessions))
	for i, sess := range sessions {
		out[i] = sess.Clone()
	}
	return out
}
