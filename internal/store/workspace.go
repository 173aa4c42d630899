package store

import (
	"errors"
	"sync"

	"github.com/capitalize-ai/question-studio/internal/model"
)

var (
	// ErrNoQuestionSelected is returned when a refinement is requested without a question under edit.
	ErrNoQuestionSelected = errors.New("no question selected")
	// ErrRefinementInFlight is returned while a previous refinement has not completed.
	ErrRefinementInFlight = errors.New("a refinement is already in progress")
	// ErrSessionSuperseded is returned when a refinement result arrives for a session that is no longer active.
	ErrSessionSuperseded = errors.New("refinement session was replaced")
	// ErrQuestionNotFound is returned when a question id is not in the flat list.
	ErrQuestionNotFound = errors.New("question not found")
)

// RefineFailurePrefix starts the transcript entry recorded for a failed refinement.
const RefineFailurePrefix = "Sorry, I couldn't refine the question: "

// Workspace composes the question and refinement stores. Operations that touch
// both containers go through it so they are applied together.
type Workspace struct {
	Questions  *QuestionStore
	Refinement *RefinementStore
	UI         *UIStore

	mu sync.Mutex
}

// NewWorkspace wires the three containers together.
func NewWorkspace(questions *QuestionStore, refinement *RefinementStore, ui *UIStore) *Workspace {
	return &Workspace{
		Questions:  questions,
		Refinement: refinement,
		UI:         ui,
	}
}

// Turn is one refinement exchange in flight. SessionID pins the exchange to
// the session it was issued for; UserMessage is the transcript entry
// BeginTurn appended.
type Turn struct {
	SessionID      string
	Question       model.Question
	ConversationID string
	Instruction    string
	UserMessage    model.Message
}

// UpdateQuestion applies patch to every copy of the question, including the
// one under refinement. It reports whether any copy was found.
func (w *Workspace) UpdateQuestion(id string, patch model.QuestionPatch) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	found := w.Questions.UpdateQuestion(id, patch)
	if snap := w.Refinement.Snapshot(); snap != nil && snap.Question.ID == id {
		w.Refinement.UpdateQuestion(patch.Apply(snap.Question))
		found = true
	}
	return found
}

// DeleteQuestion removes a question from the question store.
func (w *Workspace) DeleteQuestion(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Questions.DeleteQuestion(id)
}

// StartRefinement opens a refinement session on a question from the flat list.
func (w *Workspace) StartRefinement(questionID string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	q, ok := w.Questions.Question(questionID)
	if !ok {
		return "", ErrQuestionNotFound
	}
	return w.Refinement.InitSession(q), nil
}

// ResetRefinement drops the active refinement session.
func (w *Workspace) ResetRefinement() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Refinement.ResetSession()
}

// BeginTurn records the user's instruction and marks the session as refining.
func (w *Workspace) BeginTurn(instruction string) (Turn, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := w.Refinement.Snapshot()
	if snap == nil {
		return Turn{}, ErrNoQuestionSelected
	}
	if snap.Refining {
		return Turn{}, ErrRefinementInFlight
	}

	msg := model.NewMessage(model.RoleUser, instruction)
	w.Refinement.AddMessage(msg)
	w.Refinement.SetRefining(true)

	return Turn{
		SessionID:      snap.ID,
		Question:       snap.Question,
		ConversationID: snap.ConversationID,
		Instruction:    instruction,
		UserMessage:    msg,
	}, nil
}

// CompleteTurn commits a successful exchange: transcript, question copies in
// both stores, conversation id, turn counter and in-flight flag. A result for
// a session that is no longer active is dropped.
func (w *Workspace) CompleteTurn(turn Turn, resp *model.RefineResponse) (model.Message, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.Refinement.ActiveSessionID() != turn.SessionID {
		return model.Message{}, ErrSessionSuperseded
	}

	msg := model.NewMessage(model.RoleAssistant, resp.ChangesMade)
	w.Refinement.AddMessage(msg)

	w.Refinement.UpdateQuestion(resp.RefinedQuestion)
	w.Questions.UpdateQuestion(turn.Question.ID, model.PatchFrom(resp.RefinedQuestion))

	if turn.ConversationID == "" {
		w.Refinement.SetConversationID(resp.ConversationID)
	}
	w.Refinement.IncrementTurn()
	w.Refinement.SetRefining(false)

	return msg, nil
}

// FailTurn records a failed exchange in the transcript and clears the
// in-flight flag. The turn counter is unchanged.
func (w *Workspace) FailTurn(turn Turn, message string) (model.Message, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.Refinement.ActiveSessionID() != turn.SessionID {
		return model.Message{}, ErrSessionSuperseded
	}

	msg := model.NewMessage(model.RoleAssistant, RefineFailurePrefix+message)
	w.Refinement.AddMessage(msg)
	w.Refinement.SetRefining(false)

	return msg, nil
}
