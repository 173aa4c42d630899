package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/question-studio/internal/model"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	qs, _ := newTestQuestionStore()
	qs.AddSession(testSession("session-1", "q-1", "q-2"))
	return NewWorkspace(qs, NewRefinementStore(), NewUIStore())
}

func TestWorkspaceUpdateReachesAllCopies(t *testing.T) {
	w := newTestWorkspace(t)
	_, err := w.StartRefinement("q-1")
	require.NoError(t, err)

	ok := w.UpdateQuestion("q-1", model.QuestionPatch{
		Explanation:     ptr("Paris has been the capital since 987."),
		ConfidenceScore: ptr(0.8),
	})
	require.True(t, ok)

	flat, _ := w.Questions.Question("q-1")
	inSession := w.Questions.CurrentSession().Questions[0]
	inRefinement := w.Refinement.Snapshot().Question

	require.Equal(t, "Paris has been the capital since 987.", flat.Explanation)
	require.Equal(t, flat, inSession)
	require.Equal(t, flat, inRefinement)
}

func TestStartRefinementUnknownQuestion(t *testing.T) {
	w := newTestWorkspace(t)
	_, err := w.StartRefinement("nope")
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestBeginTurnPreconditions(t *testing.T) {
	w := newTestWorkspace(t)

	_, err := w.BeginTurn("make it harder")
	require.ErrorIs(t, err, ErrNoQuestionSelected)

	_, err = w.StartRefinement("q-1")
	require.NoError(t, err)

	turn, err := w.BeginTurn("make it harder")
	require.NoError(t, err)
	require.Equal(t, "q-1", turn.Question.ID)
	require.Equal(t, model.RoleUser, turn.UserMessage.Role)
	require.Equal(t, "make it harder", turn.UserMessage.Content)
	require.Equal(t, turn.UserMessage, w.Refinement.Snapshot().Messages[0])
	require.Empty(t, turn.ConversationID)
	require.True(t, w.Refinement.Snapshot().Refining)

	_, err = w.BeginTurn("again")
	require.ErrorIs(t, err, ErrRefinementInFlight)
	require.Len(t, w.Refinement.Snapshot().Messages, 1)
}

func TestCompleteTurnCommitsEverything(t *testing.T) {
	w := newTestWorkspace(t)
	_, err := w.StartRefinement("q-1")
	require.NoError(t, err)

	for i, conv := range []string{"conv-1", "conv-ignored"} {
		turn, err := w.BeginTurn("tweak")
		require.NoError(t, err)

		refined := testQuestion("q-1")
		refined.QuestionText = "Refined text"
		refined.Difficulty = model.DifficultyHard
		_, err = w.CompleteTurn(turn, &model.RefineResponse{
			ConversationID:  conv,
			RefinedQuestion: refined,
			ChangesMade:     "Raised difficulty",
			TurnNumber:      i + 1,
		})
		require.NoError(t, err)
	}

	snap := w.Refinement.Snapshot()
	require.Equal(t, 2, snap.TurnNumber)
	require.Len(t, snap.Messages, 4)
	require.Equal(t, "conv-1", snap.ConversationID)
	require.False(t, snap.Refining)

	flat, _ := w.Questions.Question("q-1")
	require.Equal(t, "Refined text", flat.QuestionText)
	require.Equal(t, model.DifficultyHard, flat.Difficulty)
	require.Equal(t, flat, snap.Question)
}

func TestFailTurnRecordsMessage(t *testing.T) {
	w := newTestWorkspace(t)
	_, err := w.StartRefinement("q-1")
	require.NoError(t, err)

	turn, err := w.BeginTurn("make it harder")
	require.NoError(t, err)
	msg, err := w.FailTurn(turn, "rate limited")
	require.NoError(t, err)
	require.Equal(t, "Sorry, I couldn't refine the question: rate limited", msg.Content)

	snap := w.Refinement.Snapshot()
	require.Zero(t, snap.TurnNumber)
	require.False(t, snap.Refining)
	require.Len(t, snap.Messages, 2)
	require.Equal(t, model.RoleAssistant, snap.Messages[1].Role)
}

func TestSupersededTurnIsDropped(t *testing.T) {
	w := newTestWorkspace(t)
	_, err := w.StartRefinement("q-1")
	require.NoError(t, err)
	turn, err := w.BeginTurn("make it harder")
	require.NoError(t, err)

	newID, err := w.StartRefinement("q-2")
	require.NoError(t, err)

	refined := testQuestion("q-1")
	refined.QuestionText = "stale"
	_, err = w.CompleteTurn(turn, &model.RefineResponse{ConversationID: "conv-1", RefinedQuestion: refined, ChangesMade: "x"})
	require.ErrorIs(t, err, ErrSessionSuperseded)
	_, err = w.FailTurn(turn, "late")
	require.ErrorIs(t, err, ErrSessionSuperseded)

	snap := w.Refinement.Snapshot()
	require.Equal(t, newID, snap.ID)
	require.Empty(t, snap.Messages)
	require.Empty(t, snap.ConversationID)

	flat, _ := w.Questions.Question("q-1")
	require.NotEqual(t, "stale", flat.QuestionText)
}
