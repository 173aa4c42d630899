package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/question-studio/internal/model"
)

func TestInitSessionDiscardsPrevious(t *testing.T) {
	s := NewRefinementStore()
	first := s.InitSession(testQuestion("q-1"))
	s.AddMessage(model.NewMessage(model.RoleUser, "make it harder"))
	s.SetConversationID("conv-1")
	s.IncrementTurn()
	s.SetRefining(true)

	second := s.InitSession(testQuestion("q-2"))
	require.NotEqual(t, first, second)

	snap := s.Snapshot()
	require.Equal(t, second, snap.ID)
	require.Equal(t, "q-2", snap.Question.ID)
	require.Empty(t, snap.Messages)
	require.Empty(t, snap.ConversationID)
	require.Zero(t, snap.TurnNumber)
	require.False(t, snap.Refining)
}

func TestAddMessageTouchesUpdatedAt(t *testing.T) {
	s := NewRefinementStore()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.InitSession(testQuestion("q-1"))

	clock = clock.Add(time.Minute)
	require.True(t, s.AddMessage(model.NewMessage(model.RoleUser, "shorter options")))
	require.True(t, s.AddMessage(model.NewMessage(model.RoleAssistant, "Shortened options")))

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 2)
	require.Equal(t, model.RoleUser, snap.Messages[0].Role)
	require.Equal(t, clock, snap.UpdatedAt)
	require.True(t, snap.UpdatedAt.After(snap.CreatedAt))
}

func TestConversationIDIsSetOnce(t *testing.T) {
	s := NewRefinementStore()
	s.InitSession(testQuestion("q-1"))

	require.True(t, s.SetConversationID("abc"))
	require.False(t, s.SetConversationID("xyz"))
	require.Equal(t, "abc", s.Snapshot().ConversationID)
}

func TestUpdateQuestionKeepsIdentity(t *testing.T) {
	s := NewRefinementStore()
	s.InitSession(testQuestion("q-1"))

	refined := testQuestion("server-assigned")
	refined.QuestionText = "Name the capital of France."
	require.True(t, s.UpdateQuestion(refined))

	snap := s.Snapshot()
	require.Equal(t, "q-1", snap.Question.ID)
	require.Equal(t, "Name the capital of France.", snap.Question.QuestionText)
}

func TestOperationsWithoutSession(t *testing.T) {
	s := NewRefinementStore()
	require.False(t, s.AddMessage(model.NewMessage(model.RoleUser, "hi")))
	require.False(t, s.UpdateQuestion(testQuestion("q-1")))
	require.False(t, s.SetConversationID("abc"))
	s.IncrementTurn()
	s.SetRefining(true)
	require.Nil(t, s.Snapshot())
	require.Empty(t, s.ActiveSessionID())
}

func TestResetSession(t *testing.T) {
	s := NewRefinementStore()
	s.InitSession(testQuestion("q-1"))
	s.ResetSession()
	require.Nil(t, s.Snapshot())
}
