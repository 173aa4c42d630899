package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/question-studio/internal/model"
)

func TestSQLiteHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "studio.db")

	h, err := OpenSQLiteHistory(path, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	empty, err := h.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)
	require.NoError(t, h.Ping(ctx))

	require.NoError(t, h.Save(ctx, []model.GenerationSession{testSession("a", "q-1"), testSession("b", "q-2")}))
	require.NoError(t, h.Save(ctx, []model.GenerationSession{testSession("c", "q-3")}))

	reopened, err := OpenSQLiteHistory(path, DefaultHistoryKey)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	sessions, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "c", sessions[0].ID)
	require.Equal(t, "q-3", sessions[0].Questions[0].ID)
	require.Equal(t, testSession("c", "q-3").GeneratedAt, sessions[0].GeneratedAt.UTC())
}

func TestHistoryDocumentShape(t *testing.T) {
	data, err := encodeHistory(nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"state":{"sessions":[]},"version":0}`, string(data))

	sessions, err := decodeHistory([]byte(`{"state":{"sessions":[{"id":"x","source_type":"pdf","questions":[],"generated_at":"2026-01-01T00:00:00Z"}]},"version":0}`))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "document", string(sessions[0].SourceType))
}
