package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/question-studio/internal/model"
)

// newTestRedis connects to STUDIO_TEST_REDIS_ADDR and skips when no server
// is reachable.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("STUDIO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STUDIO_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis at %s unavailable: %v", addr, err)
	}
	return client
}

func TestRedisHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	key := "studio-test:" + uuid.NewString()
	t.Cleanup(func() {
		client.Del(context.Background(), key)
		_ = client.Close()
	})

	h := NewRedisHistory(client, key)
	require.NoError(t, h.Ping(ctx))

	empty, err := h.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	require.NoError(t, h.Save(ctx, []model.GenerationSession{testSession("a", "q-1"), testSession("b", "q-2")}))
	require.NoError(t, h.Save(ctx, []model.GenerationSession{testSession("c", "q-3", "q-4")}))

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	require.Equal(t, time.Duration(-1), ttl)

	sessions, err := NewRedisHistory(client, key).Load(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "c", sessions[0].ID)
	require.Len(t, sessions[0].Questions, 2)
	require.Equal(t, testSession("c").GeneratedAt, sessions[0].GeneratedAt.UTC())
}

func TestRedisHistoryFeedsQuestionStore(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	key := "studio-test:" + uuid.NewString()
	t.Cleanup(func() {
		client.Del(context.Background(), key)
		_ = client.Close()
	})

	repo := NewRedisHistory(client, key)
	qs := NewQuestionStore(repo, nopLogger())
	qs.AddSession(testSession("s-1", "q-1"))

	reloaded := NewQuestionStore(repo, nopLogger())
	require.NoError(t, reloaded.Load(ctx))
	history := reloaded.History()
	require.Len(t, history, 1)
	require.Equal(t, "s-1", history[0].ID)
}
