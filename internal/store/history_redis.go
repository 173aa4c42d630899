package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/capitalize-ai/question-studio/internal/model"
)

// RedisHistory stores the history as one JSON string under the history key.
type RedisHistory struct {
	client *redis.Client
	key    string
}

// NewRedisHistory wraps an existing redis client.
func NewRedisHistory(client *redis.Client, key string) *RedisHistory {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &RedisHistory{client: client, key: key}
}

// Load returns the stored sessions, or none when the key is absent.
func (h *RedisHistory) Load(ctx context.Context) ([]model.GenerationSession, error) {
	data, err := h.client.Get(ctx, h.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return decodeHistory(data)
}

// Save replaces the stored sessions. The key does not expire.
func (h *RedisHistory) Save(ctx context.Context, sessions []model.GenerationSession) error {
	data, err := encodeHistory(sessions)
	if err != nil {
		return err
	}
	if err := h.client.Set(ctx, h.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func (h *RedisHistory) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (h *RedisHistory) Close() error {
	return h.client.Close()
}
