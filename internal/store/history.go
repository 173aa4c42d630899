// Package store holds the studio's state containers and the durable
// generation history.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/capitalize-ai/question-studio/internal/model"
)

// DefaultHistoryKey is the namespaced key the history is stored under.
const DefaultHistoryKey = "socratic-questions"

// HistoryRepository persists the bounded generation history.
type HistoryRepository interface {
	Load(ctx context.Context) ([]model.GenerationSession, error)
	Save(ctx context.Context, sessions []model.GenerationSession) error
	Ping(ctx context.Context) error
	Close() error
}

// persistedHistory is the JSON document stored under the history key.
type persistedHistory struct {
	State struct {
		Sessions []model.GenerationSession `json:"sessions"`
	} `json:"state"`
	Version int `json:"version"`
}

func encodeHistory(sessions []model.GenerationSession) ([]byte, error) {
	var doc persistedHistory
	doc.State.Sessions = sessions
	if doc.State.Sessions == nil {
		doc.State.Sessions = []model.GenerationSession{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return data, nil
}

func decodeHistory(data []byte) ([]model.GenerationSession, error) {
	var doc persistedHistory
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return doc.State.Sessions, nil
}

// MemoryHistory keeps the history in process memory. It does not survive a
// restart and is used for tests and HISTORY_BACKEND=memory.
type MemoryHistory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryHistory creates an empty in-memory repository.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Load returns the stored sessions.
func (m *MemoryHistory) Load(ctx context.Context) ([]model.GenerationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return decodeHistory(m.data)
}

// Save replaces the stored sessions.
func (m *MemoryHistory) Save(ctx context.Context, sessions []model.GenerationSession) error {
	data, err := encodeHistory(sessions)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (m *MemoryHistory) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryHistory) Close() error { return nil }
