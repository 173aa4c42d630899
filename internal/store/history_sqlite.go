package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/capitalize-ai/question-studio/internal/model"
)

// SQLiteHistory stores the history as one JSON value in a key/value table.
type SQLiteHistory struct {
	db  *sql.DB
	key string
}

// OpenSQLiteHistory opens (and creates if needed) the history database.
func OpenSQLiteHistory(path, key string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	if key == "" {
		key = DefaultHistoryKey
	}
	return &SQLiteHistory{db: db, key: key}, nil
}

// Load returns the stored sessions, or none when nothing was saved yet.
func (h *SQLiteHistory) Load(ctx context.Context) ([]model.GenerationSession, error) {
	var value string
	err := h.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, h.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return decodeHistory([]byte(value))
}

// Save replaces the stored sessions.
func (h *SQLiteHistory) Save(ctx context.Context, sessions []model.GenerationSession) error {
	data, err := encodeHistory(sessions)
	if err != nil {
		return err
	}
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		h.key, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (h *SQLiteHistory) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// Close closes the database connection.
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}
