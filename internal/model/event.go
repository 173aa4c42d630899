package model

import (
	"time"
)

// EventType represents the type of studio event.
type EventType string

const (
	EventTypeGenerated  EventType = "generated"
	EventTypeRefined    EventType = "refined"
	EventTypeError      EventType = "error"
	EventTypeSuperseded EventType = "superseded"
)

// StudioEvent records something that happened to a generation or refinement session.
type StudioEvent struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Type      EventType      `json:"type"`
	Reason    string         `json:"reason,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
