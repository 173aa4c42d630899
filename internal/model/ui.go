package model

import "time"

// ViewMode is the active top-level mode of the studio.
type ViewMode string

const (
	ViewPDFWorkspace ViewMode = "pdf-workspace"
	ViewSimilarity   ViewMode = "similarity"
	ViewStudio       ViewMode = "studio"
)

// Valid reports whether m is one of the three modes.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewPDFWorkspace, ViewSimilarity, ViewStudio:
		return true
	}
	return false
}

// PanelSizes are the relative widths of the two studio panes.
type PanelSizes struct {
	Chat    int `json:"chat"`
	Preview int `json:"preview"`
}

// UIState is a snapshot of the presentation state.
type UIState struct {
	ViewMode    ViewMode   `json:"view_mode"`
	SidebarOpen bool       `json:"sidebar_open"`
	PanelSizes  PanelSizes `json:"panel_sizes"`
}

// Notification is a transient message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
