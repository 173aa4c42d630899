package store

import (
	"fmt"
	"sync"

	"github.com/capitalize-ai/question-studio/internal/model"
)

// UIStore holds presentation state: the active mode, the sidebar and the
// studio pane proportions.
type UIStore struct {
	mu    sync.RWMutex
	state model.UIState
}

// NewUIStore starts in the document workspace with the sidebar open.
func NewUIStore() *UIStore {
	return &UIStore{state: model.UIState{
		ViewMode:    model.ViewPDFWorkspace,
		SidebarOpen: true,
		PanelSizes:  model.PanelSizes{Chat: 40, Preview: 60},
	}}
}

// SetViewMode switches the active mode.
func (s *UIStore) SetViewMode(mode model.ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	s.mu.Lock()
	s.state.ViewMode = mode
	s.mu.Unlock()
	return nil
}

// ToggleSidebar flips the sidebar and returns the new value.
func (s *UIStore) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SidebarOpen = !s.state.SidebarOpen
	return s.state.SidebarOpen
}

// SetSidebarOpen sets the sidebar visibility.
func (s *UIStore) SetSidebarOpen(open bool) {
	s.mu.Lock()
	s.state.SidebarOpen = open
	s.mu.Unlock()
}

// SetPanelSizes sets the two pane proportions.
func (s *UIStore) SetPanelSizes(sizes model.PanelSizes) error {
	if sizes.Chat <= 0 || sizes.Preview <= 0 {
		return fmt.Errorf("panel sizes must be positive, got %d/%d", sizes.Chat, sizes.Preview)
	}
	s.mu.Lock()
	s.state.PanelSizes = sizes
	s.mu.Unlock()
	return nil
}

// State returns a snapshot.
func (s *UIStore) State() model.UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
