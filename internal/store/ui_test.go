package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/question-studio/internal/model"
)

func TestUIStoreDefaults(t *testing.T) {
	s := NewUIStore()
	st := s.State()
	require.Equal(t, model.ViewPDFWorkspace, st.ViewMode)
	require.True(t, st.SidebarOpen)
	require.Equal(t, model.PanelSizes{Chat: 40, Preview: 60}, st.PanelSizes)
}

func TestUIStoreSetters(t *testing.T) {
	s := NewUIStore()

	require.NoError(t, s.SetViewMode(model.ViewStudio))
	require.Error(t, s.SetViewMode("settings"))
	require.Equal(t, model.ViewStudio, s.State().ViewMode)

	require.False(t, s.ToggleSidebar())
	s.SetSidebarOpen(true)
	require.True(t, s.State().SidebarOpen)

	require.NoError(t, s.SetPanelSizes(model.PanelSizes{Chat: 30, Preview: 70}))
	require.Error(t, s.SetPanelSizes(model.PanelSizes{Chat: 0, Preview: 100}))
	require.Equal(t, 30, s.State().PanelSizes.Chat)
}
