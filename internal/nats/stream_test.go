package nats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/question-studio/internal/model"
)

func TestSubjects(t *testing.T) {
	require.Equal(t, "studio.s-1.msg.user", MessageSubject("s-1", model.RoleUser))
	require.Equal(t, "studio.s-1.msg.assistant", MessageSubject("s-1", model.RoleAssistant))
	require.Equal(t, "studio.s-1.event.refined", EventSubject("s-1", model.EventTypeRefined))
}
