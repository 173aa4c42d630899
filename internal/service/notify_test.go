package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/question-studio/pkg/logger"
)

func TestNotificationFeedBounded(t *testing.T) {
	feed := NewNotificationFeed(3, logger.NewNop())
	for i := 0; i < 5; i++ {
		feed.Success(fmt.Sprintf("n%d", i))
	}
	feed.Error("boom")

	items := feed.Drain()
	require.Len(t, items, 3)
	assert.Equal(t, "n3", items[0].Message)
	assert.Equal(t, "boom", items[2].Message)
	assert.Equal(t, LevelError, items[2].Level)

	assert.Empty(t, feed.Drain())
}
