package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

// Notifier surfaces transient success and error messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// NotificationFeed keeps the most recent notifications for presentation to
// poll, and logs each one.
type NotificationFeed struct {
	logger *logger.Logger
	limit  int

	mu    sync.Mutex
	items []model.Notification
}

// NewNotificationFeed creates a feed holding at most limit notifications.
func NewNotificationFeed(limit int, log *logger.Logger) *NotificationFeed {
	if limit <= 0 {
		limit = 20
	}
	return &NotificationFeed{logger: log.Named("notify"), limit: limit}
}

// Success records a success notification.
func (f *NotificationFeed) Success(message string) {
	f.add(LevelSuccess, message)
	f.logger.Info("notification", zap.String("level", LevelSuccess), zap.String("message", message))
}

// Error records an error notification.
func (f *NotificationFeed) Error(message string) {
	f.add(LevelError, message)
	f.logger.Warn("notification", zap.String("level", LevelError), zap.String("message", message))
}

func (f *NotificationFeed) add(level, message string) {
	n := model.Notification{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]model.Notification(nil), f.items[over:]...)
	}
}

// Drain returns pending notifications, oldest first, and clears the feed.
func (f *NotificationFeed) Drain() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items
	f.items = nil
	if items == nil {
		return []model.Notification{}
	}
	return items
}
