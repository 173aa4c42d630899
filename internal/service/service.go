// Package service composes gateway calls with store updates and user
// notifications.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/capitalize-ai/question-studio/internal/gateway"
	"github.com/capitalize-ai/question-studio/internal/model"
)

// Gateway is the subset of the generation service client the use cases need.
type Gateway interface {
	GenerateFromText(ctx context.Context, req model.GenerateFromTextRequest) (*model.GenerateResponse, error)
	GenerateFromDocument(ctx context.Context, filename string, file io.Reader, opts model.GenerateOptions) (*model.GenerateResponse, error)
	GenerateSimilar(ctx context.Context, req model.SimilarRequest) (*model.SimilarResponse, error)
	Refine(ctx context.Context, req model.RefineRequest) (*model.RefineResponse, error)
}

// EventPublisher mirrors studio activity to an external stream.
type EventPublisher interface {
	PublishMessage(ctx context.Context, sessionID string, msg model.Message) error
	PublishEvent(ctx context.Context, event model.StudioEvent) error
}

// NopPublisher discards everything.
type NopPublisher struct{}

func (NopPublisher) PublishMessage(context.Context, string, model.Message) error { return nil }
func (NopPublisher) PublishEvent(context.Context, model.StudioEvent) error         { return nil }

// userMessage extracts the text to show for err.
func userMessage(err error, fallback string) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
