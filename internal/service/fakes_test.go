package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

type fakeGateway struct {
	mu sync.Mutex

	generate    *model.GenerateResponse
	similar     *model.SimilarResponse
	refine      func(req model.RefineRequest) (*model.RefineResponse, error)
	err         error
	refineCalls []model.RefineRequest
	filenames   []string

	// release, when set, blocks Refine until it is closed.
	release chan struct{}
	entered chan struct{}
}

func (f *fakeGateway) GenerateFromText(_ context.Context, _ model.GenerateFromTextRequest) (*model.GenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.generate, nil
}

func (f *fakeGateway) GenerateFromDocument(_ context.Context, filename string, file io.Reader, _ model.GenerateOptions) (*model.GenerateResponse, error) {
	f.mu.Lock()
	f.filenames = append(f.filenames, filename)
	f.mu.Unlock()
	if _, err := io.ReadAll(file); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.generate, nil
}

func (f *fakeGateway) GenerateSimilar(_ context.Context, _ model.SimilarRequest) (*model.SimilarResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.similar, nil
}

func (f *fakeGateway) Refine(_ context.Context, req model.RefineRequest) (*model.RefineResponse, error) {
	f.mu.Lock()
	f.refineCalls = append(f.refineCalls, req)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.refine(req)
}

func (f *fakeGateway) calls() []model.RefineRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.RefineRequest(nil), f.refineCalls...)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []model.Message
	events   []model.StudioEvent
}

func (p *recordingPublisher) PublishMessage(_ context.Context, _ string, msg model.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) PublishEvent(_ context.Context, event model.StudioEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []model.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Message(nil), p.messages...)
}

func (p *recordingPublisher) eventTypes() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func testQuestion(id, text string) model.Question {
	return model.Question{
		ID:            id,
		QuestionText:  text,
		QuestionType:  model.QuestionTypeMultipleChoice,
		Difficulty:    model.DifficultyMedium,
		Topic:         "Photosynthesis",
		Explanation:   "Chlorophyll absorbs light energy.",
		CorrectAnswer: "Chlorophyll",
		Options: []model.QuestionOption{
			{Label: "A", Text: "Chlorophyll", IsCorrect: true},
			{Label: "B", Text: "Keratin"},
		},
		ConfidenceScore: 0.9,
	}
}

type harness struct {
	gateway    *fakeGateway
	publisher  *recordingPublisher
	feed       *NotificationFeed
	workspace  *store.Workspace
	generation *GenerationService
	similarity *SimilarityService
	refinement *RefinementService
}

func newHarness() *harness {
	log := logger.NewNop()
	gw := &fakeGateway{}
	pub := &recordingPublisher{}
	feed := NewNotificationFeed(10, log)
	qs := store.NewQuestionStore(store.NewMemoryHistory(), log)
	ws := store.NewWorkspace(qs, store.NewRefinementStore(), store.NewUIStore())

	gen := NewGenerationService(gw, qs, feed, pub, log)
	gen.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return &harness{
		gateway:    gw,
		publisher:  pub,
		feed:       feed,
		workspace:  ws,
		generation: gen,
		similarity: NewSimilarityService(gw, feed, log),
		refinement: NewRefinementService(gw, ws, feed, pub, log),
	}
}

// seed commits one generation session holding the given questions.
func (h *harness) seed(questions ...model.Question) {
	h.workspace.Questions.AddSession(model.GenerationSession{
		ID:          "gen-1",
		SourceType:  model.SourceText,
		SourceName:  textSourceName,
		Questions:   questions,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
}
