package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/question-studio/internal/middleware"
	"github.com/capitalize-ai/question-studio/pkg/logger"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Health     *HealthHandler
	Generation *GenerationHandler
	Questions  *QuestionHandler
	Studio     *StudioHandler
	Stream     *StreamHandler
	UI         *UIHandler
}

// RouterConfig carries the middleware settings.
type RouterConfig struct {
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the studio HTTP API.
func NewRouter(h Handlers, cfg RouterConfig, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Routes that call the generation service are rate limited.
	r.Group(func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		r.Post("/generate/text", h.Generation.FromText)
		r.Post("/generate/document", h.Generation.FromDocument)
		r.Post("/similar", h.Generation.Similar)
		r.Post("/studio/refine", h.Studio.Refine)
	})

	r.Get("/similar", h.Generation.LastSimilar)

	r.Get("/questions", h.Questions.List)
	r.Patch("/questions/{id}", h.Questions.Update)
	r.Delete("/questions/{id}", h.Questions.Delete)
	r.Put("/selection", h.Questions.Select)

	r.Get("/session", h.Questions.Session)
	r.Delete("/session", h.Questions.ClearSession)
	r.Get("/history", h.Questions.History)
	r.Post("/history/{id}/open", h.Questions.OpenHistory)

	r.Route("/studio", func(r chi.Router) {
		r.Get("/", h.Studio.Get)
		r.Post("/", h.Studio.Start)
		r.Delete("/", h.Studio.Reset)
		r.Get("/stream", h.Stream.Stream)
	})

	r.Get("/ui", h.UI.State)
	r.Put("/ui/mode", h.UI.SetMode)
	r.Put("/ui/sidebar", h.UI.SetSidebar)
	r.Put("/ui/panels", h.UI.SetPanels)
	r.Get("/notifications", h.UI.Notifications)

	return r
}
