// Package main is the entry point for the question studio server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/config"
	"github.com/capitalize-ai/question-studio/internal/gateway"
	"github.com/capitalize-ai/question-studio/internal/handler"
	natsclient "github.com/capitalize-ai/question-studio/internal/nats"
	"github.com/capitalize-ai/question-studio/internal/service"
	"github.com/capitalize-ai/question-studio/internal/store"
	"github.com/capitalize-ai/question-studio/pkg/logger"
	"github.com/capitalize-ai/question-studio/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "studio: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting question studio", zap.String("api_url", cfg.APIURL))

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "question-studio", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	history, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer history.Close()

	questions := store.NewQuestionStore(history, log)
	if err := questions.Load(ctx); err != nil {
		// A corrupt or unreachable history must not keep the studio down.
		log.Warn("starting with empty history", zap.Error(err))
	}

	var (
		publisher  service.EventPublisher = service.NopPublisher{}
		natsClient *natsclient.Client
	)
	if cfg.NATSURL != "" {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			return fmt.Errorf("failed to ensure stream: %w", err)
		}
		publisher = streamManager
	}

	gw := gateway.New(cfg.APIURL, cfg.APITimeout, log)
	feed := service.NewNotificationFeed(50, log)
	workspace := store.NewWorkspace(questions, store.NewRefinementStore(), store.NewUIStore())

	generationSvc := service.NewGenerationService(gw, questions, feed, publisher, log)
	similaritySvc := service.NewSimilarityService(gw, feed, log)
	refinementSvc := service.NewRefinementService(gw, workspace, feed, publisher, log)

	router := handler.NewRouter(handler.Handlers{
		Health:     handler.NewHealthHandler(history, natsClient),
		Generation: handler.NewGenerationHandler(generationSvc, similaritySvc, log),
		Questions:  handler.NewQuestionHandler(workspace, log),
		Studio:     handler.NewStudioHandler(refinementSvc, workspace, log),
		Stream:     handler.NewStreamHandler(workspace.Refinement, log),
		UI:         handler.NewUIHandler(workspace.UI, feed),
	}, handler.RouterConfig{
		AllowedOrigins:    cfg.AllowedOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

func openHistory(cfg *config.Config) (store.HistoryRepository, error) {
	switch cfg.HistoryBackend {
	case config.HistoryBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return store.NewRedisHistory(client, cfg.HistoryKey), nil
	case config.HistoryBackendMemory:
		return store.NewMemoryHistory(), nil
	default:
		h, err := store.OpenSQLiteHistory(cfg.SQLitePath, cfg.HistoryKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		return h, nil
	}
}
