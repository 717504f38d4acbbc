// Package fakebackend serves the dispute REST API from memory with a canned
// mediator. It backs local development and end-to-end tests of the client.
package fakebackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"SettleKaro/config"
	"SettleKaro/pkg/health"
	"SettleKaro/pkg/logger"
	"SettleKaro/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Repo     *Memory
	Mediator Mediator
	Log      *slog.Logger
	Now      func() time.Time
}

func (o *Options) defaults() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Repo == nil {
		o.Repo = NewMemory(o.Now)
	}
	if o.Mediator == nil {
		o.Mediator = CannedMediator{}
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
}

func NewGinEngine(l *slog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(logger.CorrelationMiddleware(), metrics.GinMiddleware("/metrics"), logger.GinLogger(l), gin.Recovery())
	return engine
}

// NewRouter builds the engine with every route of the dispute API.
func NewRouter(opts Options) *gin.Engine {
	opts.defaults()
	h := NewDisputeHandler(opts.Repo, opts.Mediator, opts.Log)

	engine := NewGinEngine(opts.Log)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api")
	api.GET("/health", health.LivenessHandler(opts.Now))
	api.GET("/disputes", h.List)
	api.POST("/disputes", h.Create)
	api.GET("/disputes/:dispute_id", h.Get)
	api.PUT("/disputes/:dispute_id/status", h.UpdateStatus)
	api.POST("/disputes/:dispute_id/mediate", h.Mediate)
	api.POST("/disputes/:dispute_id/chat", h.Chat)
	api.GET("/disputes/:dispute_id/chat/history", h.ChatHistory)
	return engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.FakeBackendConfig, l *slog.Logger) error {
	repo := NewMemory(time.Now)
	if cfg.Seed {
		Seed(repo)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewRouter(Options{Repo: repo, Log: l}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("starting fake dispute backend", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("fake backend: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down fake dispute backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("fake backend shutdown: %w", err)
	}
	return nil
}
