// Package server exposes a small JSON API over the migration engine: health,
// repository contents, ledger state, diffing and generation.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kent8192/reinhardt-web-sub034/internal/autogen"
	"github.com/kent8192/reinhardt-web-sub034/internal/config"
	"github.com/kent8192/reinhardt-web-sub034/internal/dialect"
	"github.com/kent8192/reinhardt-web-sub034/internal/migration"
	"github.com/kent8192/reinhardt-web-sub034/internal/recorder"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// SchemaSource supplies the live database's current state. db.Conn satisfies
// it.
type SchemaSource interface {
	FetchSchema(ctx context.Context) (schema.Schema, error)
	Ping(ctx context.Context) error
}

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	repo   migration.Repository
	rec    recorder.Recorder
	gen    *autogen.Generator
	source SchemaSource
	target schema.Schema
	d      dialect.Dialect
}

func New(cfg config.Config, logger *slog.Logger, repo migration.Repository, rec recorder.Recorder, gen *autogen.Generator, source SchemaSource, target schema.Schema, d dialect.Dialect) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		rec:    rec,
		gen:    gen,
		source: source,
		target: target,
		d:      d,
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddress,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.cfg.HTTPAddress)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// Handler builds the router; split from Start for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(RequestLogger(s.logger))

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", s.handleHealth)
		api.Get("/migrations", s.handleListMigrations)
		api.Get("/migrations/{name}", s.handleGetMigration)
		api.Get("/migrations/{name}/plan", s.handlePlan)
		api.Get("/applied", s.handleApplied)
		api.Get("/diff", s.handleDiff)
		api.Post("/migrations/generate", s.handleGenerate)
	})
	return r
}
