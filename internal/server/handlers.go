package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kent8192/reinhardt-web-sub034/internal/autogen"
	"github.com/kent8192/reinhardt-web-sub034/internal/diff"
	"github.com/kent8192/reinhardt-web-sub034/internal/migration"
	"github.com/kent8192/reinhardt-web-sub034/internal/operation"
)

type migrationDTO struct {
	AppLabel     string                 `json:"app_label"`
	Name         string                 `json:"name"`
	Operations   []string               `json:"operations"`
	Dependencies []migration.Dependency `json:"dependencies,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

func toDTO(m *migration.Migration) migrationDTO {
	ops := make([]string, 0, len(m.Operations))
	for _, op := range m.Operations {
		ops = append(ops, op.Describe())
	}
	return migrationDTO{
		AppLabel:     m.AppLabel,
		Name:         m.Name,
		Operations:   ops,
		Dependencies: m.Dependencies,
		CreatedAt:    m.CreatedAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.source.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "service_unhealthy", "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListMigrations(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.List(r.Context(), s.cfg.AppLabel)
	if err != nil {
		s.logger.Error("list migrations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed", "failed to list migrations")
		return
	}
	out := make([]migrationDTO, 0, len(items))
	for _, m := range items {
		out = append(out, toDTO(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"migrations": out})
}

func (s *Server) handleGetMigration(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, err := s.repo.Get(r.Context(), s.cfg.AppLabel, name)
	if err != nil {
		if errors.Is(err, migration.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no such migration")
			return
		}
		s.logger.Error("get migration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "get_failed", "failed to load migration")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(m))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, err := s.repo.Get(r.Context(), s.cfg.AppLabel, name)
	if err != nil {
		if errors.Is(err, migration.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no such migration")
			return
		}
		s.logger.Error("plan failed", "error", err)
		writeError(w, http.StatusInternalServerError, "plan_failed", "failed to load migration")
		return
	}

	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = "forward"
	}

	var statements []string
	switch direction {
	case "forward":
		for _, op := range m.Operations {
			statements = append(statements, operation.Forward(op, s.d)...)
		}
	case "backward":
		for i := len(m.Operations) - 1; i >= 0; i-- {
			statements = append(statements, operation.Backward(m.Operations[i], s.d)...)
		}
	default:
		writeError(w, http.StatusBadRequest, "invalid_direction", "direction must be forward or backward")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":       m.Name,
		"direction":  direction,
		"dialect":    s.d.Name(),
		"statements": statements,
	})
}

func (s *Server) handleApplied(w http.ResponseWriter, r *http.Request) {
	records, err := s.rec.AppliedMigrations(r.Context())
	if err != nil {
		s.logger.Error("list applied failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ledger_failed", "failed to read ledger")
		return
	}
	type appliedDTO struct {
		AppLabel string    `json:"app_label"`
		Name     string    `json:"name"`
		Applied  time.Time `json:"applied"`
	}
	out := make([]appliedDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, appliedDTO{AppLabel: rec.AppLabel, Name: rec.Name, Applied: rec.Applied})
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": out})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	current, err := s.source.FetchSchema(ctx)
	if err != nil {
		s.logger.Error("introspection failed", "error", err)
		writeError(w, http.StatusInternalServerError, "introspection_failed", "failed to introspect database")
		return
	}
	result := diff.Detect(current, s.target)
	writeJSON(w, http.StatusOK, map[string]any{
		"changes": !result.Empty(),
		"summary": diff.Describe(result),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	current, err := s.source.FetchSchema(ctx)
	if err != nil {
		s.logger.Error("introspection failed", "error", err)
		writeError(w, http.StatusInternalServerError, "introspection_failed", "failed to introspect database")
		return
	}

	m, count, err := s.gen.Generate(ctx, s.cfg.AppLabel, current)
	if err != nil {
		if errors.Is(err, autogen.ErrNoChanges) {
			writeJSON(w, http.StatusOK, map[string]any{"changes": false})
			return
		}
		s.logger.Error("generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "generate_failed", "failed to generate migration")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"changes":    true,
		"name":       m.Name,
		"operations": count,
	})
}
