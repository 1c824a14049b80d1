// Package autogen orchestrates differ, operation set and repository into
// generated migrations.
package autogen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kent8192/reinhardt-web-sub034/internal/diff"
	"github.com/kent8192/reinhardt-web-sub034/internal/migration"
	"github.com/kent8192/reinhardt-web-sub034/internal/schema"
)

// ErrNoChanges is the expected outcome when the current schema already matches
// the target. Callers branch on it instead of treating it as a failure; it is
// what keeps repeated generation from writing empty migrations.
var ErrNoChanges = errors.New("no changes detected")

// Generator produces migrations that move a current schema toward the target
// schema fixed at construction time.
type Generator struct {
	target schema.Schema
	repo   migration.Repository
	logger *slog.Logger
	now    func() time.Time
}

// New builds a Generator. The repository receives every generated migration.
func New(target schema.Schema, repo migration.Repository, logger *slog.Logger) *Generator {
	return &Generator{target: target, repo: repo, logger: logger, now: time.Now}
}

// Generate diffs current against the target schema and persists the resulting
// migration under appLabel. It returns the migration and its operation count,
// or ErrNoChanges when the schemas are structurally identical. Repository
// failures pass through untouched.
func (g *Generator) Generate(ctx context.Context, appLabel string, current schema.Schema) (*migration.Migration, int, error) {
	result := diff.Detect(current, g.target)
	ops := diff.Operations(result, current, g.target)
	if len(ops) == 0 {
		return nil, 0, ErrNoChanges
	}

	existing, err := g.repo.List(ctx, appLabel)
	if err != nil {
		return nil, 0, err
	}

	now := g.now().UTC()
	m := &migration.Migration{
		ID:         uuid.New(),
		AppLabel:   appLabel,
		Name:       nextName(existing, now),
		Operations: ops,
		CreatedAt:  now,
	}
	if len(existing) > 0 {
		last := existing[len(existing)-1]
		m.Dependencies = []migration.Dependency{{AppLabel: appLabel, Name: last.Name}}
	}

	if err := g.repo.Save(ctx, m); err != nil {
		return nil, 0, err
	}
	g.logger.Info("migration generated",
		"app_label", appLabel,
		"name", m.Name,
		"operations", len(ops),
	)
	return m, len(ops), nil
}

// nextName produces a sequential, time-stamped name like 0003_auto_20260831_1204.
func nextName(existing []*migration.Migration, now time.Time) string {
	seq := 1
	for _, m := range existing {
		if n, ok := leadingNumber(m.Name); ok && n >= seq {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%04d_auto_%s", seq, now.Format("20060102_1504"))
}

func leadingNumber(name string) (int, bool) {
	head, _, found := strings.Cut(name, "_")
	if !found {
		head = name
	}
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return n, true
}
