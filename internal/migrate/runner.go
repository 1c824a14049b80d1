// Package migrate drives a migration against a live database: it executes the
// rendered statements in order and keeps the ledger in step.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kent8192/reinhardt-web-sub034/internal/dialect"
	"github.com/kent8192/reinhardt-web-sub034/internal/migration"
	"github.com/kent8192/reinhardt-web-sub034/internal/operation"
	"github.com/kent8192/reinhardt-web-sub034/internal/recorder"
)

// ErrNotApplied is returned when rolling back a migration the ledger has no
// record of.
var ErrNotApplied = errors.New("migration not applied")

// ErrDependencyNotApplied is returned when a migration's dependency has not
// been applied yet.
var ErrDependencyNotApplied = errors.New("dependency not applied")

// Executor is the statement side of a database connection. db.Conn satisfies
// it.
type Executor interface {
	Execute(ctx context.Context, stmt string, args ...any) error
	Dialect() dialect.Dialect
}

// Runner applies and rolls back migrations. Statements run sequentially in
// the order the operation sequence dictates; operations are not reorderable
// at execution time.
type Runner struct {
	exec   Executor
	rec    recorder.Recorder
	logger *slog.Logger
}

func NewRunner(exec Executor, rec recorder.Recorder, logger *slog.Logger) *Runner {
	return &Runner{exec: exec, rec: rec, logger: logger}
}

// Apply executes every forward statement of m in order, then records it. An
// already-applied migration is skipped without touching the database.
func (r *Runner) Apply(ctx context.Context, m *migration.Migration) error {
	if err := r.rec.EnsureLedgerExists(ctx); err != nil {
		return err
	}

	applied, err := r.rec.IsApplied(ctx, m.AppLabel, m.Name)
	if err != nil {
		return err
	}
	if applied {
		r.logger.Info("migration already applied, skipping", "app_label", m.AppLabel, "name", m.Name)
		return nil
	}

	for _, dep := range m.Dependencies {
		depApplied, err := r.rec.IsApplied(ctx, dep.AppLabel, dep.Name)
		if err != nil {
			return err
		}
		if !depApplied {
			return fmt.Errorf("%w: %s.%s", ErrDependencyNotApplied, dep.AppLabel, dep.Name)
		}
	}

	d := r.exec.Dialect()
	for _, op := range m.Operations {
		for _, stmt := range operation.Forward(op, d) {
			if err := r.exec.Execute(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %w", op.Describe(), err)
			}
		}
		r.logger.Debug("operation applied", "operation", op.Describe())
	}

	if err := r.rec.RecordApplied(ctx, m.AppLabel, m.Name); err != nil {
		return err
	}
	r.logger.Info("migration applied", "app_label", m.AppLabel, "name", m.Name, "operations", len(m.Operations))
	return nil
}

// Rollback executes the backward statements in reverse operation order, then
// removes the ledger record.
func (r *Runner) Rollback(ctx context.Context, m *migration.Migration) error {
	if err := r.rec.EnsureLedgerExists(ctx); err != nil {
		return err
	}

	applied, err := r.rec.IsApplied(ctx, m.AppLabel, m.Name)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: %s.%s", ErrNotApplied, m.AppLabel, m.Name)
	}

	d := r.exec.Dialect()
	for i := len(m.Operations) - 1; i >= 0; i-- {
		op := m.Operations[i]
		for _, stmt := range operation.Backward(op, d) {
			if err := r.exec.Execute(ctx, stmt); err != nil {
				return fmt.Errorf("reverse %s: %w", op.Describe(), err)
			}
		}
		r.logger.Debug("operation reversed", "operation", op.Describe())
	}

	if err := r.rec.Unapply(ctx, m.AppLabel, m.Name); err != nil {
		return err
	}
	r.logger.Info("migration rolled back", "app_label", m.AppLabel, "name", m.Name)
	return nil
}
