// Package recorder tracks which migrations have been applied. The ledger only
// records completion; executing a migration's statements is the applying
// driver's job.
package recorder

import (
	"context"
	"time"
)

// Record is one ledger entry: a migration that has been applied.
type Record struct {
	AppLabel string
	Name     string
	Applied  time.Time
}

// Recorder is the ledger contract. Per (app label, name) pair the only states
// are unrecorded and applied: RecordApplied moves forward, Unapply moves back.
type Recorder interface {
	// EnsureLedgerExists bootstraps the ledger. It is idempotent and safe to
	// call concurrently.
	EnsureLedgerExists(ctx context.Context) error
	IsApplied(ctx context.Context, appLabel, name string) (bool, error)
	// RecordApplied marks the pair applied. Recording an already-applied pair
	// is a no-op, never a duplicate entry.
	RecordApplied(ctx context.Context, appLabel, name string) error
	// Unapply removes the pair's record; this is the sole rollback bookkeeping.
	Unapply(ctx context.Context, appLabel, name string) error
	// AppliedMigrations returns all records ordered by application time
	// ascending.
	AppliedMigrations(ctx context.Context) ([]Record, error)
}

// Executor is the statement-execution capability the database-backed ledger
// runs on. It is satisfied by db.Conn and by test fakes.
type Executor interface {
	Execute(ctx context.Context, stmt string, args ...any) error
	FetchAll(ctx context.Context, stmt string, args ...any) ([][]any, error)
}
