// Package migration defines the generated migration bundle and the storage
// contract for persisting it.
package migration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kent8192/reinhardt-web-sub034/internal/operation"
)

// ErrNotFound is returned when no migration exists for an (app label, name)
// pair.
var ErrNotFound = errors.New("migration not found")

// Dependency names another migration this one must run after.
type Dependency struct {
	AppLabel string `json:"app_label"`
	Name     string `json:"name"`
}

// Migration is a named, app-scoped, ordered bundle of operations. It is never
// mutated after creation; further changes produce a new migration.
type Migration struct {
	ID           uuid.UUID
	AppLabel     string
	Name         string
	Operations   []operation.Operation
	Dependencies []Dependency
	CreatedAt    time.Time
}

// Key identifies a migration within a repository.
type Key struct {
	AppLabel string
	Name     string
}

// Repository stores generated migrations keyed by (app label, name). Save
// overwrites an existing entry with the same key; name uniqueness policy is
// the caller's concern.
type Repository interface {
	Save(ctx context.Context, m *Migration) error
	Get(ctx context.Context, appLabel, name string) (*Migration, error)
	List(ctx context.Context, appLabel string) ([]*Migration, error)
	Exists(ctx context.Context, appLabel, name string) (bool, error)
}
