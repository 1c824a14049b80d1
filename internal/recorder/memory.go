package recorder

import (
	"context"
	"sync"
	"time"
)

// MemoryRecorder backs the ledger with an ordered in-memory slice. Used in
// tests and in environments without a persistent store.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records []Record
	now     func() time.Time
}

// NewMemoryRecorder returns an empty in-memory ledger.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{now: time.Now}
}

func (r *MemoryRecorder) EnsureLedgerExists(context.Context) error { return nil }

func (r *MemoryRecorder) IsApplied(_ context.Context, appLabel, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index(appLabel, name) >= 0, nil
}

func (r *MemoryRecorder) RecordApplied(_ context.Context, appLabel, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index(appLabel, name) >= 0 {
		return nil
	}
	r.records = append(r.records, Record{
		AppLabel: appLabel,
		Name:     name,
		Applied:  r.now().UTC(),
	})
	return nil
}

func (r *MemoryRecorder) Unapply(_ context.Context, appLabel, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(appLabel, name); i >= 0 {
		r.records = append(r.records[:i], r.records[i+1:]...)
	}
	return nil
}

func (r *MemoryRecorder) AppliedMigrations(context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

// index assumes the lock is held.
func (r *MemoryRecorder) index(appLabel, name string) int {
	for i, rec := range r.records {
		if rec.AppLabel == appLabel && rec.Name == name {
			return i
		}
	}
	return -1
}
