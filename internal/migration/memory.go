package migration

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps migrations in a map guarded by a mutex. Concurrent
// saves on the same key are last-write-wins, never a torn write.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[Key]*Migration
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[Key]*Migration)}
}

func (r *MemoryRepository) Save(_ context.Context, m *Migration) error {
	copied := *m
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[Key{AppLabel: m.AppLabel, Name: m.Name}] = &copied
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, appLabel, name string) (*Migration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[Key{AppLabel: appLabel, Name: name}]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *MemoryRepository) List(_ context.Context, appLabel string) ([]*Migration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Migration
	for key, m := range r.entries {
		if key.AppLabel != appLabel {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Exists(_ context.Context, appLabel, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[Key{AppLabel: appLabel, Name: name}]
	return ok, nil
}
