package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kent8192/reinhardt-web-sub034/internal/operation"
)

// FilesystemRepository persists migrations as JSON manifests under
// <root>/<app label>/<name>.json. Writes go through a temp file plus rename so
// a concurrent reader never observes a torn manifest.
type FilesystemRepository struct {
	root string
	mu   sync.Mutex
}

type manifest struct {
	ID           string          `json:"id"`
	AppLabel     string          `json:"app_label"`
	Name         string          `json:"name"`
	Dependencies []Dependency    `json:"dependencies,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Operations   json.RawMessage `json:"operations"`
}

// NewFilesystemRepository creates the root directory if needed.
func NewFilesystemRepository(root string) (*FilesystemRepository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create repository root: %w", err)
	}
	return &FilesystemRepository{root: root}, nil
}

func (r *FilesystemRepository) Save(_ context.Context, m *Migration) error {
	ops, err := operation.MarshalList(m.Operations)
	if err != nil {
		return fmt.Errorf("encode operations: %w", err)
	}
	data, err := json.MarshalIndent(manifest{
		ID:           m.ID.String(),
		AppLabel:     m.AppLabel,
		Name:         m.Name,
		Dependencies: m.Dependencies,
		CreatedAt:    m.CreatedAt,
		Operations:   ops,
	}, "", "  ")
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Join(r.root, safeName(m.AppLabel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(dir, safeName(m.Name)+".json")
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (r *FilesystemRepository) Get(_ context.Context, appLabel, name string) (*Migration, error) {
	path := filepath.Join(r.root, safeName(appLabel), safeName(name)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return decodeManifest(data)
}

func (r *FilesystemRepository) List(_ context.Context, appLabel string) ([]*Migration, error) {
	dir := filepath.Join(r.root, safeName(appLabel))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []*Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read manifest %s: %w", e.Name(), err)
		}
		m, err := decodeManifest(data)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", e.Name(), err)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FilesystemRepository) Exists(_ context.Context, appLabel, name string) (bool, error) {
	path := filepath.Join(r.root, safeName(appLabel), safeName(name)+".json")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func decodeManifest(data []byte) (*Migration, error) {
	var man manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	ops, err := operation.UnmarshalList(man.Operations)
	if err != nil {
		return nil, fmt.Errorf("decode operations: %w", err)
	}
	id, err := uuid.Parse(man.ID)
	if err != nil {
		return nil, fmt.Errorf("parse migration id: %w", err)
	}
	return &Migration{
		ID:           id,
		AppLabel:     man.AppLabel,
		Name:         man.Name,
		Operations:   ops,
		Dependencies: man.Dependencies,
		CreatedAt:    man.CreatedAt,
	}, nil
}

func safeName(name string) string {
	name = strings.TrimSpace(name)
	return strings.ReplaceAll(name, " ", "_")
}
