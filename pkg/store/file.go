package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
)

// FileStore keeps each layout as an indented JSON file named <id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/ascent/layouts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "ascent", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create layout dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) layoutPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Save writes l to <id>.json.
func (s *FileStore) Save(ctx context.Context, l *layout.Layout) error {
	if err := errors.ValidateLayoutID(l.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := layout.WriteFile(l, s.layoutPath(l.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", l.ID)
	}
	return nil
}

// Get reads <id>.json.
func (s *FileStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := layout.ReadFile(s.layoutPath(id))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout %s", id)
	}
	return l, nil
}

// List reads every stored layout and returns their summaries.
func (s *FileStore) List(ctx context.Context, limit int) ([]layout.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout dir")
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]layout.Summary, 0, len(ids))
	for _, id := range ids {
		l, err := layout.ReadFile(s.layoutPath(id))
		if err != nil {
			continue // unreadable files are skipped
		}
		out = append(out, l.Summarize())
	}
	return out, nil
}

// Delete removes <id>.json.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.layoutPath(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove layout %s", id)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(context.Context) error { return nil }

// Path returns the base directory for layout files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
