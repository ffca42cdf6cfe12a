package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the seen set in a JSON object mapping link to true.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Name() string { return "file:" + f.path }

func (f *FileStore) Load(ctx context.Context) (*Set, LoadStatus, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSet(), LoadMissing, nil
	}
	if err != nil {
		return NewSet(), LoadCorrupt, fmt.Errorf("read cache %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return NewSet(), LoadMissing, nil
	}

	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewSet(), LoadCorrupt, fmt.Errorf("parse cache %s: %w", f.path, err)
	}

	set := NewSet()
	for link := range raw {
		set.links[link] = true
	}
	return set, LoadOK, nil
}

// Save overwrites the file with the whole set. The file is replaced by a
// rename so a crash never leaves a half-written cache.
func (f *FileStore) Save(ctx context.Context, set *Set) error {
	data, err := json.MarshalIndent(set.links, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace cache %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
