package cachestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FileStoreConfig holds configuration for the filesystem-backed store.
type FileStoreConfig struct {
	// RootDir is the directory entries are persisted under. It is created
	// if absent. The contents are regenerable by definition, so the root
	// should sit in a cache area, never alongside raw source data.
	RootDir string
}

// FileStore persists one file per key under a root directory. It is the
// default store: entries survive across processes and can be shipped
// alongside a reproducible analysis package. Writes go to a uniquely named
// temp file first and are renamed into place, so readers never observe a
// partially written entry.
type FileStore struct {
	root   string
	logger zerolog.Logger
}

// NewFileStore creates the root directory if needed and returns a store
// over it. Creation is idempotent and never destructive.
func NewFileStore(cfg *FileStoreConfig, logger zerolog.Logger) (*FileStore, error) {
	if cfg.RootDir == "" {
		return nil, errors.New("cache root directory is required")
	}
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache root %s: %w", cfg.RootDir, err)
	}
	return &FileStore{
		root:   cfg.RootDir,
		logger: logger.With().Str("component", "FileStore").Logger(),
	}, nil
}

// Get retrieves the entry for key, or ErrNotFound if no file exists.
func (s *FileStore) Get(_ context.Context, key Key) ([]byte, error) {
	data, err := os.ReadFile(s.EntryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache entry for %q: %w", key.String(), err)
	}
	s.logger.Debug().Str("key", key.String()).Msg("File cache hit.")
	return data, nil
}

// Put stores data under key. The write is atomic: data lands in a temp file
// which is then renamed over the entry path, replacing any prior entry in a
// single step. On failure the temp file is removed and any prior entry is
// left untouched.
func (s *FileStore) Put(_ context.Context, key Key, data []byte) error {
	tmp := filepath.Join(s.root, fmt.Sprintf("%s.%s.tmp", key.Filename(), uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file for %q: %w", key.String(), err)
	}
	if err := os.Rename(tmp, s.EntryPath(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit cache entry for %q: %w", key.String(), err)
	}
	s.logger.Debug().Str("key", key.String()).Int("bytes", len(data)).Msg("Stored cache entry.")
	return nil
}

// Delete removes the entry file for key.
func (s *FileStore) Delete(_ context.Context, key Key) error {
	err := os.Remove(s.EntryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete cache entry for %q: %w", key.String(), err)
	}
	s.logger.Debug().Str("key", key.String()).Msg("Deleted cache entry.")
	return nil
}

// EntryPath returns the path the entry for key lives at (whether or not it
// currently exists). Exposed so operators can inspect or manually delete
// entries without knowing the filename scheme.
func (s *FileStore) EntryPath(key Key) string {
	return filepath.Join(s.root, key.Filename())
}

// EntryIDs lists the identifiers of all persisted entries. Identifiers are
// the hashed filenames, not the original keys; the mapping back to a key is
// one-way by design.
func (s *FileStore) EntryIDs() ([]string, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache root %s: %w", s.root, err)
	}
	ids := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasSuffix(de.Name(), ".tmp") {
			continue
		}
		ids = append(ids, de.Name())
	}
	return ids, nil
}
