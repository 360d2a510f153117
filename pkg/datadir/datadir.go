// Package datadir establishes the on-disk convention for a data project:
// three areas with distinct regeneration guarantees.
//
//   - raw: manually obtained inputs. Never regenerated; the only
//     non-regenerable area.
//   - cache: programmatically fetched results. Regenerable from raw plus
//     code, at remote-fetch cost.
//   - generated: derived locally from raw and cache. Regenerable at
//     compute cost only.
//
// The invariant to protect is that cache and generated content can always
// be reproduced from raw plus code; anything that cannot be belongs in raw.
package datadir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	rawDirName       = "raw"
	cacheDirName     = "cache"
	generatedDirName = "generated"
)

// Layout describes the data directory tree rooted at a project path.
type Layout struct {
	root string
}

// NewLayout returns a Layout rooted at root. Nothing is created until
// Ensure is called.
func NewLayout(root string) (*Layout, error) {
	if root == "" {
		return nil, errors.New("data directory root is required")
	}
	return &Layout{root: root}, nil
}

// Ensure creates the three areas if absent. It is idempotent and never
// destructive: existing directories and their contents are left alone.
func (l *Layout) Ensure() error {
	for _, dir := range []string{l.RawDir(), l.CacheDir(), l.GeneratedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return nil
}

// Root returns the project root path.
func (l *Layout) Root() string {
	return l.root
}

// RawDir returns the path of the raw area.
func (l *Layout) RawDir() string {
	return filepath.Join(l.root, rawDirName)
}

// CacheDir returns the path of the cache area. Feed this to a
// cachestore.FileStore as its root.
func (l *Layout) CacheDir() string {
	return filepath.Join(l.root, cacheDirName)
}

// GeneratedDir returns the path of the generated area.
func (l *Layout) GeneratedDir() string {
	return filepath.Join(l.root, generatedDirName)
}
