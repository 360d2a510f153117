package cachestore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a store when no entry exists for a key. Callers
// use it to distinguish an ordinary cache miss from a real storage failure.
var ErrNotFound = errors.New("cachestore: entry not found")

// EntryStore is a durable, parameter-addressed blob store. Entries are
// written once per key and live until an operator deletes them; there is no
// automatic expiry. Implementations must make Put atomic: a crash mid-write
// must never leave a partial entry visible to Get.
type EntryStore interface {
	// Get retrieves the entry for key, or ErrNotFound if none exists.
	Get(ctx context.Context, key Key) ([]byte, error)
	// Put stores data under key, replacing any existing entry atomically.
	Put(ctx context.Context, key Key, data []byte) error
	// Delete removes the entry for key. This is the manual invalidation
	// path; it returns ErrNotFound if there was nothing to remove.
	Delete(ctx context.Context, key Key) error
}
