// Package resolver provides the fetch-or-cache coordinator: given a request
// key and a caller-supplied fetch operation, it returns the cached result if
// one is persisted, and otherwise fetches, persists, and returns. The remote
// source is contacted at most once per distinct key for the lifetime of the
// underlying store, across processes and sessions.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-fetchcache/pkg/cachestore"
	"github.com/illmade-knight/go-fetchcache/pkg/costplan"
)

var (
	// ErrFetch wraps a failure of the caller-supplied fetch operation. The
	// store is left untouched: no entry is created and any prior entry for
	// the key is preserved.
	ErrFetch = errors.New("resolver: remote fetch failed")
	// ErrCorrupt wraps a persisted entry that exists but cannot be
	// decoded. This is surfaced distinctly rather than treated as a miss,
	// since silently re-fetching would mask a real storage problem.
	ErrCorrupt = errors.New("resolver: cache entry corrupt")
	// ErrPersist wraps a failure to write a freshly fetched result to the
	// store. No partial entry is left visible.
	ErrPersist = errors.New("resolver: persisting cache entry failed")
)

// FetchFunc is the caller-supplied remote operation. The resolver makes no
// assumptions about transport, authentication, or pagination — the caller
// hands over an already-authenticated closure that produces a result or
// fails.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Config holds configuration for a Resolver.
type Config struct {
	// RefetchOnCorrupt selects the recovery policy for corrupt entries.
	// When false (the default) a corrupt entry fails the Resolve call with
	// ErrCorrupt. When true the resolver logs a warning, re-fetches, and
	// overwrites the corrupt entry — a deliberate, visible fallback.
	RefetchOnCorrupt bool
}

// Resolver coordinates fetch-or-cache resolution over an EntryStore.
// Results are serialized as JSON, which round-trips exactly for the tabular
// record types this library targets and is portable across producing and
// consuming environments.
type Resolver[V any] struct {
	store            cachestore.EntryStore
	refetchOnCorrupt bool
	logger           zerolog.Logger

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// New creates a Resolver over the given store.
func New[V any](cfg *Config, store cachestore.EntryStore, logger zerolog.Logger) (*Resolver[V], error) {
	if store == nil {
		return nil, errors.New("entry store cannot be nil")
	}
	return &Resolver[V]{
		store:            store,
		refetchOnCorrupt: cfg != nil && cfg.RefetchOnCorrupt,
		logger:           logger.With().Str("component", "Resolver").Logger(),
		keyLocks:         make(map[string]*sync.Mutex),
	}, nil
}

// Resolve returns the result for key. If a persisted entry exists it is
// decoded and returned without invoking fetch (the fast path). Otherwise
// fetch is invoked, its result persisted atomically, and returned (the slow
// path). The resolver never retries: a failed fetch surfaces immediately as
// ErrFetch, since the whole premise is that remote fetches are too expensive
// to repeat casually.
func (r *Resolver[V]) Resolve(ctx context.Context, key cachestore.Key, fetch FetchFunc[V]) (V, error) {
	var zero V

	// Fast path: cached readers proceed without any locking. Store writes
	// are atomic, so a concurrent slow-path writer can never expose a
	// partial entry here.
	value, err := r.lookup(ctx, key)
	if err == nil {
		r.logger.Debug().Str("key", key.String()).Msg("Cache hit.")
		return value, nil
	}
	if !r.misses(err) {
		return zero, err
	}

	// Slow path: serialize fetch-and-persist per key so concurrent callers
	// for the same key trigger at most one remote fetch.
	unlock := r.lockKey(key)
	defer unlock()

	// Double-check after acquiring the key lock in case another caller
	// populated the entry while we waited.
	value, err = r.lookup(ctx, key)
	if err == nil {
		r.logger.Debug().Str("key", key.String()).Msg("Cache hit after lock.")
		return value, nil
	}
	if !r.misses(err) {
		return zero, err
	}
	if errors.Is(err, ErrCorrupt) {
		r.logger.Warn().Str("key", key.String()).Msg("Cache entry corrupt. Deliberately re-fetching and overwriting.")
	} else {
		r.logger.Debug().Str("key", key.String()).Msg("Cache miss. Fetching from remote source.")
	}

	fetched, fetchErr := fetch(ctx)
	if fetchErr != nil {
		return zero, fmt.Errorf("%w: %w", ErrFetch, fetchErr)
	}

	data, err := json.Marshal(fetched)
	if err != nil {
		return zero, fmt.Errorf("%w: failed to encode result: %w", ErrPersist, err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	r.logger.Debug().Str("key", key.String()).Msg("Fetched and persisted new cache entry.")
	return fetched, nil
}

// ResolveAll resolves a caller-decomposed batch of sub-keys sequentially and
// returns the results in key order, together with a costplan.Sample covering
// only the slow-path work. Resolving a small sample of sub-keys and feeding
// the Sample to costplan.Estimate answers "how long would the full run take".
// Resolution stops at the first failure; sub-results persisted before the
// failure remain cached, so a rerun resumes where it left off.
func (r *Resolver[V]) ResolveAll(ctx context.Context, keys []cachestore.Key, fetch func(ctx context.Context, key cachestore.Key) (V, error)) ([]V, costplan.Sample, error) {
	results := make([]V, 0, len(keys))
	var sample costplan.Sample

	for _, key := range keys {
		value, err := r.Resolve(ctx, key, func(ctx context.Context) (V, error) {
			start := time.Now()
			fetched, fetchErr := fetch(ctx, key)
			if fetchErr == nil {
				sample.Elapsed += time.Since(start)
				sample.Units++
			}
			return fetched, fetchErr
		})
		if err != nil {
			return nil, sample, fmt.Errorf("failed to resolve key %q: %w", key.String(), err)
		}
		results = append(results, value)
	}
	return results, sample, nil
}

// lookup reads and decodes the entry for key. A decode failure is reported
// as ErrCorrupt, never as a miss.
func (r *Resolver[V]) lookup(ctx context.Context, key cachestore.Key) (V, error) {
	var zero V
	data, err := r.store.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("%w: failed to decode entry for %q: %v", ErrCorrupt, key.String(), err)
	}
	return value, nil
}

// misses reports whether a lookup error permits taking the slow path: a
// plain miss always does, a corrupt entry only under the RefetchOnCorrupt
// policy.
func (r *Resolver[V]) misses(err error) bool {
	if errors.Is(err, cachestore.ErrNotFound) {
		return true
	}
	return r.refetchOnCorrupt && errors.Is(err, ErrCorrupt)
}

// lockKey acquires the per-key mutex, creating it on first use. The lock
// table grows with the number of distinct keys seen by this resolver, which
// is bounded by the run's key set.
func (r *Resolver[V]) lockKey(key cachestore.Key) func() {
	r.mu.Lock()
	lock, ok := r.keyLocks[key.String()]
	if !ok {
		lock = &sync.Mutex{}
		r.keyLocks[key.String()] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
