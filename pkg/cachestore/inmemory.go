package cachestore

import (
	"context"
	"sync"
)

// InMemoryStore is a thread-safe, map-backed EntryStore. Unlike the file
// store it does not survive the process, so it is suitable for tests and for
// single-session memoization only.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves the entry for key, or ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// Put stores a copy of data under key.
func (s *InMemoryStore) Put(_ context.Context, key Key, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.data[key.String()] = buf
	return nil
}

// Delete removes the entry for key.
func (s *InMemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key.String()]; !ok {
		return ErrNotFound
	}
	delete(s.data, key.String())
	return nil
}
