package cachestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-fetchcache/pkg/cachestore"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := cachestore.NewInMemoryStore()
	key := cachestore.NewKeyFromPairs(map[string]string{"county": "109", "year": "2010"})

	t.Run("Miss before any Put", func(t *testing.T) {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, cachestore.ErrNotFound)
	})

	t.Run("Round-trips and isolates the stored bytes", func(t *testing.T) {
		payload := []byte("records")
		require.NoError(t, store.Put(ctx, key, payload))

		// Mutating the caller's slice must not affect the stored entry.
		payload[0] = 'X'

		data, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("records"), data)
	})

	t.Run("Delete removes the entry", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, cachestore.ErrNotFound)

		assert.ErrorIs(t, store.Delete(ctx, key), cachestore.ErrNotFound)
	})
}
