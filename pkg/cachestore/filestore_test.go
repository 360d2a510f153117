package cachestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-fetchcache/pkg/cachestore"
)

func newTestFileStore(t *testing.T) (*cachestore.FileStore, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "cache")
	store, err := cachestore.NewFileStore(&cachestore.FileStoreConfig{RootDir: root}, zerolog.Nop())
	require.NoError(t, err)
	return store, root
}

func TestNewFileStore(t *testing.T) {
	t.Run("Creates the root directory", func(t *testing.T) {
		_, root := newTestFileStore(t)

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Is idempotent and non-destructive", func(t *testing.T) {
		store, root := newTestFileStore(t)
		ctx := context.Background()
		key := cachestore.NewKeyFromPairs(map[string]string{"year": "2010"})
		require.NoError(t, store.Put(ctx, key, []byte("kept")))

		// Act: construct a second store over the same root.
		again, err := cachestore.NewFileStore(&cachestore.FileStoreConfig{RootDir: root}, zerolog.Nop())
		require.NoError(t, err)

		// Assert: the existing entry survived.
		data, err := again.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("kept"), data)
	})

	t.Run("Requires a root directory", func(t *testing.T) {
		_, err := cachestore.NewFileStore(&cachestore.FileStoreConfig{}, zerolog.Nop())
		require.Error(t, err)
	})
}

func TestFileStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store, root := newTestFileStore(t)
	key := cachestore.NewKeyFromPairs(map[string]string{"county": "109", "year": "2010"})

	t.Run("Get on an empty store is a miss", func(t *testing.T) {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, cachestore.ErrNotFound)
	})

	t.Run("Round-trips bytes exactly", func(t *testing.T) {
		payload := []byte(`[{"county":"109","population":5310}]`)
		require.NoError(t, store.Put(ctx, key, payload))

		data, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("Leaves no temp files behind", func(t *testing.T) {
		leftovers, err := filepath.Glob(filepath.Join(root, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})

	t.Run("Put replaces an existing entry", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, key, []byte("replacement")))

		data, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("replacement"), data)
	})
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestFileStore(t)
	key := cachestore.NewKeyFromPairs(map[string]string{"county": "109"})

	t.Run("Delete of a missing entry reports not found", func(t *testing.T) {
		assert.ErrorIs(t, store.Delete(ctx, key), cachestore.ErrNotFound)
	})

	t.Run("Delete removes the entry", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, key, []byte("data")))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, cachestore.ErrNotFound)
	})
}

func TestFileStore_EntryIDs(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestFileStore(t)

	keyA := cachestore.NewKeyFromPairs(map[string]string{"county": "109"})
	keyB := cachestore.NewKeyFromPairs(map[string]string{"county": "110"})
	require.NoError(t, store.Put(ctx, keyA, []byte("a")))
	require.NoError(t, store.Put(ctx, keyB, []byte("b")))

	ids, err := store.EntryIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{keyA.Filename(), keyB.Filename()}, ids)
}
