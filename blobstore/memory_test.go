package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put and open roundtrip", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Put(ctx, "items.json", []byte("hello")))

		blob, err := store.Open(ctx, "items.json")
		require.NoError(t, err)
		defer blob.Close()

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		require.Equal(t, []byte("hello"), data)
	})

	t.Run("open missing blob", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Open(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put copies its input", func(t *testing.T) {
		store := NewMemoryStore()

		data := []byte("immutable")
		require.NoError(t, store.Put(ctx, "blob", data))
		data[0] = 'X'

		blob, err := store.Open(ctx, "blob")
		require.NoError(t, err)
		defer blob.Close()

		stored, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		require.Equal(t, []byte("immutable"), stored)
	})

	t.Run("etag moves on every put", func(t *testing.T) {
		store := NewMemoryStore()

		// Identical content and (likely) identical timestamp: the version
		// counter must still move the marker.
		require.NoError(t, store.Put(ctx, "blob", []byte("same")))
		first, err := store.Stat(ctx, "blob")
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "blob", []byte("same")))
		second, err := store.Stat(ctx, "blob")
		require.NoError(t, err)

		require.NotEqual(t, first.ETag, second.ETag)
		require.False(t, first.Equal(second))
	})

	t.Run("delete then stat", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Put(ctx, "blob", []byte("x")))
		require.NoError(t, store.Delete(ctx, "blob"))

		_, err := store.Stat(ctx, "blob")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list by prefix", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Put(ctx, "a/one", nil))
		require.NoError(t, store.Put(ctx, "a/two", nil))
		require.NoError(t, store.Put(ctx, "b/one", nil))

		names, err := store.List(ctx, "a/")
		require.NoError(t, err)
		require.Equal(t, []string{"a/one", "a/two"}, names)
	})
}

func TestBlobInfo(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var info BlobInfo
		require.True(t, info.IsZero())
		require.False(t, BlobInfo{Size: 1}.IsZero())
	})

	t.Run("equality", func(t *testing.T) {
		a := BlobInfo{Size: 10, ETag: "v1"}
		require.True(t, a.Equal(BlobInfo{Size: 10, ETag: "v1"}))
		require.False(t, a.Equal(BlobInfo{Size: 10, ETag: "v2"}))
		require.False(t, a.Equal(BlobInfo{Size: 11, ETag: "v1"}))
	})
}
