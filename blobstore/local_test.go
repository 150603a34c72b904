package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/shelfgo/internal/fs"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put and open roundtrip", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())

		require.NoError(t, store.Put(ctx, "items.json", []byte(`[{"id":1}]`)))

		blob, err := store.Open(ctx, "items.json")
		require.NoError(t, err)
		defer blob.Close()

		require.EqualValues(t, 10, blob.Size())

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		require.Equal(t, []byte(`[{"id":1}]`), data)
	})

	t.Run("open missing blob", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())

		_, err := store.Open(ctx, "missing.json")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put leaves no temp files", func(t *testing.T) {
		root := t.TempDir()
		store := NewLocalStore(root)

		require.NoError(t, store.Put(ctx, "items.json", []byte("data")))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "items.json", entries[0].Name())
	})

	t.Run("stat reflects rewrite", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())

		require.NoError(t, store.Put(ctx, "items.json", []byte("v1")))
		before, err := store.Stat(ctx, "items.json")
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "items.json", []byte("longer v2")))
		after, err := store.Stat(ctx, "items.json")
		require.NoError(t, err)

		require.False(t, before.Equal(after))
		require.EqualValues(t, 9, after.Size)
	})

	t.Run("stat missing blob", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())

		_, err := store.Stat(ctx, "missing.json")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("read range", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())
		require.NoError(t, store.Put(ctx, "blob", []byte("0123456789")))

		blob, err := store.Open(ctx, "blob")
		require.NoError(t, err)
		defer blob.Close()

		rc, err := blob.ReadRange(ctx, 2, 4)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		require.Equal(t, []byte("2345"), data)

		// Range past EOF is clipped, not an error.
		rc, err = blob.ReadRange(ctx, 8, 100)
		require.NoError(t, err)
		data, err = io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, []byte("89"), data)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())

		require.NoError(t, store.Put(ctx, "items.json", []byte("data")))
		require.NoError(t, store.Delete(ctx, "items.json"))
		require.NoError(t, store.Delete(ctx, "items.json"))

		_, err := store.Open(ctx, "items.json")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list filters by prefix and skips temp files", func(t *testing.T) {
		root := t.TempDir()
		store := NewLocalStore(root)

		require.NoError(t, store.Put(ctx, "items.json", []byte("a")))
		require.NoError(t, store.Put(ctx, "items-archive.json", []byte("b")))
		require.NoError(t, store.Put(ctx, "other.json", []byte("c")))
		require.NoError(t, os.WriteFile(filepath.Join(root, "leftover.tmp"), []byte("x"), 0644))

		names, err := store.List(ctx, "items")
		require.NoError(t, err)
		require.Equal(t, []string{"items-archive.json", "items.json"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"items-archive.json", "items.json", "other.json"}, all)
	})

	t.Run("list on missing root", func(t *testing.T) {
		store := NewLocalStore(filepath.Join(t.TempDir(), "nope"))

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Empty(t, names)
	})
}

func TestLocalStoreFaults(t *testing.T) {
	ctx := context.Background()
	injected := errors.New("disk on fire")

	t.Run("failed write keeps previous content", func(t *testing.T) {
		faulty := fs.NewFaultyFS(nil)
		store := NewLocalStoreFS(t.TempDir(), faulty)

		require.NoError(t, store.Put(ctx, "items.json", []byte("v1")))

		faulty.FailFile("items.json.tmp", fs.Fault{FailOnWrite: true, Err: injected})
		require.ErrorIs(t, store.Put(ctx, "items.json", []byte("v2")), injected)

		blob, err := store.Open(ctx, "items.json")
		require.NoError(t, err)
		defer blob.Close()

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), data)
	})

	t.Run("failed sync keeps previous content", func(t *testing.T) {
		faulty := fs.NewFaultyFS(nil)
		store := NewLocalStoreFS(t.TempDir(), faulty)

		require.NoError(t, store.Put(ctx, "items.json", []byte("v1")))

		faulty.FailFile("items.json.tmp", fs.Fault{FailOnSync: true, Err: injected})
		require.ErrorIs(t, store.Put(ctx, "items.json", []byte("v2")), injected)

		faulty.Clear()
		blob, err := store.Open(ctx, "items.json")
		require.NoError(t, err)
		defer blob.Close()

		data, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), data)
	})

	t.Run("failed open surfaces", func(t *testing.T) {
		faulty := fs.NewFaultyFS(nil)
		store := NewLocalStoreFS(t.TempDir(), faulty)

		require.NoError(t, store.Put(ctx, "items.json", []byte("v1")))

		faulty.FailFile("items.json", fs.Fault{FailOnOpen: true, Err: injected})
		_, err := store.Open(ctx, "items.json")
		require.ErrorIs(t, err, injected)
	})
}
