package blobstore

import (
	"context"
	"io"
	"os"
	"time"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing named data blobs.
//
// The item store keeps its whole collection in a single blob and rewrites it
// on every append, so Put must replace the blob atomically: readers must see
// either the old or the new content, never a partial write.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put atomically replaces the blob's content.
	Put(ctx context.Context, name string, data []byte) error
	// Stat returns metadata about the blob without reading it.
	Stat(ctx context.Context, name string) (BlobInfo, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadRange returns a reader over [off, off+length).
	// Ranges past the end of the blob are truncated, not an error.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	io.Closer
}

// BlobInfo is blob metadata used as a change marker.
//
// ETag is backend-specific (object ETag, commit version); empty for backends
// that only track size and modification time.
type BlobInfo struct {
	Size    int64
	ModTime time.Time
	ETag    string
}

// Equal reports whether two infos describe the same blob state.
// This is the cache-validity comparison: equality only, no ordering.
func (i BlobInfo) Equal(o BlobInfo) bool {
	return i.Size == o.Size && i.ModTime.Equal(o.ModTime) && i.ETag == o.ETag
}

// IsZero reports whether the info is the zero value (no observation yet).
func (i BlobInfo) IsZero() bool {
	return i.Size == 0 && i.ModTime.IsZero() && i.ETag == ""
}

// ReadAll reads the blob's full content through ReadRange.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
