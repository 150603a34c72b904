package itemstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/shelfgo/blobstore"
	"github.com/hupe1980/shelfgo/codec"
	"github.com/hupe1980/shelfgo/model"
)

// Marker is the change marker of the backing blob.
//
// It is an opaque cache-validity token: the only supported operation is
// equality comparison against another marker from the same store.
type Marker struct {
	info blobstore.BlobInfo
}

// Equal reports whether both markers describe the same blob state.
func (m Marker) Equal(o Marker) bool {
	return m.info.Equal(o.info)
}

// IsZero reports whether the marker is the zero value (no observation yet).
func (m Marker) IsZero() bool {
	return m.info.IsZero()
}

// String renders the marker for logs.
func (m Marker) String() string {
	return fmt.Sprintf("marker(size=%d mtime=%s etag=%q)", m.info.Size, m.info.ModTime.Format(time.RFC3339Nano), m.info.ETag)
}

// Store reads and appends to the item collection held in a single blob.
//
// The store is a leaf: it keeps no state beyond what it reads per call,
// except the mutex serializing in-process appends. Concurrent external
// mutation of the blob is not guarded against; see the blobstore s3
// VersionedStore for a backend that at least detects it.
type Store struct {
	blobs blobstore.BlobStore
	opts  Options

	// mu serializes the read-modify-write append cycle.
	mu sync.Mutex
}

// New creates a Store on top of the given blob store.
func New(blobs blobstore.BlobStore, optFns ...func(o *Options)) *Store {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.BlobName == "" {
		opts.BlobName = DefaultOptions.BlobName
	}
	return &Store{blobs: blobs, opts: opts}
}

// BlobName returns the name of the blob holding the collection.
func (s *Store) BlobName() string {
	return s.opts.BlobName
}

// ReadAll loads and decodes the full item collection.
//
// A missing blob is ErrUnreadable: the caller asked for a collection that
// does not exist. Append bootstraps the blob instead, so a store becomes
// readable after the first successful append.
func (s *Store) ReadAll(ctx context.Context) ([]model.Item, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.opts.Resources.AcquireRead(ctx); err != nil {
		return nil, s.classifyRead(err)
	}
	defer s.opts.Resources.ReleaseRead()

	data, err := s.readBlob(ctx)
	if err != nil {
		return nil, err
	}

	var items []model.Item
	if err := s.opts.Codec.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, s.opts.BlobName, err)
	}
	return items, nil
}

// Append stores one new item, assigning the next ID.
//
// The whole read-modify-write cycle runs under the append mutex, so
// in-process appends are serialized and IDs stay unique. A missing blob
// starts an empty collection.
func (s *Store) Append(ctx context.Context, item model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.bound(ctx)
	defer cancel()

	var items []model.Item
	data, err := s.readBlob(ctx)
	switch {
	case err == nil:
		if err := s.opts.Codec.Unmarshal(data, &items); err != nil {
			return model.Item{}, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, s.opts.BlobName, err)
		}
	case errors.Is(err, blobstore.ErrNotFound):
		// First append bootstraps the collection.
	default:
		return model.Item{}, err
	}

	item.ID = nextID(items)
	items = append(items, item)

	encoded, err := s.opts.Codec.Marshal(items)
	if err != nil {
		return model.Item{}, fmt.Errorf("%w: encode %s: %w", ErrUnwritable, s.opts.BlobName, err)
	}
	if err := s.opts.Resources.AcquireIO(ctx, len(encoded)); err != nil {
		return model.Item{}, s.classifyWrite(err)
	}
	if err := s.blobs.Put(ctx, s.opts.BlobName, encoded); err != nil {
		return model.Item{}, fmt.Errorf("%w: write %s: %w", ErrUnwritable, s.opts.BlobName, err)
	}
	return item, nil
}

// LastChanged returns the blob's current change marker.
func (s *Store) LastChanged(ctx context.Context) (Marker, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	info, err := s.blobs.Stat(ctx, s.opts.BlobName)
	if err != nil {
		return Marker{}, fmt.Errorf("%w: stat %s: %w", s.readKind(ctx, err), s.opts.BlobName, err)
	}
	return Marker{info: info}, nil
}

func (s *Store) readBlob(ctx context.Context) ([]byte, error) {
	blob, err := s.blobs.Open(ctx, s.opts.BlobName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: open %s: %w", ErrUnreadable, s.opts.BlobName, err)
		}
		return nil, fmt.Errorf("%w: open %s: %w", s.readKind(ctx, err), s.opts.BlobName, err)
	}
	defer blob.Close()

	if err := s.opts.Resources.AcquireIO(ctx, int(blob.Size())); err != nil {
		return nil, s.classifyRead(err)
	}

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", s.readKind(ctx, err), s.opts.BlobName, err)
	}
	return data, nil
}

// bound applies the configured read timeout, if any.
func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.ReadTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.ReadTimeout)
}

// readKind distinguishes a timed-out read from a broken one.
func (s *Store) readKind(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrUnreadable
}

func (s *Store) classifyRead(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnreadable, err)
}

// classifyWrite is the write-path counterpart: a failure while the encoded
// collection waits for IO budget happens on the way to the blob write.
func (s *Store) classifyWrite(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnwritable, err)
}

func nextID(items []model.Item) int64 {
	var maxID int64
	for _, it := range items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	return maxID + 1
}
