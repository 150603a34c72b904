package shelfgo

import (
	"context"
	"time"

	"github.com/hupe1980/shelfgo/blobstore"
	"github.com/hupe1980/shelfgo/itemstore"
	"github.com/hupe1980/shelfgo/model"
	"github.com/hupe1980/shelfgo/query"
	"github.com/hupe1980/shelfgo/stats"
)

// Shelf is the embedded item catalog: list/point queries, appends and
// cached derived statistics over a single backing blob.
//
// The statistics cache is owned by the Shelf and torn down by Close; it is
// never shared as ambient global state. Handlers receive the Shelf by
// injection.
type Shelf struct {
	store   *itemstore.Store
	querier *query.Querier
	cache   *stats.Cache
	poller  *stats.Poller
	logger  *Logger
	metrics MetricsCollector
}

// New creates a Shelf on top of the given blob store and starts the
// background change poller (unless disabled via WithPollInterval).
func New(blobs blobstore.BlobStore, optFns ...Option) (*Shelf, error) {
	opts := options{
		blobName:     "items.json",
		pollInterval: time.Second,
		statsRetries: stats.DefaultOptions.MaxRetries,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = NoopLogger()
	}
	if opts.metrics == nil {
		opts.metrics = NoopMetricsCollector{}
	}

	store := itemstore.New(blobs, func(o *itemstore.Options) {
		o.BlobName = opts.blobName
		if opts.codec != nil {
			o.Codec = opts.codec
		}
		o.ReadTimeout = opts.readTimeout
		o.Resources = opts.resources
	})

	logger := opts.logger.WithBlob(opts.blobName)

	cache := stats.NewCache(store, func(o *stats.Options) {
		o.MaxRetries = opts.statsRetries
		o.Logger = logger.Logger
	})

	s := &Shelf{
		store:   store,
		querier: query.New(store),
		cache:   cache,
		logger:  logger,
		metrics: opts.metrics,
	}

	if opts.pollInterval > 0 {
		s.poller = stats.NewPoller(store, cache, func(o *stats.PollerOptions) {
			o.Interval = opts.pollInterval
			o.Logger = logger.Logger
		})
		s.poller.Start()
	}

	return s, nil
}

// Close stops the background poller. The Shelf must not be used afterwards.
func (s *Shelf) Close() error {
	if s.poller != nil {
		s.poller.Stop()
	}
	return nil
}

// ListItems returns one page of the collection, optionally filtered by a
// case-insensitive search over name and category.
func (s *Shelf) ListItems(ctx context.Context, opts query.ListOptions) ([]model.Item, model.PageInfo, error) {
	start := time.Now()
	items, info, err := s.querier.List(ctx, opts)
	s.metrics.RecordList(time.Since(start), err)
	s.logger.LogList(ctx, len(items), info.TotalItems, err)
	return items, info, translateError(err)
}

// GetItem returns the item with the given ID or ErrNotFound.
func (s *Shelf) GetItem(ctx context.Context, id int64) (model.Item, error) {
	start := time.Now()
	item, err := s.querier.Get(ctx, id)
	s.metrics.RecordGet(time.Since(start), err)
	return item, translateError(err)
}

// CreateItem validates the input and appends a new item to the collection.
// Validation failures reject before any store mutation occurs.
func (s *Shelf) CreateItem(ctx context.Context, input ItemInput) (model.Item, error) {
	start := time.Now()

	item, verr := input.validate()
	if verr != nil {
		s.metrics.RecordCreate(time.Since(start), verr)
		return model.Item{}, verr
	}

	created, err := s.store.Append(ctx, item)
	s.metrics.RecordCreate(time.Since(start), err)
	s.logger.LogCreate(ctx, created.ID, err)
	return created, err
}

// Statistics returns the derived statistics for the collection's current
// state, served from cache when the backing blob has not changed.
func (s *Shelf) Statistics(ctx context.Context) (model.Statistics, error) {
	start := time.Now()
	before := s.cache.Counters()

	result, err := s.cache.Get(ctx)

	after := s.cache.Counters()
	// Approximate under concurrent readers: another caller's hit between the
	// two snapshots counts as ours.
	hit := after.Hits > before.Hits
	duration := time.Since(start)
	s.metrics.RecordStatistics(hit, duration, err)
	s.logger.LogStatistics(ctx, duration, err)
	return result, err
}

// CacheCounters exposes the statistics cache instrumentation
// (hits, misses, recomputes, invalidations).
func (s *Shelf) CacheCounters() stats.Counters {
	return s.cache.Counters()
}
