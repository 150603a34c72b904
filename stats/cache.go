package stats

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/shelfgo/itemstore"
	"github.com/hupe1980/shelfgo/model"
	"golang.org/x/sync/singleflight"
)

// Accessor is the slice of the item store the cache depends on.
type Accessor interface {
	ReadAll(ctx context.Context) ([]model.Item, error)
	LastChanged(ctx context.Context) (itemstore.Marker, error)
}

// Options configure a Cache.
type Options struct {
	// MaxRetries bounds the wait-and-recheck loop a caller runs when its
	// marker check keeps losing races against invalidation. After the
	// retries are exhausted the caller computes directly instead of
	// recursing further.
	MaxRetries int

	// Logger receives debug events (hits, recomputes, stale commits).
	// Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions are the options used when none are overridden.
var DefaultOptions = Options{
	MaxRetries: 3,
}

// Counters is a snapshot of cache instrumentation.
type Counters struct {
	Hits          int64
	Misses        int64
	Recomputes    int64
	Invalidations int64
}

// entry is the single cached aggregate, valid for exactly one marker.
// Written atomically as a whole; readers never observe a half-written entry.
type entry struct {
	stats  model.Statistics
	marker itemstore.Marker
}

// Cache serves the derived statistics, recomputing at most once per distinct
// change marker and collapsing concurrent recomputations into one.
//
// Concurrency collapsing uses a singleflight group: the first caller that
// misses becomes the leader and performs the read-and-aggregate pass; callers
// arriving during the in-flight computation share its outcome, then re-check
// the cache against a fresh marker rather than trusting the shared result
// blindly (the marker may have moved again while they waited).
type Cache struct {
	store Accessor
	opts  Options

	group singleflight.Group

	mu    sync.RWMutex
	entry *entry

	hits          atomic.Int64
	misses        atomic.Int64
	recomputes    atomic.Int64
	invalidations atomic.Int64
}

// NewCache creates a statistics cache over the given accessor.
func NewCache(store Accessor, optFns ...func(o *Options)) *Cache {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Cache{store: store, opts: opts}
}

// Get returns the statistics for the collection's current state.
//
// Fast path: the cached entry's marker equals the current marker — return it
// without touching the full dataset. Slow path: join (or start) the single
// in-flight computation. If the marker cannot be obtained the accessor's
// failure is surfaced as-is: no stale answer is returned for that path, since
// an unreachable marker usually means the data source itself is broken.
func (c *Cache) Get(ctx context.Context) (model.Statistics, error) {
	for attempt := 0; ; attempt++ {
		marker, err := c.store.LastChanged(ctx)
		if err != nil {
			return model.Statistics{}, err
		}

		if stats, ok := c.lookup(marker); ok {
			c.hits.Add(1)
			return stats, nil
		}
		c.misses.Add(1)

		if attempt >= c.opts.MaxRetries {
			// Escape valve: repeated invalidations kept stealing the
			// entry out from under us. Compute directly.
			return c.compute(ctx, marker)
		}

		v, err, shared := c.group.Do("statistics", func() (any, error) {
			return c.compute(ctx, marker)
		})
		if err != nil {
			return model.Statistics{}, err
		}
		if !shared {
			// We led the computation; its result is ours.
			return v.(model.Statistics), nil
		}
		// We waited on another caller's computation, which may have run
		// under an older marker. Loop: re-check the cache with a fresh
		// marker instead of starting a second computation immediately.
	}
}

// Invalidate resets the cache entry. Called by the change poller when the
// blob's marker moves, and safe to call at any time.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
	c.invalidations.Add(1)

	if c.opts.Logger != nil {
		c.opts.Logger.Debug("statistics cache invalidated")
	}
}

// Counters returns a snapshot of the cache instrumentation.
func (c *Cache) Counters() Counters {
	return Counters{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Recomputes:    c.recomputes.Load(),
		Invalidations: c.invalidations.Load(),
	}
}

func (c *Cache) lookup(marker itemstore.Marker) (model.Statistics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry != nil && c.entry.marker.Equal(marker) {
		return c.entry.stats, true
	}
	return model.Statistics{}, false
}

// compute performs the full read-and-aggregate pass under the given marker.
//
// On failure the previous entry is left untouched, so a subsequent call may
// still serve a stale-but-valid hit instead of erroring — staleness is
// preferred over total unavailability for transient read failures.
//
// Before committing, the marker is re-checked: if the blob changed while we
// were reading, the result is returned to the caller but not cached, so the
// entry never holds statistics for a marker that is already stale.
func (c *Cache) compute(ctx context.Context, marker itemstore.Marker) (model.Statistics, error) {
	items, err := c.store.ReadAll(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	stats := Aggregate(items)
	c.recomputes.Add(1)

	current, err := c.store.LastChanged(ctx)
	switch {
	case err != nil:
		// Cannot verify freshness; skip the commit rather than risk
		// caching a stale result.
		if c.opts.Logger != nil {
			c.opts.Logger.Debug("statistics commit skipped, marker unavailable", "error", err)
		}
	case !current.Equal(marker):
		if c.opts.Logger != nil {
			c.opts.Logger.Debug("statistics commit skipped, marker moved during computation",
				"computed_under", marker.String(),
				"current", current.String(),
			)
		}
	default:
		c.mu.Lock()
		c.entry = &entry{stats: stats, marker: marker}
		c.mu.Unlock()
	}

	return stats, nil
}
