package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/shelfgo/itemstore"
)

// PollerOptions configure a Poller.
type PollerOptions struct {
	// Interval between marker checks. Defaults to 1 second.
	Interval time.Duration

	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
}

// DefaultPollerOptions are the poller options used when none are overridden.
var DefaultPollerOptions = PollerOptions{
	Interval: time.Second,
}

// Poller watches the blob's change marker on a fixed interval and
// invalidates the cache when it moves.
//
// Polling is the baseline change-detection mechanism: it works on every
// backend (local FS, S3, MinIO) without platform notification primitives.
// The marker re-check inside Cache.Get bounds staleness to one poll
// interval even if a tick is missed.
type Poller struct {
	store Accessor
	cache *Cache
	opts  PollerOptions

	mu      sync.Mutex
	last    itemstore.Marker
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewPoller creates a poller connecting the accessor to the cache.
func NewPoller(store Accessor, cache *Cache, optFns ...func(o *PollerOptions)) *Poller {
	opts := DefaultPollerOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollerOptions.Interval
	}
	return &Poller{store: store, cache: cache, opts: opts}
}

// Start launches the background poll loop. Calling Start twice is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.stopCh = make(chan struct{})
	p.wg.Add(1)
	go p.run()
}

// Stop terminates the poll loop and waits for it to exit, releasing the
// ticker. Calling Stop on a stopped (or never started) poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
}

// Tick performs a single marker check, invalidating the cache on change.
// The background loop calls this on every tick; tests call it directly.
func (p *Poller) Tick(ctx context.Context) {
	marker, err := p.store.LastChanged(ctx)
	if err != nil {
		// A transient stat failure is not an invalidation signal; the
		// next read's own marker check catches real changes.
		if p.opts.Logger != nil {
			p.opts.Logger.Debug("change poll failed", "error", err)
		}
		return
	}

	p.mu.Lock()
	changed := !p.last.IsZero() && !p.last.Equal(marker)
	p.last = marker
	p.mu.Unlock()

	if changed {
		p.cache.Invalidate()
	}
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Tick(context.Background())
		case <-p.stopCh:
			return
		}
	}
}
