package shelfgo

import (
	"time"

	"github.com/hupe1980/shelfgo/codec"
	"github.com/hupe1980/shelfgo/resource"
)

type options struct {
	blobName     string
	codec        codec.Codec
	logger       *Logger
	metrics      MetricsCollector
	pollInterval time.Duration
	readTimeout  time.Duration
	statsRetries int
	resources    *resource.Controller
}

// Option configures Shelf constructor behavior.
type Option func(*options)

// WithBlobName sets the name of the blob holding the collection.
// Defaults to "items.json".
func WithBlobName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.blobName = name
		}
	}
}

// WithCodec configures the codec used for the item blob.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector sets the metrics collector. Defaults to no-op.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithPollInterval sets the change-detection poll interval.
// Defaults to 1 second. A non-positive value disables the background
// poller entirely; reads still detect changes via their own marker check,
// so only proactive invalidation is lost.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithReadTimeout bounds each blob operation.
// 0 (the default) disables the bound.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.readTimeout = d
	}
}

// WithStatsRetries bounds the statistics cache's wait-and-recheck loop.
func WithStatsRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.statsRetries = n
		}
	}
}

// WithResources attaches a resource controller limiting concurrent blob
// reads and IO throughput. Nil (the default) disables limiting.
func WithResources(c *resource.Controller) Option {
	return func(o *options) {
		o.resources = c
	}
}
