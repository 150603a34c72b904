package shelfgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// telemetry sub-package ships a Prometheus implementation.
type MetricsCollector interface {
	// RecordList is called after each list operation.
	RecordList(duration time.Duration, err error)

	// RecordGet is called after each point lookup.
	RecordGet(duration time.Duration, err error)

	// RecordCreate is called after each create operation.
	// err is nil if successful; validation failures count as errors.
	RecordCreate(duration time.Duration, err error)

	// RecordStatistics is called after each statistics read.
	// hit reports whether the cache served the result without a recompute.
	RecordStatistics(hit bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordList(time.Duration, error)             {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)              {}
func (NoopMetricsCollector) RecordCreate(time.Duration, error)           {}
func (NoopMetricsCollector) RecordStatistics(bool, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	ListCount    atomic.Int64
	ListErrors   atomic.Int64
	GetCount     atomic.Int64
	GetErrors    atomic.Int64
	CreateCount  atomic.Int64
	CreateErrors atomic.Int64
	StatsCount   atomic.Int64
	StatsErrors  atomic.Int64
	StatsHits    atomic.Int64
	StatsMisses  atomic.Int64
}

// RecordList implements MetricsCollector.
func (b *BasicMetricsCollector) RecordList(_ time.Duration, err error) {
	b.ListCount.Add(1)
	if err != nil {
		b.ListErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(_ time.Duration, err error) {
	b.GetCount.Add(1)
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(_ time.Duration, err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
	}
}

// RecordStatistics implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStatistics(hit bool, _ time.Duration, err error) {
	b.StatsCount.Add(1)
	if err != nil {
		b.StatsErrors.Add(1)
		return
	}
	if hit {
		b.StatsHits.Add(1)
	} else {
		b.StatsMisses.Add(1)
	}
}
