// Package telemetry exposes shelfgo operational metrics via Prometheus.
//
// It implements the shelfgo.MetricsCollector interface; wire it in with
// shelfgo.WithMetricsCollector. Collectors must be inexpensive because they
// run inline with every operation.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements shelfgo.MetricsCollector backed by
// Prometheus counters and histograms.
type PrometheusCollector struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	cacheReads *prometheus.CounterVec
}

// NewPrometheusCollector registers the required metrics with the provided
// registerer. A nil registerer falls back to prometheus.DefaultRegisterer.
// Registering twice against the same registerer reuses the existing
// collectors instead of failing.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfgo_operations_total",
		Help: "Number of catalog operations, partitioned by operation.",
	}, []string{"operation"})
	if err := register(reg, &operations); err != nil {
		return nil, err
	}

	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfgo_operation_errors_total",
		Help: "Number of failed catalog operations, partitioned by operation.",
	}, []string{"operation"})
	if err := register(reg, &errs); err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shelfgo_operation_duration_seconds",
		Help:    "Latency of catalog operations, partitioned by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	if err := registerHistogram(reg, &durations); err != nil {
		return nil, err
	}

	cacheReads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfgo_statistics_cache_reads_total",
		Help: "Statistics reads, partitioned by cache outcome (hit/miss).",
	}, []string{"outcome"})
	if err := register(reg, &cacheReads); err != nil {
		return nil, err
	}

	return &PrometheusCollector{
		operations: operations,
		errors:     errs,
		durations:  durations,
		cacheReads: cacheReads,
	}, nil
}

func register(reg prometheus.Registerer, vec **prometheus.CounterVec) error {
	if err := reg.Register(*vec); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return err
		}
		*vec = existing
	}
	return nil
}

func registerHistogram(reg prometheus.Registerer, vec **prometheus.HistogramVec) error {
	if err := reg.Register(*vec); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return err
		}
		*vec = existing
	}
	return nil
}

func (c *PrometheusCollector) record(operation string, duration time.Duration, err error) {
	c.operations.WithLabelValues(operation).Inc()
	c.durations.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		c.errors.WithLabelValues(operation).Inc()
	}
}

// RecordList implements shelfgo.MetricsCollector.
func (c *PrometheusCollector) RecordList(duration time.Duration, err error) {
	c.record("list", duration, err)
}

// RecordGet implements shelfgo.MetricsCollector.
func (c *PrometheusCollector) RecordGet(duration time.Duration, err error) {
	c.record("get", duration, err)
}

// RecordCreate implements shelfgo.MetricsCollector.
func (c *PrometheusCollector) RecordCreate(duration time.Duration, err error) {
	c.record("create", duration, err)
}

// RecordStatistics implements shelfgo.MetricsCollector.
func (c *PrometheusCollector) RecordStatistics(hit bool, duration time.Duration, err error) {
	c.record("statistics", duration, err)
	if err != nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	c.cacheReads.WithLabelValues(outcome).Inc()
}
