package pincache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    pinCounter    prometheus.Counter
//	    loadHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordPin(count int, duration time.Duration, err error) {
//	    p.pinCounter.Add(float64(count))
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordPin is called after each Pin call. count is the number of
	// requested names, duration includes any admission wait, err is nil if
	// every name was pinned.
	RecordPin(count int, duration time.Duration, err error)

	// RecordLoad is called after each backing-store load performed while
	// pinning. err is nil if successful.
	RecordLoad(duration time.Duration, err error)

	// RecordEviction is called after each eviction. flushed reports whether
	// the entry was dirty and written back, err is the flush error if any.
	RecordEviction(flushed bool, err error)

	// RecordFlush is called after each teardown flush.
	RecordFlush(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPin(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)     {}
func (NoopMetricsCollector) RecordEviction(bool, error)          {}
func (NoopMetricsCollector) RecordFlush(time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PinCount       atomic.Int64
	PinErrors      atomic.Int64
	PinTotalNanos  atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadTotalNanos atomic.Int64
	EvictionCount  atomic.Int64
	FlushCount     atomic.Int64
	FlushErrors    atomic.Int64
}

func (m *BasicMetricsCollector) RecordPin(count int, duration time.Duration, err error) {
	m.PinCount.Add(int64(count))
	m.PinTotalNanos.Add(int64(duration))
	if err != nil {
		m.PinErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	m.LoadCount.Add(1)
	m.LoadTotalNanos.Add(int64(duration))
	if err != nil {
		m.LoadErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordEviction(flushed bool, err error) {
	m.EvictionCount.Add(1)
	if flushed {
		m.FlushCount.Add(1)
	}
	if err != nil {
		m.FlushErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordFlush(duration time.Duration, err error) {
	m.FlushCount.Add(1)
	if err != nil {
		m.FlushErrors.Add(1)
	}
}
