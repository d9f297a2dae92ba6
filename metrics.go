package bitvis

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
//	    materializeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordMaterialize(duration time.Duration, err error) {
//	    p.materializeHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordPlaceholder is called after each placeholder reservation
	// (phases 1-2 of insert).
	RecordPlaceholder(duration time.Duration, err error)

	// RecordGroupOpen is called whenever an insert opens a new group.
	RecordGroupOpen()

	// RecordMaterialize is called after each materialize call (phase 3).
	RecordMaterialize(duration time.Duration, err error)

	// RecordPropagation is called after a materialize call's propagation
	// pass, with the number of sibling deltas it updated.
	RecordPropagation(siblingsUpdated int)

	// RecordRead is called after each CSN lookup.
	RecordRead(found bool, duration time.Duration)

	// RecordSweep is called after each retention sweep.
	RecordSweep(groupsReclaimable, deltasReclaimable int, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPlaceholder(time.Duration, error) {}
func (NoopMetricsCollector) RecordGroupOpen()                       {}
func (NoopMetricsCollector) RecordMaterialize(time.Duration, error) {}
func (NoopMetricsCollector) RecordPropagation(int)                  {}
func (NoopMetricsCollector) RecordRead(bool, time.Duration)         {}
func (NoopMetricsCollector) RecordSweep(int, int, error)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PlaceholderCount      atomic.Int64
	PlaceholderErrors     atomic.Int64
	PlaceholderTotalNanos atomic.Int64
	GroupOpenCount        atomic.Int64
	MaterializeCount      atomic.Int64
	MaterializeErrors     atomic.Int64
	MaterializeTotalNanos atomic.Int64
	PropagationSiblings   atomic.Int64
	ReadCount             atomic.Int64
	ReadMisses            atomic.Int64
	ReadTotalNanos        atomic.Int64
	SweepCount            atomic.Int64
	SweepErrors           atomic.Int64
}

// RecordPlaceholder implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPlaceholder(duration time.Duration, err error) {
	b.PlaceholderCount.Add(1)
	b.PlaceholderTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PlaceholderErrors.Add(1)
	}
}

// RecordGroupOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGroupOpen() {
	b.GroupOpenCount.Add(1)
}

// RecordMaterialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMaterialize(duration time.Duration, err error) {
	b.MaterializeCount.Add(1)
	b.MaterializeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MaterializeErrors.Add(1)
	}
}

// RecordPropagation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPropagation(siblingsUpdated int) {
	b.PropagationSiblings.Add(int64(siblingsUpdated))
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(found bool, duration time.Duration) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.ReadMisses.Add(1)
	}
}

// RecordSweep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSweep(groupsReclaimable, deltasReclaimable int, err error) {
	b.SweepCount.Add(1)
	if err != nil {
		b.SweepErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PlaceholderCount:    b.PlaceholderCount.Load(),
		PlaceholderErrors:   b.PlaceholderErrors.Load(),
		PlaceholderAvgNanos: b.avgNanos(b.PlaceholderTotalNanos.Load(), b.PlaceholderCount.Load()),
		GroupOpenCount:      b.GroupOpenCount.Load(),
		MaterializeCount:    b.MaterializeCount.Load(),
		MaterializeErrors:   b.MaterializeErrors.Load(),
		MaterializeAvgNanos: b.avgNanos(b.MaterializeTotalNanos.Load(), b.MaterializeCount.Load()),
		ReadCount:           b.ReadCount.Load(),
		ReadMisses:          b.ReadMisses.Load(),
		ReadAvgNanos:        b.avgNanos(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		SweepCount:          b.SweepCount.Load(),
		SweepErrors:         b.SweepErrors.Load(),
	}
}

func (b *BasicMetricsCollector) avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PlaceholderCount    int64
	PlaceholderErrors   int64
	PlaceholderAvgNanos int64
	GroupOpenCount      int64
	MaterializeCount    int64
	MaterializeErrors   int64
	MaterializeAvgNanos int64
	ReadCount           int64
	ReadMisses          int64
	ReadAvgNanos        int64
	SweepCount          int64
	SweepErrors         int64
}
