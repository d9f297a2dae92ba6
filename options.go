package bitvis

import (
	"log/slog"

	"github.com/hexadb/bitvis/chain"
	"github.com/hexadb/bitvis/retention"
)

type options struct {
	metricsCollector   MetricsCollector
	logger             *Logger
	maxGroupSize       int
	resourceConfig     retention.ControllerConfig
	haveResourceConfig bool
}

// Option configures a Store at construction time.
//
// Breaking changes are expected while bitvis is pre-release.
type Option func(*options)

// WithMaxGroupSize overrides the default number of deltas (including the
// opening delta) a group accepts before the next insert opens a new one.
func WithMaxGroupSize(n int) Option {
	return func(o *options) {
		o.maxGroupSize = n
	}
}

// WithConcurrencyLimit bounds how many materialize calls (phase 3: encode
// plus propagation) may run at once. Zero means unlimited.
//
// Materialize is the expensive phase - placeholder reservation is O(1)
// under a lock, but materialize walks the group's delta chain from head
// down to the delta being materialized to find the propagation barrier. Under bursty concurrent writers this
// bounds how many of those walks run in parallel.
func WithConcurrencyLimit(n int64) Option {
	return func(o *options) {
		o.resourceConfig.MaxConcurrentMaterializations = n
		o.haveResourceConfig = true
	}
}

// WithSweepRate bounds how often Sweep may run, in sweeps per second. Zero
// means unlimited.
func WithSweepRate(perSecond float64) Option {
	return func(o *options) {
		o.resourceConfig.SweepRatePerSecond = perSecond
		o.haveResourceConfig = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bitvis.BasicMetricsCollector{}
//	store := bitvis.New(activeCSNs, bitvis.WithMetricsCollector(metrics))
//	// ... use store ...
//	stats := metrics.GetStats()
//	fmt.Printf("materializes: %d, avg latency: %dns\n", stats.MaterializeCount, stats.MaterializeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := bitvis.NewJSONLogger(slog.LevelInfo)
//	store := bitvis.New(activeCSNs, bitvis.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		maxGroupSize:     chain.DefaultMaxGroupSize,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
