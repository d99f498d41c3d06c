package terngo

import (
	"log/slog"

	"github.com/hupe1980/terngo/backend"
)

type options struct {
	backend          backend.Backend
	metricsCollector MetricsCollector
	logger           *Logger
	semanticWeight   float64
}

// Option configures Generator constructor behavior.
type Option func(*options)

// WithBackend configures the compute backend used for batch similarity.
//
// If not set, the backend is detected at Build time: the accelerated
// implementation when the host supports it, the sequential reference
// otherwise.
func WithBackend(be backend.Backend) Option {
	return func(o *options) {
		o.backend = be
	}
}

// WithSemanticWeight configures the share of semantic similarity in the
// blended ranking score, in [0, 1]. Defaults to scoring.DefaultSemanticWeight.
func WithSemanticWeight(w float64) Option {
	return func(o *options) {
		o.semanticWeight = w
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &terngo.BasicMetricsCollector{}
//	gen, _ := terngo.Sparse(384).Build(terngo.WithMetricsCollector(metrics))
//	// ... use gen ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := terngo.NewJSONLogger(slog.LevelInfo)
//	gen, _ := terngo.Sparse(384).Build(terngo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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
		semanticWeight:   DefaultSemanticWeight,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
