package terngo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordQuantize is called after each quantize operation.
	// duration is the total time taken, err is nil if successful.
	RecordQuantize(duration time.Duration, err error)

	// RecordReconstruct is called after each reconstruct operation.
	RecordReconstruct(duration time.Duration, err error)

	// RecordSimilarity is called after each pairwise similarity operation.
	RecordSimilarity(duration time.Duration, err error)

	// RecordBatchSimilarity is called after each batch similarity operation.
	// count is the number of candidates scored.
	RecordBatchSimilarity(count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuantize(time.Duration, error)             {}
func (NoopMetricsCollector) RecordReconstruct(time.Duration, error)          {}
func (NoopMetricsCollector) RecordSimilarity(time.Duration, error)           {}
func (NoopMetricsCollector) RecordBatchSimilarity(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QuantizeCount        atomic.Int64
	QuantizeErrors       atomic.Int64
	QuantizeTotalNanos   atomic.Int64
	ReconstructCount     atomic.Int64
	ReconstructErrors    atomic.Int64
	SimilarityCount      atomic.Int64
	SimilarityErrors     atomic.Int64
	SimilarityTotalNanos atomic.Int64
	BatchCount           atomic.Int64
	BatchCandidates      atomic.Int64
	BatchErrors          atomic.Int64
}

// RecordQuantize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuantize(duration time.Duration, err error) {
	b.QuantizeCount.Add(1)
	b.QuantizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QuantizeErrors.Add(1)
	}
}

// RecordReconstruct implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReconstruct(duration time.Duration, err error) {
	b.ReconstructCount.Add(1)
	if err != nil {
		b.ReconstructErrors.Add(1)
	}
}

// RecordSimilarity implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSimilarity(duration time.Duration, err error) {
	b.SimilarityCount.Add(1)
	b.SimilarityTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SimilarityErrors.Add(1)
	}
}

// RecordBatchSimilarity implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchSimilarity(count int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchCandidates.Add(int64(count))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QuantizeCount:     b.QuantizeCount.Load(),
		QuantizeErrors:    b.QuantizeErrors.Load(),
		QuantizeAvgNanos:  b.getAvgQuantizeNanos(),
		ReconstructCount:  b.ReconstructCount.Load(),
		ReconstructErrors: b.ReconstructErrors.Load(),
		SimilarityCount:   b.SimilarityCount.Load(),
		SimilarityErrors:  b.SimilarityErrors.Load(),
		SimilarityAvgNanos: b.getAvgSimilarityNanos(),
		BatchCount:        b.BatchCount.Load(),
		BatchCandidates:   b.BatchCandidates.Load(),
		BatchErrors:       b.BatchErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQuantizeNanos() int64 {
	count := b.QuantizeCount.Load()
	if count == 0 {
		return 0
	}
	return b.QuantizeTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgSimilarityNanos() int64 {
	count := b.SimilarityCount.Load()
	if count == 0 {
		return 0
	}
	return b.SimilarityTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QuantizeCount      int64
	QuantizeErrors     int64
	QuantizeAvgNanos   int64
	ReconstructCount   int64
	ReconstructErrors  int64
	SimilarityCount    int64
	SimilarityErrors   int64
	SimilarityAvgNanos int64
	BatchCount         int64
	BatchCandidates    int64
	BatchErrors        int64
}
