package backend

import (
	"context"
	"fmt"

	"github.com/hupe1980/terngo/similarity"
	"github.com/hupe1980/terngo/ternary"
)

// Sequential is the reference backend: one pass over the candidates on the
// calling goroutine. Always available.
type Sequential struct{}

// NewSequential creates the sequential reference backend.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Name implements Backend.
func (s *Sequential) Name() string { return "sequential" }

// Accelerated implements Backend.
func (s *Sequential) Accelerated() bool { return false }

// BatchCosine implements Backend.
func (s *Sequential) BatchCosine(_ context.Context, query *ternary.SparseEmbedding, candidates []*ternary.SparseEmbedding) ([]float32, error) {
	out := make([]float32, len(candidates))
	for i, cand := range candidates {
		sim, err := similarity.CosineSparse(query, cand)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out[i] = sim
	}
	return out, nil
}

// BatchCosineDense implements Backend.
func (s *Sequential) BatchCosineDense(_ context.Context, query []float32, candidates [][]float32) ([]float32, error) {
	out := make([]float32, len(candidates))
	for i, cand := range candidates {
		sim, err := similarity.CosineDense(query, cand)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out[i] = sim
	}
	return out, nil
}

// Close implements Backend. The sequential backend owns no resources.
func (s *Sequential) Close() error { return nil }
