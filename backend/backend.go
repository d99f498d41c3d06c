// Package backend provides the compute backend abstraction for batch
// similarity. A sequential reference implementation is always available; an
// accelerated implementation (vectorized kernels plus data-parallel fan-out)
// is selected at startup when the host supports it. Callers are agnostic to
// which backend is active.
package backend

import (
	"context"
	"errors"

	"github.com/hupe1980/terngo/ternary"
)

// ErrUnavailable is returned by the accelerated constructor when the host
// cannot run it. Detect recovers from it internally; callers only observe it
// through Status.
var ErrUnavailable = errors.New("accelerated backend unavailable")

// Backend computes batch cosine similarity. Output order always matches the
// input candidate order, regardless of execution order, since downstream
// ranking depends on index correspondence.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	// Name returns the backend identifier ("sequential" or "accelerated").
	Name() string

	// Accelerated reports whether this is the accelerated implementation.
	Accelerated() bool

	// BatchCosine scores every candidate against the query.
	// out[i] corresponds to candidates[i].
	BatchCosine(ctx context.Context, query *ternary.SparseEmbedding, candidates []*ternary.SparseEmbedding) ([]float32, error)

	// BatchCosineDense scores dense candidates against a dense query.
	// out[i] corresponds to candidates[i].
	BatchCosineDense(ctx context.Context, query []float32, candidates [][]float32) ([]float32, error)

	// Close releases backend-owned resources. The sequential backend owns
	// nothing beyond stack-local buffers; Close is then a no-op.
	Close() error
}

// Status describes the outcome of backend selection. Fallback is observable
// here, never as an error on the call path.
type Status struct {
	Name        string `json:"name"`
	Accelerated bool   `json:"accelerated"`
	FellBack    bool   `json:"fell_back"`
	Reason      string `json:"reason,omitempty"`
}
