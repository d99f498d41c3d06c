package backend

import (
	"context"
	"fmt"
	"runtime"

	"github.com/viterin/vek/vek32"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/terngo/internal/vmath"
	"github.com/hupe1980/terngo/similarity"
	"github.com/hupe1980/terngo/ternary"
)

// Accelerated scores candidates with data-parallel fan-out and vectorized
// dense kernels (vek). Candidates are partitioned into contiguous chunks,
// scored concurrently, and written into the output slice by index, so the
// output order matches the input order regardless of completion order.
type Accelerated struct {
	workers int
}

// NewAccelerated creates the accelerated backend. It fails with
// ErrUnavailable when the host CPU lacks the required vector extensions or
// only a single core is available; Detect handles the fallback.
func NewAccelerated() (*Accelerated, error) {
	if !hasVectorISA() {
		return nil, fmt.Errorf("%w: no supported vector instruction set (%s/%s)", ErrUnavailable, runtime.GOOS, runtime.GOARCH)
	}
	workers := runtime.GOMAXPROCS(0)
	if workers < 2 {
		return nil, fmt.Errorf("%w: single-core host", ErrUnavailable)
	}
	return &Accelerated{workers: workers}, nil
}

// Name implements Backend.
func (a *Accelerated) Name() string { return "accelerated" }

// Accelerated implements Backend.
func (a *Accelerated) Accelerated() bool { return true }

// Workers returns the fan-out width.
func (a *Accelerated) Workers() int { return a.workers }

// BatchCosine implements Backend. Candidates are independent, so chunks are
// scored concurrently; results land at their input index.
func (a *Accelerated) BatchCosine(ctx context.Context, query *ternary.SparseEmbedding, candidates []*ternary.SparseEmbedding) ([]float32, error) {
	out := make([]float32, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for start, end := range chunks(len(candidates), a.workers) {
		g.Go(func() error {
			for i := start; i < end; i++ {
				sim, err := similarity.CosineSparse(query, candidates[i])
				if err != nil {
					return fmt.Errorf("candidate %d: %w", i, err)
				}
				out[i] = sim
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// BatchCosineDense implements Backend, using vek dot-product kernels.
func (a *Accelerated) BatchCosineDense(ctx context.Context, query []float32, candidates [][]float32) ([]float32, error) {
	queryNorm := vmath.Sqrt(vek32.Dot(query, query))

	out := make([]float32, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for start, end := range chunks(len(candidates), a.workers) {
		g.Go(func() error {
			for i := start; i < end; i++ {
				cand := candidates[i]
				if len(cand) != len(query) {
					return fmt.Errorf("candidate %d: %w", i,
						&ternary.ErrDimensionMismatch{Expected: len(query), Actual: len(cand)})
				}
				candNorm := vmath.Sqrt(vek32.Dot(cand, cand))
				if queryNorm == 0 || candNorm == 0 {
					out[i] = 0
					continue
				}
				out[i] = vmath.Clamp(vek32.Dot(query, cand)/(queryNorm*candNorm), -1, 1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close implements Backend. The fan-out uses no long-lived goroutines.
func (a *Accelerated) Close() error { return nil }

// chunks yields [start, end) ranges that partition n items into at most
// parts contiguous chunks.
func chunks(n, parts int) func(yield func(int, int) bool) {
	return func(yield func(int, int) bool) {
		if n == 0 {
			return
		}
		chunkSize := (n + parts - 1) / parts
		for start := 0; start < n; start += chunkSize {
			end := start + chunkSize
			if end > n {
				end = n
			}
			if !yield(start, end) {
				return
			}
		}
	}
}
