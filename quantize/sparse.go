package quantize

import (
	"sort"

	"github.com/hupe1980/terngo/internal/vmath"
	"github.com/hupe1980/terngo/ternary"
)

// SparseQuantizer implements direct ternary quantization with top-k sparsity
// (codebook-free). It holds no mutable state and is safe for concurrent use.
type SparseQuantizer struct {
	config SparsityConfig
}

// NewSparseQuantizer creates a sparse quantizer. The configuration is
// validated here; a returned quantizer never fails on well-formed input.
func NewSparseQuantizer(config SparsityConfig) (*SparseQuantizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SparseQuantizer{config: config}, nil
}

// Config returns the quantizer configuration.
func (sq *SparseQuantizer) Config() SparsityConfig {
	return sq.config
}

type sparseCandidate struct {
	index     uint32
	value     ternary.Value
	magnitude float32
}

// Quantize converts a dense vector to a sparse ternary embedding:
//
//  1. Normalize by the vector's max absolute value.
//  2. Threshold each dimension to {-1, 0, +1}.
//  3. If TopK is set and exceeded, keep the TopK largest normalized
//     magnitudes; equal magnitudes keep the lower index.
//  4. Emit non-zero entries with ascending indices.
//
// An all-zero input yields an empty embedding, not an error. Output is
// deterministic for identical input and configuration.
func (sq *SparseQuantizer) Quantize(dense []float32) (*ternary.SparseEmbedding, error) {
	dimension := len(dense)

	maxAbs := vmath.MaxAbs(dense)
	if maxAbs == 0 {
		return ternary.EmptySparseEmbedding(dimension), nil
	}

	threshold := sq.config.Threshold
	candidates := make([]sparseCandidate, 0, dimension)
	for i, x := range dense {
		normalized := x / maxAbs
		var v ternary.Value
		switch {
		case normalized > threshold:
			v = ternary.Positive
		case normalized < -threshold:
			v = ternary.Negative
		default:
			continue
		}
		mag := normalized
		if mag < 0 {
			mag = -mag
		}
		candidates = append(candidates, sparseCandidate{
			index:     uint32(i),
			value:     v,
			magnitude: mag,
		})
	}

	if k := sq.config.TopK; k != nil && len(candidates) > *k {
		// Largest magnitude first; equal magnitudes break toward the
		// lower index so output is deterministic.
		sort.Slice(candidates, func(a, b int) bool {
			if candidates[a].magnitude != candidates[b].magnitude {
				return candidates[a].magnitude > candidates[b].magnitude
			}
			return candidates[a].index < candidates[b].index
		})
		candidates = candidates[:*k]
		sort.Slice(candidates, func(a, b int) bool {
			return candidates[a].index < candidates[b].index
		})
	}

	indices := make([]uint32, len(candidates))
	values := make([]ternary.Value, len(candidates))
	for i, c := range candidates {
		indices[i] = c.index
		values[i] = c.value
	}

	return ternary.NewSparseEmbedding(dimension, indices, values)
}

// Dequantize reconstructs the dense approximation: ±1 at retained positions.
// Ternary reconstruction is lossy by design; magnitude beyond sign is gone.
func (sq *SparseQuantizer) Dequantize(e *ternary.SparseEmbedding) []float32 {
	return e.ToDense()
}
