package quantize

import (
	"fmt"
	"slices"

	"github.com/hupe1980/terngo/internal/vmath"
	"github.com/hupe1980/terngo/ternary"
)

// RVQQuantizer implements greedy residual vector quantization: each layer
// encodes the residual left by the previous layers as the index of its
// nearest codebook entry. The scheme is greedy per layer, not jointly
// optimal across layers.
//
// Layer count and entry counts are fixed at construction; Quantize never
// resizes them. The quantizer holds no mutable state after construction and
// is safe for concurrent use.
type RVQQuantizer struct {
	dimension int
	layers    []*Codebook
}

// NewRVQQuantizer creates a residual quantizer over the given codebook
// layers. All layers must share the quantizer dimension. An empty layer
// sequence is allowed: Quantize then returns an empty code and Dequantize a
// zero vector. Strategies that require at least one layer enforce that at
// their own construction.
func NewRVQQuantizer(dimension int, layers []*Codebook) (*RVQQuantizer, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidConfig{Field: "dimension", Reason: "must be positive"}
	}
	for i, cb := range layers {
		if cb == nil {
			return nil, &ErrInvalidConfig{Field: "layers", Reason: fmt.Sprintf("layer %d is nil", i)}
		}
		if cb.Dimension() != dimension {
			return nil, &ternary.ErrDimensionMismatch{Expected: dimension, Actual: cb.Dimension()}
		}
	}
	return &RVQQuantizer{dimension: dimension, layers: slices.Clone(layers)}, nil
}

// Dimension returns the dense dimension the quantizer operates on.
func (rq *RVQQuantizer) Dimension() int {
	return rq.dimension
}

// Layers returns the number of codebook layers.
func (rq *RVQQuantizer) Layers() int {
	return len(rq.layers)
}

// Layer returns the codebook at the given layer.
func (rq *RVQQuantizer) Layer(i int) *Codebook {
	return rq.layers[i]
}

// Quantize encodes a dense vector as one codebook entry index per layer.
// Each layer scans its entries linearly for the one minimizing squared L2
// distance to the current residual (ties toward the lowest entry index),
// records the index, and subtracts the entry from the residual.
func (rq *RVQQuantizer) Quantize(dense []float32) (*ternary.RVQCode, error) {
	if len(dense) != rq.dimension {
		return nil, &ternary.ErrDimensionMismatch{Expected: rq.dimension, Actual: len(dense)}
	}

	residual := slices.Clone(dense)
	indices := make([]uint32, len(rq.layers))
	for layer, cb := range rq.layers {
		idx := cb.Nearest(residual)
		indices[layer] = uint32(idx)
		vmath.SubInPlace(residual, cb.Entry(idx))
	}

	return ternary.NewRVQCode(rq.dimension, indices)
}

// Dequantize reconstructs the dense approximation by summing the selected
// entry of every layer.
func (rq *RVQQuantizer) Dequantize(code *ternary.RVQCode) ([]float32, error) {
	if code.Dimension() != rq.dimension {
		return nil, &ternary.ErrDimensionMismatch{Expected: rq.dimension, Actual: code.Dimension()}
	}
	indices := code.Indices()
	if len(indices) != len(rq.layers) {
		return nil, fmt.Errorf("code has %d layers, quantizer has %d", len(indices), len(rq.layers))
	}

	reconstructed := make([]float32, rq.dimension)
	for layer, cb := range rq.layers {
		idx := int(indices[layer])
		if idx >= cb.Size() {
			return nil, fmt.Errorf("layer %d entry index %d exceeds codebook size %d", layer, idx, cb.Size())
		}
		vmath.AddInPlace(reconstructed, cb.Entry(idx))
	}
	return reconstructed, nil
}

// SeededLayers builds numLayers deterministic codebooks for the given
// dimension and size. Layer i is seeded with seed+i so layers differ.
func SeededLayers(dimension, numLayers, size int, seed int64) ([]*Codebook, error) {
	if numLayers < 0 {
		return nil, &ErrInvalidConfig{Field: "num_layers", Reason: "must not be negative"}
	}
	layers := make([]*Codebook, numLayers)
	for i := range layers {
		cb, err := NewSeededCodebook(dimension, size, seed+int64(i))
		if err != nil {
			return nil, err
		}
		layers[i] = cb
	}
	return layers, nil
}
