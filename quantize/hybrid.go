package quantize

import (
	"github.com/hupe1980/terngo/ternary"
)

// HybridQuantizer composes the sparse and residual strategies: the sparse
// quantizer selects which positions are retained, then an RVQ quantizer
// scoped to the sparse support re-encodes the dense values at those
// positions. The hybrid never changes which positions are retained, only the
// values assigned to them.
//
// Codebooks are sized to the configured top-k, not the full dimension.
// Supports shorter than top-k are zero-padded for encoding and truncated on
// reconstruction.
type HybridQuantizer struct {
	sparse  *SparseQuantizer
	refiner *RVQQuantizer
	topK    int
}

// NewHybridQuantizer creates a hybrid quantizer. The sparse configuration
// must carry a top-k cap (it fixes the refiner dimension) and at least one
// codebook layer of that dimension is required.
func NewHybridQuantizer(config SparsityConfig, layers []*Codebook) (*HybridQuantizer, error) {
	if config.TopK == nil {
		return nil, &ErrInvalidConfig{Field: "top_k", Reason: "required for hybrid strategy"}
	}
	if *config.TopK <= 0 {
		return nil, &ErrInvalidConfig{Field: "top_k", Reason: "must be positive for hybrid strategy"}
	}
	if len(layers) == 0 {
		return nil, &ErrInvalidConfig{Field: "layers", Reason: "hybrid strategy requires at least one codebook layer"}
	}

	sparse, err := NewSparseQuantizer(config)
	if err != nil {
		return nil, err
	}
	refiner, err := NewRVQQuantizer(*config.TopK, layers)
	if err != nil {
		return nil, err
	}

	return &HybridQuantizer{sparse: sparse, refiner: refiner, topK: *config.TopK}, nil
}

// Sparse returns the support-selecting quantizer.
func (hq *HybridQuantizer) Sparse() *SparseQuantizer {
	return hq.sparse
}

// Refiner returns the support-scoped residual quantizer.
func (hq *HybridQuantizer) Refiner() *RVQQuantizer {
	return hq.refiner
}

// Quantize selects the sparse support over the full vector, then refines the
// dense values at the retained positions through the residual quantizer.
func (hq *HybridQuantizer) Quantize(dense []float32) (*ternary.HybridCode, error) {
	support, err := hq.sparse.Quantize(dense)
	if err != nil {
		return nil, err
	}

	// Sub-vector of original dense values at the retained positions,
	// zero-padded to the refiner dimension.
	sub := make([]float32, hq.topK)
	for i, idx := range support.Indices() {
		sub[i] = dense[idx]
	}

	refined, err := hq.refiner.Quantize(sub)
	if err != nil {
		return nil, err
	}

	return ternary.NewHybridCode(support, refined)
}

// Dequantize reconstructs the dense approximation: the refined sub-vector is
// decoded and scattered back to the sparse support positions; everything
// outside the support stays zero.
func (hq *HybridQuantizer) Dequantize(code *ternary.HybridCode) ([]float32, error) {
	sub, err := hq.refiner.Dequantize(code.Refined())
	if err != nil {
		return nil, err
	}

	support := code.Sparse()
	dense := make([]float32, support.Dimension())
	for i, idx := range support.Indices() {
		dense[idx] = sub[i]
	}
	return dense, nil
}
