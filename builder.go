// This file implements strategy-specific fluent builder APIs for creating and
// configuring Generator instances. Builders are immutable - each method
// returns a new builder with the updated configuration.
package terngo

import (
	"context"

	"github.com/hupe1980/terngo/backend"
	"github.com/hupe1980/terngo/quantize"
	"github.com/hupe1980/terngo/scoring"
)

// =============================================================================
// Sparse Builder (Immutable)
// =============================================================================

// Sparse creates a new sparse-strategy builder with the specified dimension.
// Sparse quantization is codebook-free: values are thresholded to balanced
// ternary and capped to the top-k strongest magnitudes.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	gen, err := terngo.Sparse(384).
//	    TopK(50).
//	    Threshold(0.01).
//	    Build()
func Sparse(dimension int) SparseBuilder {
	return SparseBuilder{
		dimension: dimension,
		config:    quantize.DefaultSparsityConfig(),
	}
}

// SparseBuilder is an immutable fluent builder for sparse-strategy Generators.
type SparseBuilder struct {
	dimension int
	config    quantize.SparsityConfig
}

// TopK caps the number of non-zero positions kept per embedding.
// Default: 50. A top-k of 0 produces empty embeddings.
func (b SparseBuilder) TopK(k int) SparseBuilder {
	b.config.TopK = &k
	return b
}

// NoTopK removes the non-zero cap; every value above the threshold is kept.
func (b SparseBuilder) NoTopK() SparseBuilder {
	b.config.TopK = nil
	return b
}

// Threshold sets the minimum normalized magnitude a value needs to survive
// quantization, in [0, 1]. Default: 0.01.
func (b SparseBuilder) Threshold(t float32) SparseBuilder {
	b.config.Threshold = t
	return b
}

// TargetSparsity sets the advisory sparsity target, in [0, 1).
// Default: 0.85.
func (b SparseBuilder) TargetSparsity(s float32) SparseBuilder {
	b.config.TargetSparsity = s
	return b
}

// Build creates the Generator.
func (b SparseBuilder) Build(optFns ...Option) (*Generator, error) {
	sq, err := quantize.NewSparseQuantizer(b.config)
	if err != nil {
		return nil, translateError(err)
	}
	return newGenerator(StrategySparse, b.dimension, sq, nil, nil, optFns)
}

// MustBuild creates the Generator and panics on error.
func (b SparseBuilder) MustBuild(optFns ...Option) *Generator {
	g, err := b.Build(optFns...)
	if err != nil {
		panic(err)
	}
	return g
}

// =============================================================================
// RVQ Builder (Immutable)
// =============================================================================

// RVQ creates a new residual-quantization builder with the specified
// dimension. Each layer quantizes the residual left by the previous one, so
// reconstruction error never increases with depth.
//
// Example:
//
//	gen, err := terngo.RVQ(384).
//	    Layers(4).
//	    CodebookSize(256).
//	    Seed(42).
//	    Build()
func RVQ(dimension int) RVQBuilder {
	return RVQBuilder{
		dimension:    dimension,
		layers:       2,
		codebookSize: 256,
		seed:         1,
	}
}

// RVQBuilder is an immutable fluent builder for RVQ-strategy Generators.
type RVQBuilder struct {
	dimension    int
	layers       int
	codebookSize int
	seed         int64
	codebooks    []*quantize.Codebook
}

// Layers sets the number of codebook layers. Default: 2.
func (b RVQBuilder) Layers(n int) RVQBuilder {
	b.layers = n
	return b
}

// CodebookSize sets the number of entries per codebook layer. Default: 256.
func (b RVQBuilder) CodebookSize(size int) RVQBuilder {
	b.codebookSize = size
	return b
}

// Seed sets the seed for deterministic codebook initialization. Default: 1.
func (b RVQBuilder) Seed(seed int64) RVQBuilder {
	b.seed = seed
	return b
}

// Codebooks supplies pre-trained codebook layers instead of seeded ones,
// e.g. from quantize.TrainCodebook. Overrides Layers, CodebookSize and Seed.
func (b RVQBuilder) Codebooks(layers ...*quantize.Codebook) RVQBuilder {
	b.codebooks = layers
	return b
}

// Build creates the Generator.
func (b RVQBuilder) Build(optFns ...Option) (*Generator, error) {
	layers := b.codebooks
	if layers == nil {
		var err error
		layers, err = quantize.SeededLayers(b.dimension, b.layers, b.codebookSize, b.seed)
		if err != nil {
			return nil, translateError(err)
		}
	}
	if len(layers) == 0 {
		return nil, &ErrInvalidConfiguration{Field: "layers", Reason: "must not be empty"}
	}

	rq, err := quantize.NewRVQQuantizer(b.dimension, layers)
	if err != nil {
		return nil, translateError(err)
	}
	return newGenerator(StrategyRVQ, b.dimension, nil, rq, nil, optFns)
}

// MustBuild creates the Generator and panics on error.
func (b RVQBuilder) MustBuild(optFns ...Option) *Generator {
	g, err := b.Build(optFns...)
	if err != nil {
		panic(err)
	}
	return g
}

// =============================================================================
// Hybrid Builder (Immutable)
// =============================================================================

// Hybrid creates a new hybrid-strategy builder with the specified dimension.
// Hybrid quantization selects the sparse support first, then refines the
// original values on that support with residual quantization. The refinement
// codebooks span the top-k sub-space, not the full dimension.
//
// Example:
//
//	gen, err := terngo.Hybrid(384).
//	    TopK(50).
//	    Layers(2).
//	    CodebookSize(256).
//	    Build()
func Hybrid(dimension int) HybridBuilder {
	return HybridBuilder{
		dimension:    dimension,
		config:       quantize.DefaultSparsityConfig(),
		layers:       2,
		codebookSize: 256,
		seed:         1,
	}
}

// HybridBuilder is an immutable fluent builder for hybrid-strategy Generators.
type HybridBuilder struct {
	dimension    int
	config       quantize.SparsityConfig
	layers       int
	codebookSize int
	seed         int64
	codebooks    []*quantize.Codebook
}

// TopK caps the number of non-zero positions kept per embedding and sizes the
// refinement codebooks. Default: 50.
func (b HybridBuilder) TopK(k int) HybridBuilder {
	b.config.TopK = &k
	return b
}

// Threshold sets the minimum normalized magnitude a value needs to survive
// quantization, in [0, 1]. Default: 0.01.
func (b HybridBuilder) Threshold(t float32) HybridBuilder {
	b.config.Threshold = t
	return b
}

// TargetSparsity sets the advisory sparsity target, in [0, 1).
// Default: 0.85.
func (b HybridBuilder) TargetSparsity(s float32) HybridBuilder {
	b.config.TargetSparsity = s
	return b
}

// Layers sets the number of refinement codebook layers. Default: 2.
func (b HybridBuilder) Layers(n int) HybridBuilder {
	b.layers = n
	return b
}

// CodebookSize sets the number of entries per refinement layer. Default: 256.
func (b HybridBuilder) CodebookSize(size int) HybridBuilder {
	b.codebookSize = size
	return b
}

// Seed sets the seed for deterministic codebook initialization. Default: 1.
func (b HybridBuilder) Seed(seed int64) HybridBuilder {
	b.seed = seed
	return b
}

// Codebooks supplies pre-trained refinement layers instead of seeded ones.
// Layer dimension must match the configured top-k.
func (b HybridBuilder) Codebooks(layers ...*quantize.Codebook) HybridBuilder {
	b.codebooks = layers
	return b
}

// Build creates the Generator.
func (b HybridBuilder) Build(optFns ...Option) (*Generator, error) {
	if b.config.TopK == nil {
		return nil, &ErrInvalidConfiguration{Field: "top_k", Reason: "is required for the hybrid strategy"}
	}

	layers := b.codebooks
	if layers == nil {
		var err error
		layers, err = quantize.SeededLayers(*b.config.TopK, b.layers, b.codebookSize, b.seed)
		if err != nil {
			return nil, translateError(err)
		}
	}

	hq, err := quantize.NewHybridQuantizer(b.config, layers)
	if err != nil {
		return nil, translateError(err)
	}
	return newGenerator(StrategyHybrid, b.dimension, nil, nil, hq, optFns)
}

// MustBuild creates the Generator and panics on error.
func (b HybridBuilder) MustBuild(optFns ...Option) *Generator {
	g, err := b.Build(optFns...)
	if err != nil {
		panic(err)
	}
	return g
}

// =============================================================================
// Construction
// =============================================================================

func newGenerator(strategy Strategy, dimension int, sq *quantize.SparseQuantizer, rq *quantize.RVQQuantizer, hq *quantize.HybridQuantizer, optFns []Option) (*Generator, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidConfiguration{Field: "dimension", Reason: "must be positive"}
	}

	o := applyOptions(optFns)

	sc := scoring.Config{SemanticWeight: o.semanticWeight}
	if err := sc.Validate(); err != nil {
		return nil, &ErrInvalidConfiguration{Field: "semantic_weight", Reason: "must be in [0, 1]", cause: err}
	}

	be := o.backend
	var status backend.Status
	if be == nil {
		be, status = backend.Detect(o.logger.Logger)
	} else {
		status = backend.Status{Name: be.Name(), Accelerated: be.Accelerated()}
	}
	o.logger.LogBackendInit(context.Background(), status.Name, status.Accelerated, status.FellBack, status.Reason)

	return &Generator{
		strategy:      strategy,
		dimension:     dimension,
		sparse:        sq,
		rvq:           rq,
		hybrid:        hq,
		backend:       be,
		backendStatus: status,
		scoring:       sc,
		logger:        o.logger,
		metrics:       o.metricsCollector,
	}, nil
}
