package terngo

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/terngo/backend"
	"github.com/hupe1980/terngo/config"
	"github.com/hupe1980/terngo/quantize"
	"github.com/hupe1980/terngo/scoring"
	"github.com/hupe1980/terngo/similarity"
	"github.com/hupe1980/terngo/ternary"
)

// DefaultSemanticWeight is the default share of semantic similarity in the
// blended ranking score.
const DefaultSemanticWeight = scoring.DefaultSemanticWeight

// Strategy selects the quantization strategy.
type Strategy uint8

const (
	// StrategySparse is direct ternary quantization with top-k sparsity.
	StrategySparse Strategy = iota + 1

	// StrategyRVQ is residual vector quantization over codebook layers.
	StrategyRVQ

	// StrategyHybrid combines sparse support selection with RVQ refinement.
	StrategyHybrid
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case StrategySparse:
		return "sparse"
	case StrategyRVQ:
		return "rvq"
	case StrategyHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a strategy name to its Strategy value.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "sparse":
		return StrategySparse, nil
	case "rvq":
		return StrategyRVQ, nil
	case "hybrid":
		return StrategyHybrid, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
	}
}

// Generator quantizes dense embeddings with one fixed strategy and computes
// similarity and ranking scores over the quantized form. A Generator is
// immutable after construction and safe for concurrent use.
type Generator struct {
	strategy  Strategy
	dimension int

	sparse *quantize.SparseQuantizer
	rvq    *quantize.RVQQuantizer
	hybrid *quantize.HybridQuantizer

	backend       backend.Backend
	backendStatus backend.Status

	scoring scoring.Config

	logger  *Logger
	metrics MetricsCollector
}

// Strategy returns the generator's quantization strategy.
func (g *Generator) Strategy() Strategy {
	return g.strategy
}

// Dimension returns the dense embedding dimension the generator expects.
func (g *Generator) Dimension() int {
	return g.dimension
}

// Backend returns the compute backend in use.
func (g *Generator) Backend() backend.Backend {
	return g.backend
}

// BackendStatus reports which compute backend was selected and whether the
// accelerated path fell back to the sequential reference.
func (g *Generator) BackendStatus() backend.Status {
	return g.backendStatus
}

// Quantize compresses a dense embedding into the generator's quantized form.
// Quantization is deterministic: the same input always produces the same output.
func (g *Generator) Quantize(dense []float32) (ternary.Quantized, error) {
	start := time.Now()
	q, err := g.quantize(dense)
	g.metrics.RecordQuantize(time.Since(start), err)
	g.logger.LogQuantize(context.Background(), len(dense), nonZeroCount(q), err)
	if err != nil {
		return ternary.Quantized{}, translateError(err)
	}
	return q, nil
}

func (g *Generator) quantize(dense []float32) (ternary.Quantized, error) {
	if len(dense) != g.dimension {
		return ternary.Quantized{}, &ternary.ErrDimensionMismatch{Expected: g.dimension, Actual: len(dense)}
	}

	switch g.strategy {
	case StrategySparse:
		e, err := g.sparse.Quantize(dense)
		if err != nil {
			return ternary.Quantized{}, err
		}
		return ternary.QuantizedSparse(e), nil
	case StrategyRVQ:
		c, err := g.rvq.Quantize(dense)
		if err != nil {
			return ternary.Quantized{}, err
		}
		return ternary.QuantizedRVQ(c), nil
	case StrategyHybrid:
		c, err := g.hybrid.Quantize(dense)
		if err != nil {
			return ternary.Quantized{}, err
		}
		return ternary.QuantizedHybrid(c), nil
	default:
		return ternary.Quantized{}, ErrInvalidStrategy
	}
}

// Reconstruct decodes a quantized embedding back into a dense approximation.
// Sparse embeddings decode without codebooks; RVQ and hybrid embeddings
// require a generator built with the matching strategy.
func (g *Generator) Reconstruct(q ternary.Quantized) ([]float32, error) {
	start := time.Now()
	dense, err := g.reconstruct(q)
	g.metrics.RecordReconstruct(time.Since(start), err)
	g.logger.LogReconstruct(context.Background(), q.Dimension(), err)
	if err != nil {
		return nil, translateError(err)
	}
	return dense, nil
}

func (g *Generator) reconstruct(q ternary.Quantized) ([]float32, error) {
	if dim := q.Dimension(); dim != g.dimension {
		return nil, &ternary.ErrDimensionMismatch{Expected: g.dimension, Actual: dim}
	}

	switch q.Kind() {
	case ternary.KindSparse:
		e, _ := q.Sparse()
		return e.ToDense(), nil
	case ternary.KindRVQ:
		if g.rvq == nil {
			return nil, ErrStrategyMismatch
		}
		c, _ := q.RVQ()
		return g.rvq.Dequantize(c)
	case ternary.KindHybrid:
		if g.hybrid == nil {
			return nil, ErrStrategyMismatch
		}
		c, _ := q.Hybrid()
		return g.hybrid.Dequantize(c)
	default:
		return nil, ternary.ErrInvalidKind
	}
}

// Similarity computes cosine similarity between two quantized embeddings,
// clamped to [-1, 1]. When both embeddings carry a sparse representation the
// computation runs directly on the compressed form; otherwise both sides are
// reconstructed to dense first.
func (g *Generator) Similarity(a, b ternary.Quantized) (float32, error) {
	start := time.Now()
	sim, err := g.similarity(a, b)
	g.metrics.RecordSimilarity(time.Since(start), err)
	if err != nil {
		return 0, translateError(err)
	}
	return sim, nil
}

func (g *Generator) similarity(a, b ternary.Quantized) (float32, error) {
	sa, okA := a.SparseView()
	sb, okB := b.SparseView()
	if okA && okB {
		return similarity.CosineSparse(sa, sb)
	}

	da, err := g.reconstruct(a)
	if err != nil {
		return 0, err
	}
	db, err := g.reconstruct(b)
	if err != nil {
		return 0, err
	}
	return similarity.CosineDense(da, db)
}

// BatchSimilarity computes cosine similarity between the query and every
// candidate, preserving candidate order. The work runs on the generator's
// compute backend. When the query or any candidate lacks a sparse
// representation the whole batch goes through dense reconstruction.
func (g *Generator) BatchSimilarity(ctx context.Context, query ternary.Quantized, candidates []ternary.Quantized) ([]float32, error) {
	start := time.Now()
	sims, err := g.batchSimilarity(ctx, query, candidates)
	g.metrics.RecordBatchSimilarity(len(candidates), time.Since(start), err)
	g.logger.LogBatchSimilarity(ctx, len(candidates), err)
	if err != nil {
		return nil, translateError(err)
	}
	return sims, nil
}

func (g *Generator) batchSimilarity(ctx context.Context, query ternary.Quantized, candidates []ternary.Quantized) ([]float32, error) {
	if len(candidates) == 0 {
		return []float32{}, nil
	}

	if qs, ok := query.SparseView(); ok {
		sparse := make([]*ternary.SparseEmbedding, len(candidates))
		allSparse := true
		for i, c := range candidates {
			cs, ok := c.SparseView()
			if !ok {
				allSparse = false
				break
			}
			sparse[i] = cs
		}
		if allSparse {
			return g.backend.BatchCosine(ctx, qs, sparse)
		}
	}

	dq, err := g.reconstruct(query)
	if err != nil {
		return nil, err
	}
	dense := make([][]float32, len(candidates))
	for i, c := range candidates {
		dc, err := g.reconstruct(c)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		dense[i] = dc
	}
	return g.backend.BatchCosineDense(ctx, dq, dense)
}

// Score blends a metadata relevance score with a semantic similarity into the
// final ranking score. A nil similarity redistributes the semantic weight to
// the metadata score rather than treating the missing value as zero.
func (g *Generator) Score(metadataScore float64, sim *float32) float64 {
	return g.scoring.Score(metadataScore, sim)
}

// Close releases the compute backend.
func (g *Generator) Close() error {
	return g.backend.Close()
}

// FromConfig constructs a Generator from a process configuration.
func FromConfig(cfg config.Config, optFns ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy, err := ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithSemanticWeight(cfg.SemanticWeight)}
	switch cfg.Backend {
	case "sequential":
		opts = append(opts, WithBackend(backend.NewSequential()))
	case "accelerated":
		be, err := backend.NewAccelerated()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBackend(be))
	}
	opts = append(opts, optFns...)

	switch strategy {
	case StrategySparse:
		b := Sparse(cfg.Dimension).
			TargetSparsity(cfg.Sparsity.TargetSparsity).
			Threshold(cfg.Sparsity.Threshold)
		if cfg.Sparsity.TopK != nil {
			b = b.TopK(*cfg.Sparsity.TopK)
		} else {
			b = b.NoTopK()
		}
		return b.Build(opts...)
	case StrategyRVQ:
		return RVQ(cfg.Dimension).
			Layers(cfg.RVQ.Layers).
			CodebookSize(cfg.RVQ.CodebookSize).
			Seed(cfg.RVQ.Seed).
			Build(opts...)
	case StrategyHybrid:
		b := Hybrid(cfg.Dimension).
			TargetSparsity(cfg.Sparsity.TargetSparsity).
			Threshold(cfg.Sparsity.Threshold).
			Layers(cfg.RVQ.Layers).
			CodebookSize(cfg.RVQ.CodebookSize).
			Seed(cfg.RVQ.Seed)
		if cfg.Sparsity.TopK != nil {
			b = b.TopK(*cfg.Sparsity.TopK)
		}
		return b.Build(opts...)
	default:
		return nil, ErrInvalidStrategy
	}
}

func nonZeroCount(q ternary.Quantized) int {
	if e, ok := q.SparseView(); ok {
		return e.NonZeroCount()
	}
	return 0
}
