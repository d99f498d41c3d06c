package terngo

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terngo/backend"
	"github.com/hupe1980/terngo/config"
	"github.com/hupe1980/terngo/ternary"
)

func randomDense(dim int, seed int64) []float32 {
	rng := rand.New(rand.NewSource(seed))
	dense := make([]float32, dim)
	for i := range dense {
		dense[i] = rng.Float32()*2 - 1
	}
	return dense
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"sparse", "rvq", "hybrid"} {
		s, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}

	_, err := ParseStrategy("binary")
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestGeneratorSparseQuantize(t *testing.T) {
	gen, err := Sparse(10).TopK(4).Threshold(0.01).Build()
	require.NoError(t, err)
	defer gen.Close()

	assert.Equal(t, StrategySparse, gen.Strategy())
	assert.Equal(t, 10, gen.Dimension())

	q, err := gen.Quantize([]float32{0.8, 0.6, -0.5, 0.2, -0.3, 0.7, 0.1, -0.6, 0.4, 0.9})
	require.NoError(t, err)
	assert.Equal(t, ternary.KindSparse, q.Kind())

	view, ok := q.SparseView()
	require.True(t, ok)
	assert.Equal(t, 4, view.NonZeroCount())

	dense, err := gen.Reconstruct(q)
	require.NoError(t, err)
	assert.Len(t, dense, 10)
}

func TestGeneratorQuantizeDimensionMismatch(t *testing.T) {
	gen, err := Sparse(10).Build()
	require.NoError(t, err)
	defer gen.Close()

	_, err = gen.Quantize([]float32{1, 2, 3})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 10, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
}

func TestGeneratorRVQRoundTrip(t *testing.T) {
	gen, err := RVQ(16).Layers(3).CodebookSize(32).Seed(42).Build()
	require.NoError(t, err)
	defer gen.Close()

	dense := randomDense(16, 1)
	q, err := gen.Quantize(dense)
	require.NoError(t, err)
	assert.Equal(t, ternary.KindRVQ, q.Kind())

	reconstructed, err := gen.Reconstruct(q)
	require.NoError(t, err)
	assert.Len(t, reconstructed, 16)
}

func TestGeneratorHybridRoundTrip(t *testing.T) {
	gen, err := Hybrid(20).TopK(5).Layers(2).CodebookSize(16).Build()
	require.NoError(t, err)
	defer gen.Close()

	dense := randomDense(20, 2)
	q, err := gen.Quantize(dense)
	require.NoError(t, err)
	assert.Equal(t, ternary.KindHybrid, q.Kind())

	view, ok := q.SparseView()
	require.True(t, ok)
	assert.LessOrEqual(t, view.NonZeroCount(), 5)

	reconstructed, err := gen.Reconstruct(q)
	require.NoError(t, err)
	assert.Len(t, reconstructed, 20)
}

func TestGeneratorReconstructStrategyMismatch(t *testing.T) {
	gen, err := Sparse(10).Build()
	require.NoError(t, err)
	defer gen.Close()

	code, err := ternary.NewRVQCode(10, []uint32{0})
	require.NoError(t, err)

	_, err = gen.Reconstruct(ternary.QuantizedRVQ(code))
	assert.ErrorIs(t, err, ErrStrategyMismatch)
}

func TestGeneratorSimilaritySparse(t *testing.T) {
	gen, err := Sparse(32).TopK(8).Build()
	require.NoError(t, err)
	defer gen.Close()

	dense := randomDense(32, 3)
	a, err := gen.Quantize(dense)
	require.NoError(t, err)
	b, err := gen.Quantize(dense)
	require.NoError(t, err)

	sim, err := gen.Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1, sim, 1e-6)
}

func TestGeneratorSimilarityRVQViaReconstruction(t *testing.T) {
	gen, err := RVQ(16).Layers(2).CodebookSize(16).Build()
	require.NoError(t, err)
	defer gen.Close()

	a, err := gen.Quantize(randomDense(16, 4))
	require.NoError(t, err)
	b, err := gen.Quantize(randomDense(16, 5))
	require.NoError(t, err)

	sim, err := gen.Similarity(a, b)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sim, float32(-1))
	assert.LessOrEqual(t, sim, float32(1))
}

func TestGeneratorBatchSimilarity(t *testing.T) {
	gen, err := Sparse(64).TopK(16).Build()
	require.NoError(t, err)
	defer gen.Close()

	query, err := gen.Quantize(randomDense(64, 1))
	require.NoError(t, err)

	candidates := make([]ternary.Quantized, 10)
	for i := range candidates {
		candidates[i], err = gen.Quantize(randomDense(64, int64(i+2)))
		require.NoError(t, err)
	}

	sims, err := gen.BatchSimilarity(context.Background(), query, candidates)
	require.NoError(t, err)
	require.Len(t, sims, 10)

	// Batch output must agree with pairwise similarity, in order.
	for i, c := range candidates {
		want, err := gen.Similarity(query, c)
		require.NoError(t, err)
		assert.InDelta(t, want, sims[i], 1e-5, "candidate %d", i)
	}
}

func TestGeneratorBatchSimilarityEmpty(t *testing.T) {
	gen, err := Sparse(8).Build()
	require.NoError(t, err)
	defer gen.Close()

	query, err := gen.Quantize(randomDense(8, 1))
	require.NoError(t, err)

	sims, err := gen.BatchSimilarity(context.Background(), query, nil)
	require.NoError(t, err)
	assert.Empty(t, sims)
}

func TestGeneratorScore(t *testing.T) {
	gen, err := Sparse(8).Build(WithSemanticWeight(0.2))
	require.NoError(t, err)
	defer gen.Close()

	sim := float32(1)
	assert.InDelta(t, 0.8*0.5+0.2*1, gen.Score(0.5, &sim), 1e-9)
	assert.InDelta(t, 0.5, gen.Score(0.5, nil), 1e-9)
}

func TestGeneratorScoreZeroWeight(t *testing.T) {
	gen, err := Sparse(8).Build(WithSemanticWeight(0))
	require.NoError(t, err)
	defer gen.Close()

	sim := float32(0.9)
	assert.InDelta(t, 0.42, gen.Score(0.42, &sim), 1e-9)
}

func TestGeneratorBackendStatus(t *testing.T) {
	gen, err := Sparse(8).Build(WithBackend(backend.NewSequential()))
	require.NoError(t, err)
	defer gen.Close()

	status := gen.BackendStatus()
	assert.Equal(t, "sequential", status.Name)
	assert.False(t, status.Accelerated)
	assert.False(t, status.FellBack)
}

func TestGeneratorMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	gen, err := Sparse(8).Build(WithMetricsCollector(metrics))
	require.NoError(t, err)
	defer gen.Close()

	q, err := gen.Quantize(randomDense(8, 1))
	require.NoError(t, err)
	_, err = gen.Reconstruct(q)
	require.NoError(t, err)
	_, err = gen.Similarity(q, q)
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.QuantizeCount)
	assert.Equal(t, int64(1), stats.ReconstructCount)
	assert.Equal(t, int64(1), stats.SimilarityCount)
	assert.Zero(t, stats.QuantizeErrors)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "sequential"

	gen, err := FromConfig(cfg)
	require.NoError(t, err)
	defer gen.Close()

	assert.Equal(t, StrategySparse, gen.Strategy())
	assert.Equal(t, 384, gen.Dimension())
	assert.Equal(t, "sequential", gen.BackendStatus().Name)
}

func TestFromConfigRVQ(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "rvq"
	cfg.Dimension = 32
	cfg.RVQ.Layers = 2
	cfg.RVQ.CodebookSize = 16
	cfg.Backend = "sequential"

	gen, err := FromConfig(cfg)
	require.NoError(t, err)
	defer gen.Close()

	q, err := gen.Quantize(randomDense(32, 7))
	require.NoError(t, err)
	assert.Equal(t, ternary.KindRVQ, q.Kind())
}

func TestFromConfigInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "binary"
	_, err := FromConfig(cfg)
	assert.Error(t, err)
}
