package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terngo/ternary"
)

func mustSparse(t *testing.T, dim int, indices []uint32, values []ternary.Value) *ternary.SparseEmbedding {
	t.Helper()
	e, err := ternary.NewSparseEmbedding(dim, indices, values)
	require.NoError(t, err)
	return e
}

func TestCosineSparseSelf(t *testing.T) {
	e := mustSparse(t, 10, []uint32{1, 3, 5}, []ternary.Value{ternary.Positive, ternary.Negative, ternary.Positive})

	sim, err := CosineSparse(e, e)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)
}

func TestCosineSparseIdenticalSupport(t *testing.T) {
	a := mustSparse(t, 10, []uint32{1, 3, 5}, []ternary.Value{ternary.Positive, ternary.Positive, ternary.Positive})
	b := mustSparse(t, 10, []uint32{1, 3, 5}, []ternary.Value{ternary.Positive, ternary.Positive, ternary.Positive})

	sim, err := CosineSparse(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)
}

func TestCosineSparseOpposite(t *testing.T) {
	a := mustSparse(t, 10, []uint32{2, 4}, []ternary.Value{ternary.Positive, ternary.Negative})
	b := mustSparse(t, 10, []uint32{2, 4}, []ternary.Value{ternary.Negative, ternary.Positive})

	sim, err := CosineSparse(a, b)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-6)
}

func TestCosineSparseDisjoint(t *testing.T) {
	a := mustSparse(t, 10, []uint32{0, 1}, []ternary.Value{ternary.Positive, ternary.Positive})
	b := mustSparse(t, 10, []uint32{8, 9}, []ternary.Value{ternary.Positive, ternary.Positive})

	sim, err := CosineSparse(a, b)
	require.NoError(t, err)
	assert.Zero(t, sim)
}

func TestCosineSparseEmptyOperand(t *testing.T) {
	a := ternary.EmptySparseEmbedding(10)
	b := mustSparse(t, 10, []uint32{1}, []ternary.Value{ternary.Positive})

	sim, err := CosineSparse(a, b)
	require.NoError(t, err)
	assert.Zero(t, sim)
}

func TestCosineSparseSymmetric(t *testing.T) {
	a := mustSparse(t, 20, []uint32{1, 5, 9, 14}, []ternary.Value{ternary.Positive, ternary.Negative, ternary.Positive, ternary.Negative})
	b := mustSparse(t, 20, []uint32{1, 9, 17}, []ternary.Value{ternary.Negative, ternary.Positive, ternary.Positive})

	ab, err := CosineSparse(a, b)
	require.NoError(t, err)
	ba, err := CosineSparse(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestCosineSparsePartialOverlap(t *testing.T) {
	// Overlap at 1 (agree, +1*+1) and 5 (disagree, +1*-1): dot = 0.
	a := mustSparse(t, 10, []uint32{1, 5}, []ternary.Value{ternary.Positive, ternary.Positive})
	b := mustSparse(t, 10, []uint32{1, 5, 7}, []ternary.Value{ternary.Positive, ternary.Negative, ternary.Positive})

	sim, err := CosineSparse(a, b)
	require.NoError(t, err)
	assert.Zero(t, sim)
}

func TestCosineSparseDimensionMismatch(t *testing.T) {
	a := mustSparse(t, 10, []uint32{1}, []ternary.Value{ternary.Positive})
	b := mustSparse(t, 20, []uint32{1}, []ternary.Value{ternary.Positive})

	_, err := CosineSparse(a, b)
	var dm *ternary.ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 10, dm.Expected)
	assert.Equal(t, 20, dm.Actual)
}

func TestHammingSparse(t *testing.T) {
	a := mustSparse(t, 10, []uint32{1, 3, 5}, []ternary.Value{ternary.Positive, ternary.Negative, ternary.Positive})
	b := mustSparse(t, 10, []uint32{1, 3, 7}, []ternary.Value{ternary.Positive, ternary.Positive, ternary.Positive})

	// Position 1 agrees, position 3 disagrees, 5 and 7 are unshared.
	matching, err := HammingSparse(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, matching)
}

func TestHammingSparseDimensionMismatch(t *testing.T) {
	a := mustSparse(t, 10, []uint32{1}, []ternary.Value{ternary.Positive})
	b := mustSparse(t, 5, []uint32{1}, []ternary.Value{ternary.Positive})

	_, err := HammingSparse(a, b)
	assert.Error(t, err)
}

func TestOverlapCount(t *testing.T) {
	a := mustSparse(t, 10, []uint32{1, 3, 5}, []ternary.Value{ternary.Positive, ternary.Negative, ternary.Positive})
	b := mustSparse(t, 10, []uint32{3, 5, 7}, []ternary.Value{ternary.Positive, ternary.Positive, ternary.Negative})

	assert.Equal(t, 2, OverlapCount(a, b))
	assert.Equal(t, 0, OverlapCount(a, ternary.EmptySparseEmbedding(10)))
}

func TestCosineDense(t *testing.T) {
	sim, err := CosineDense([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1, sim, 1e-6)

	sim, err = CosineDense([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.Zero(t, sim)

	_, err = CosineDense([]float32{1}, []float32{1, 2})
	assert.Error(t, err)
}
