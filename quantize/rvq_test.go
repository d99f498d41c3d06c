package quantize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terngo/internal/vmath"
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

func TestRVQQuantizeRoundTrip(t *testing.T) {
	layers, err := SeededLayers(16, 3, 32, 1)
	require.NoError(t, err)
	rq, err := NewRVQQuantizer(16, layers)
	require.NoError(t, err)

	dense := randomDense(16, 5)
	code, err := rq.Quantize(dense)
	require.NoError(t, err)
	assert.Equal(t, 3, code.Layers())
	assert.Equal(t, 16, code.Dimension())

	reconstructed, err := rq.Dequantize(code)
	require.NoError(t, err)
	assert.Len(t, reconstructed, 16)
}

func TestRVQDeterministic(t *testing.T) {
	layers, err := SeededLayers(8, 2, 16, 3)
	require.NoError(t, err)
	rq, err := NewRVQQuantizer(8, layers)
	require.NoError(t, err)

	dense := randomDense(8, 11)
	a, err := rq.Quantize(dense)
	require.NoError(t, err)
	b, err := rq.Quantize(dense)
	require.NoError(t, err)
	assert.Equal(t, a.Indices(), b.Indices())
}

func TestRVQMonotonicImprovement(t *testing.T) {
	// Adding layers never increases reconstruction error: entry 0 of a
	// seeded codebook is the zero vector, so a layer can always pass the
	// residual through unchanged.
	dense := randomDense(12, 21)

	prevErr := float32(1e30)
	for numLayers := 1; numLayers <= 5; numLayers++ {
		layers, err := SeededLayers(12, numLayers, 16, 1)
		require.NoError(t, err)
		rq, err := NewRVQQuantizer(12, layers)
		require.NoError(t, err)

		code, err := rq.Quantize(dense)
		require.NoError(t, err)
		reconstructed, err := rq.Dequantize(code)
		require.NoError(t, err)

		sse := vmath.SquaredL2(dense, reconstructed)
		assert.LessOrEqual(t, sse, prevErr+1e-5, "layers=%d", numLayers)
		prevErr = sse
	}
}

func TestRVQEmptyLayers(t *testing.T) {
	rq, err := NewRVQQuantizer(4, nil)
	require.NoError(t, err)

	code, err := rq.Quantize([]float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 0, code.Layers())

	reconstructed, err := rq.Dequantize(code)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0}, reconstructed)
}

func TestRVQDimensionMismatch(t *testing.T) {
	layers, err := SeededLayers(8, 1, 4, 1)
	require.NoError(t, err)
	rq, err := NewRVQQuantizer(8, layers)
	require.NoError(t, err)

	_, err = rq.Quantize([]float32{1, 2})
	var dm *ternary.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)
	assert.Equal(t, 8, dm.Expected)
	assert.Equal(t, 2, dm.Actual)

	badCode, err := ternary.NewRVQCode(4, []uint32{0})
	require.NoError(t, err)
	_, err = rq.Dequantize(badCode)
	assert.ErrorAs(t, err, &dm)
}

func TestRVQDequantizeRejectsBadCode(t *testing.T) {
	layers, err := SeededLayers(4, 2, 4, 1)
	require.NoError(t, err)
	rq, err := NewRVQQuantizer(4, layers)
	require.NoError(t, err)

	wrongLayers, err := ternary.NewRVQCode(4, []uint32{0})
	require.NoError(t, err)
	_, err = rq.Dequantize(wrongLayers)
	assert.Error(t, err)

	outOfRange, err := ternary.NewRVQCode(4, []uint32{0, 99})
	require.NoError(t, err)
	_, err = rq.Dequantize(outOfRange)
	assert.Error(t, err)
}

func TestNewRVQQuantizerValidation(t *testing.T) {
	layers, err := SeededLayers(8, 1, 4, 1)
	require.NoError(t, err)

	_, err = NewRVQQuantizer(0, layers)
	assert.Error(t, err)

	_, err = NewRVQQuantizer(16, layers)
	assert.Error(t, err, "layer dimension mismatch")

	_, err = NewRVQQuantizer(8, []*Codebook{nil})
	assert.Error(t, err)
}
