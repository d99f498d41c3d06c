package ternary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSparseEmbedding(t *testing.T) {
	e, err := NewSparseEmbedding(10, []uint32{0, 2, 5, 9}, []Value{Positive, Negative, Positive, Positive})
	require.NoError(t, err)

	assert.Equal(t, 10, e.Dimension())
	assert.Equal(t, 4, e.NonZeroCount())
	assert.Equal(t, []uint32{0, 2, 5, 9}, e.Indices())
	assert.Equal(t, []Value{Positive, Negative, Positive, Positive}, e.Values())
	assert.InDelta(t, 0.6, e.Sparsity(), 1e-9)
}

func TestNewSparseEmbeddingFiltersZeros(t *testing.T) {
	e, err := NewSparseEmbedding(5, []uint32{0, 1, 3}, []Value{Positive, Zero, Negative})
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 3}, e.Indices())
	assert.Equal(t, []Value{Positive, Negative}, e.Values())
}

func TestNewSparseEmbeddingErrors(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		indices []uint32
		values  []Value
		want    error
	}{
		{"LengthMismatch", 5, []uint32{0, 1}, []Value{Positive}, ErrLengthMismatch},
		{"InvalidValue", 5, []uint32{0}, []Value{Value(2)}, ErrInvalidValue},
		{"OutOfRange", 5, []uint32{5}, []Value{Positive}, ErrIndexRange},
		{"Descending", 5, []uint32{3, 1}, []Value{Positive, Negative}, ErrIndexOrder},
		{"Duplicate", 5, []uint32{2, 2}, []Value{Positive, Negative}, ErrIndexOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSparseEmbedding(tt.dim, tt.indices, tt.values)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEmptySparseEmbedding(t *testing.T) {
	e := EmptySparseEmbedding(8)
	assert.Equal(t, 8, e.Dimension())
	assert.Equal(t, 0, e.NonZeroCount())
	assert.InDelta(t, 1, e.Sparsity(), 1e-9)
	assert.Equal(t, make([]float32, 8), e.ToDense())
}

func TestSparseToDense(t *testing.T) {
	e, err := NewSparseEmbedding(6, []uint32{1, 4}, []Value{Negative, Positive})
	require.NoError(t, err)

	assert.Equal(t, []float32{0, -1, 0, 0, 1, 0}, e.ToDense())
}

func TestSparseSupport(t *testing.T) {
	e, err := NewSparseEmbedding(10, []uint32{2, 3, 7}, []Value{Positive, Positive, Negative})
	require.NoError(t, err)

	bm := e.Support()
	assert.Equal(t, uint64(3), bm.GetCardinality())
	assert.True(t, bm.Contains(7))
	assert.False(t, bm.Contains(0))
}

func TestSparseEqual(t *testing.T) {
	a, _ := NewSparseEmbedding(5, []uint32{0, 2}, []Value{Positive, Negative})
	b, _ := NewSparseEmbedding(5, []uint32{0, 2}, []Value{Positive, Negative})
	c, _ := NewSparseEmbedding(5, []uint32{0, 2}, []Value{Positive, Positive})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(EmptySparseEmbedding(5)))
}

func TestSparseJSONRoundTrip(t *testing.T) {
	orig, err := NewSparseEmbedding(10, []uint32{0, 2, 5, 9}, []Value{Positive, Negative, Positive, Positive})
	require.NoError(t, err)

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded SparseEmbedding
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, orig.Equal(&decoded))
}

func TestSparseJSONRejectsInvalid(t *testing.T) {
	var e SparseEmbedding
	// Descending indices must not survive deserialization.
	err := json.Unmarshal([]byte(`{"dimension":5,"indices":[3,1],"values":[1,-1]}`), &e)
	assert.ErrorIs(t, err, ErrIndexOrder)

	err = json.Unmarshal([]byte(`{"dimension":5,"indices":[0],"values":[2]}`), &e)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSparseBinaryRoundTrip(t *testing.T) {
	orig, err := NewSparseEmbedding(384, []uint32{7, 100, 383}, []Value{Negative, Positive, Negative})
	require.NoError(t, err)

	data, err := orig.MarshalBinary()
	require.NoError(t, err)

	var decoded SparseEmbedding
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.True(t, orig.Equal(&decoded))
}

func TestSparseBinaryRejectsTruncated(t *testing.T) {
	var e SparseEmbedding
	assert.Error(t, e.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestSparseSizeBytes(t *testing.T) {
	small := EmptySparseEmbedding(384)
	big, _ := NewSparseEmbedding(384, []uint32{0, 1, 2, 3}, []Value{Positive, Positive, Positive, Positive})
	assert.Greater(t, big.SizeBytes(), small.SizeBytes())
}
