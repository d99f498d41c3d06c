package ternary

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// SparseEmbedding is a sparse ternary vector: a set of strictly ascending
// dimension indices paired with non-zero ternary values. All other positions
// are implicitly zero. It is the output format of every quantization strategy
// and is immutable after construction.
type SparseEmbedding struct {
	dimension int
	indices   []uint32
	values    []Value
}

// NewSparseEmbedding creates a sparse embedding over a dense vector of the
// given dimension. Explicit zero values are filtered out rather than rejected,
// so callers may pass raw threshold output. Indices must be strictly ascending
// and within [0, dimension); values must be ternary.
func NewSparseEmbedding(dimension int, indices []uint32, values []Value) (*SparseEmbedding, error) {
	if dimension < 0 {
		return nil, fmt.Errorf("negative dimension: %d", dimension)
	}
	if len(indices) != len(values) {
		return nil, ErrLengthMismatch
	}

	e := &SparseEmbedding{
		dimension: dimension,
		indices:   make([]uint32, 0, len(indices)),
		values:    make([]Value, 0, len(values)),
	}

	for i, idx := range indices {
		v := values[i]
		if !v.Valid() {
			return nil, fmt.Errorf("%w: %d at position %d", ErrInvalidValue, int8(v), i)
		}
		if v == Zero {
			// Zeros stay implicit; materializing them would defeat sparsity.
			continue
		}
		if int(idx) >= dimension {
			return nil, fmt.Errorf("%w: index %d, dimension %d", ErrIndexRange, idx, dimension)
		}
		if n := len(e.indices); n > 0 && e.indices[n-1] >= idx {
			return nil, fmt.Errorf("%w: index %d after %d", ErrIndexOrder, idx, e.indices[n-1])
		}
		e.indices = append(e.indices, idx)
		e.values = append(e.values, v)
	}

	return e, nil
}

// EmptySparseEmbedding returns a sparse embedding with no non-zero entries.
func EmptySparseEmbedding(dimension int) *SparseEmbedding {
	return &SparseEmbedding{dimension: dimension}
}

// Dimension returns the dense dimension of the original vector.
func (e *SparseEmbedding) Dimension() int {
	return e.dimension
}

// NonZeroCount returns the number of stored (non-zero) entries.
func (e *SparseEmbedding) NonZeroCount() int {
	return len(e.indices)
}

// Indices returns the stored indices in ascending order.
// The returned slice must be treated as read-only.
func (e *SparseEmbedding) Indices() []uint32 {
	return e.indices
}

// Values returns the stored ternary values, aligned with Indices.
// The returned slice must be treated as read-only.
func (e *SparseEmbedding) Values() []Value {
	return e.values
}

// Sparsity returns the fraction of dimensions that are zero, in [0, 1].
// An embedding with zero dimension reports sparsity 1.
func (e *SparseEmbedding) Sparsity() float64 {
	if e.dimension == 0 {
		return 1
	}
	return 1 - float64(len(e.indices))/float64(e.dimension)
}

// SizeBytes estimates the in-memory footprint of the embedding.
func (e *SparseEmbedding) SizeBytes() int {
	// dimension + slice headers + 4 bytes per index + 1 byte per value
	return 8 + 2*24 + len(e.indices)*4 + len(e.values)
}

// ToDense reconstructs the dense approximation: ±1 at stored positions,
// 0 everywhere else. Magnitude beyond sign is not preserved.
func (e *SparseEmbedding) ToDense() []float32 {
	dense := make([]float32, e.dimension)
	for i, idx := range e.indices {
		dense[idx] = e.values[i].Float32()
	}
	return dense
}

// Support returns the set of stored indices as a roaring bitmap.
// Useful for cheap overlap checks before a full similarity pass.
func (e *SparseEmbedding) Support() *roaring.Bitmap {
	bm := roaring.New()
	bm.AddMany(e.indices)
	return bm
}

// Equal reports whether two embeddings have identical dimension, indices,
// and values.
func (e *SparseEmbedding) Equal(other *SparseEmbedding) bool {
	if e.dimension != other.dimension || len(e.indices) != len(other.indices) {
		return false
	}
	for i := range e.indices {
		if e.indices[i] != other.indices[i] || e.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

type sparseWire struct {
	Dimension int      `json:"dimension"`
	Indices   []uint32 `json:"indices"`
	Values    []int8   `json:"values"`
}

// MarshalJSON implements json.Marshaler.
func (e *SparseEmbedding) MarshalJSON() ([]byte, error) {
	w := sparseWire{
		Dimension: e.dimension,
		Indices:   e.indices,
		Values:    make([]int8, len(e.values)),
	}
	for i, v := range e.values {
		w.Values[i] = int8(v)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. Decoded embeddings pass through
// the same validation as NewSparseEmbedding, so the ordering and no-zero
// invariants survive a store/reload cycle.
func (e *SparseEmbedding) UnmarshalJSON(data []byte) error {
	var w sparseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	values := make([]Value, len(w.Values))
	for i, v := range w.Values {
		val, ok := ValueFromInt8(v)
		if !ok {
			return fmt.Errorf("%w: %d", ErrInvalidValue, v)
		}
		values[i] = val
	}
	decoded, err := NewSparseEmbedding(w.Dimension, w.Indices, values)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Format (little-endian):
// [dimension:uint32][count:uint32][indices:uint32...][values:int8...]
func (e *SparseEmbedding) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8+len(e.indices)*4+len(e.values))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(e.dimension))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(e.indices)))

	offset := 8
	for _, idx := range e.indices {
		binary.LittleEndian.PutUint32(buf[offset:offset+4], idx)
		offset += 4
	}
	for _, v := range e.values {
		buf[offset] = byte(int8(v))
		offset++
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *SparseEmbedding) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("sparse embedding binary too short: %d bytes", len(data))
	}
	dimension := int(binary.LittleEndian.Uint32(data[0:4]))
	count := int(binary.LittleEndian.Uint32(data[4:8]))
	if len(data) != 8+count*5 {
		return fmt.Errorf("sparse embedding binary length %d does not match count %d", len(data), count)
	}

	indices := make([]uint32, count)
	values := make([]Value, count)
	offset := 8
	for i := 0; i < count; i++ {
		indices[i] = binary.LittleEndian.Uint32(data[offset : offset+4])
		offset += 4
	}
	for i := 0; i < count; i++ {
		v, ok := ValueFromInt8(int8(data[offset]))
		if !ok {
			return fmt.Errorf("%w: %d", ErrInvalidValue, int8(data[offset]))
		}
		values[i] = v
		offset++
	}

	decoded, err := NewSparseEmbedding(dimension, indices, values)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}
