package quantize

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand"

	"github.com/hupe1980/terngo/internal/kmeans"
	"github.com/hupe1980/terngo/internal/vmath"
	"github.com/hupe1980/terngo/ternary"
)

// Codebook is one residual quantization layer: a fixed, ordered set of dense
// code vectors. Entries are flattened (size * dimension) for cache-friendly
// scans. A codebook is immutable after construction and may be shared
// read-only across concurrent encode/decode calls.
type Codebook struct {
	dimension int
	size      int
	entries   []float32
}

// NewCodebook creates a codebook from flattened entries (size * dimension).
func NewCodebook(dimension, size int, entries []float32) (*Codebook, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidConfig{Field: "dimension", Reason: "must be positive"}
	}
	if size <= 0 {
		return nil, &ErrInvalidConfig{Field: "codebook_size", Reason: "must be positive"}
	}
	if len(entries) != dimension*size {
		return nil, &ErrInvalidConfig{Field: "entries", Reason: "length must equal size * dimension"}
	}
	cloned := make([]float32, len(entries))
	copy(cloned, entries)
	return &Codebook{dimension: dimension, size: size, entries: cloned}, nil
}

// NewSeededCodebook builds a deterministic pseudo-random codebook. Entry 0 is
// the zero vector so a layer can pass a residual through unchanged; this
// keeps reconstruction error non-increasing as layers are added. Remaining
// entries are uniform in [-1, 1) scaled by 1/sqrt(dimension).
func NewSeededCodebook(dimension, size int, seed int64) (*Codebook, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidConfig{Field: "dimension", Reason: "must be positive"}
	}
	if size <= 0 {
		return nil, &ErrInvalidConfig{Field: "codebook_size", Reason: "must be positive"}
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec
	scale := float32(1 / math.Sqrt(float64(dimension)))
	entries := make([]float32, size*dimension)
	for i := dimension; i < len(entries); i++ { // entry 0 stays zero
		entries[i] = (rng.Float32()*2 - 1) * scale
	}

	return &Codebook{dimension: dimension, size: size, entries: entries}, nil
}

// TrainCodebook learns a codebook from sample vectors with Lloyd's algorithm.
// Construction policy is outside the encode/decode contract; trained and
// seeded codebooks behave identically once built.
func TrainCodebook(samples [][]float32, dimension, size, maxIter int, seed int64) (*Codebook, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidConfig{Field: "dimension", Reason: "must be positive"}
	}
	if size <= 0 {
		return nil, &ErrInvalidConfig{Field: "codebook_size", Reason: "must be positive"}
	}
	if len(samples) < size {
		return nil, errors.New("not enough sample vectors to train codebook")
	}

	flat := make([]float32, 0, len(samples)*dimension)
	for _, s := range samples {
		if len(s) != dimension {
			return nil, &ternary.ErrDimensionMismatch{Expected: dimension, Actual: len(s)}
		}
		flat = append(flat, s...)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec
	centroids := kmeans.Train(flat, dimension, size, maxIter, rng)
	return &Codebook{dimension: dimension, size: size, entries: centroids}, nil
}

// Dimension returns the dimension of each code vector.
func (cb *Codebook) Dimension() int {
	return cb.dimension
}

// Size returns the number of entries.
func (cb *Codebook) Size() int {
	return cb.size
}

// Entry returns the i-th code vector.
// The returned slice must be treated as read-only.
func (cb *Codebook) Entry(i int) []float32 {
	return cb.entries[i*cb.dimension : (i+1)*cb.dimension]
}

// Nearest returns the index of the entry closest to v in squared L2
// distance. Ties break toward the lowest entry index (strict improvement
// required to switch).
func (cb *Codebook) Nearest(v []float32) int {
	best := 0
	minDist := float32(math.MaxFloat32)
	for i := 0; i < cb.size; i++ {
		d := vmath.SquaredL2(v, cb.Entry(i))
		if d < minDist {
			minDist = d
			best = i
		}
	}
	return best
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Format (little-endian):
// [dimension:uint32][size:uint32][entries:float32...]
func (cb *Codebook) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8+len(cb.entries)*4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(cb.dimension))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cb.size))
	offset := 8
	for _, e := range cb.entries {
		binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(e))
		offset += 4
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (cb *Codebook) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("invalid codebook binary length")
	}
	dimension := int(binary.LittleEndian.Uint32(data[0:4]))
	size := int(binary.LittleEndian.Uint32(data[4:8]))
	if dimension <= 0 || size <= 0 || len(data) != 8+dimension*size*4 {
		return errors.New("invalid codebook binary length for dimensions")
	}

	entries := make([]float32, dimension*size)
	offset := 8
	for i := range entries {
		entries[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4]))
		offset += 4
	}

	cb.dimension = dimension
	cb.size = size
	cb.entries = entries
	return nil
}
