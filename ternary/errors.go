package ternary

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when indices and values differ in length.
	ErrLengthMismatch = errors.New("indices and values length mismatch")

	// ErrInvalidValue is returned when a value is outside {-1, 0, 1}.
	ErrInvalidValue = errors.New("invalid ternary value")

	// ErrIndexOrder is returned when indices are not strictly ascending.
	ErrIndexOrder = errors.New("indices must be strictly ascending")

	// ErrIndexRange is returned when an index is outside [0, dimension).
	ErrIndexRange = errors.New("index out of range for dimension")

	// ErrInvalidKind is returned when a Quantized has an unknown or
	// unpopulated variant.
	ErrInvalidKind = errors.New("invalid quantized embedding kind")
)

// ErrDimensionMismatch indicates that two embeddings (or an embedding and a
// codebook) disagree on their dense dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
