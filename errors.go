package terngo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/terngo/quantize"
	"github.com/hupe1980/terngo/ternary"
)

var (
	// ErrInvalidStrategy is returned for an unknown strategy name.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrStrategyMismatch is returned when a quantized embedding's variant
	// does not match the generator's strategy (e.g. reconstructing an RVQ
	// code with a sparse generator).
	ErrStrategyMismatch = errors.New("embedding kind does not match generator strategy")
)

// ErrDimensionMismatch indicates an embedding/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidConfiguration indicates a structurally invalid quantizer or
// scoring configuration, surfaced at construction time.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfiguration struct {
	Field  string
	Reason string
	cause  error
}

func (e *ErrInvalidConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ErrInvalidConfiguration) Unwrap() error { return e.cause }

// translateError normalizes subpackage errors into the root taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *ternary.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	var ic *quantize.ErrInvalidConfig
	if errors.As(err, &ic) {
		return &ErrInvalidConfiguration{Field: ic.Field, Reason: ic.Reason, cause: err}
	}

	return err
}
