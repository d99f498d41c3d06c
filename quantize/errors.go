package quantize

import "fmt"

// ErrInvalidConfig indicates a structurally invalid quantizer configuration.
// It is surfaced at quantizer construction, never deferred to first use.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
