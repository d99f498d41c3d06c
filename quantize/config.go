package quantize

// SparsityConfig controls the sparse ternary quantizer.
type SparsityConfig struct {
	// TargetSparsity is the expected fraction of zero dimensions, in [0, 1).
	// It is advisory; TopK and Threshold drive the actual output.
	TargetSparsity float32

	// TopK caps the number of retained non-zero entries. nil disables the
	// cap; a value of 0 is valid and yields an empty embedding.
	TopK *int

	// Threshold is the minimum absolute magnitude, after max-abs
	// normalization, for a dimension to be eligible. Must be in [0, 1].
	Threshold float32
}

// DefaultSparsityConfig returns the defaults used for 384-dimensional
// embeddings: 85% target sparsity, top 50 entries, threshold 0.01.
func DefaultSparsityConfig() SparsityConfig {
	topK := 50
	return SparsityConfig{
		TargetSparsity: 0.85,
		TopK:           &topK,
		Threshold:      0.01,
	}
}

// Validate checks the configuration. Violations are reported as
// *ErrInvalidConfig.
func (c SparsityConfig) Validate() error {
	if c.TargetSparsity < 0 || c.TargetSparsity >= 1 {
		return &ErrInvalidConfig{Field: "target_sparsity", Reason: "must be in [0, 1)"}
	}
	if c.TopK != nil && *c.TopK < 0 {
		return &ErrInvalidConfig{Field: "top_k", Reason: "must not be negative"}
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return &ErrInvalidConfig{Field: "threshold", Reason: "must be in [0, 1]"}
	}
	return nil
}
