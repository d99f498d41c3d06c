package ternary

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the variant held by a Quantized embedding.
type Kind uint8

const (
	// KindSparse marks output of the sparse top-k strategy.
	KindSparse Kind = iota + 1
	// KindRVQ marks output of the residual codebook strategy.
	KindRVQ
	// KindHybrid marks output of the hybrid strategy.
	KindHybrid
)

func (k Kind) String() string {
	switch k {
	case KindSparse:
		return "sparse"
	case KindRVQ:
		return "rvq"
	case KindHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// RVQCode is the residual-quantizer output for one vector: the codebook entry
// selected at each layer, in layer order. It carries the dense dimension the
// codebooks were built for so reconstruction can size its output.
type RVQCode struct {
	dimension int
	indices   []uint32
}

// NewRVQCode creates an RVQ code. An empty index sequence is valid and
// reconstructs to a zero vector.
func NewRVQCode(dimension int, indices []uint32) (*RVQCode, error) {
	if dimension < 0 {
		return nil, fmt.Errorf("negative dimension: %d", dimension)
	}
	cloned := make([]uint32, len(indices))
	copy(cloned, indices)
	return &RVQCode{dimension: dimension, indices: cloned}, nil
}

// Dimension returns the dense dimension this code reconstructs to.
func (c *RVQCode) Dimension() int {
	return c.dimension
}

// Indices returns the selected entry index per layer.
// The returned slice must be treated as read-only.
func (c *RVQCode) Indices() []uint32 {
	return c.indices
}

// Layers returns the number of layers encoded.
func (c *RVQCode) Layers() int {
	return len(c.indices)
}

type rvqWire struct {
	Dimension int      `json:"dimension"`
	Indices   []uint32 `json:"indices"`
}

// MarshalJSON implements json.Marshaler.
func (c *RVQCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(rvqWire{Dimension: c.dimension, Indices: c.indices})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *RVQCode) UnmarshalJSON(data []byte) error {
	var w rvqWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := NewRVQCode(w.Dimension, w.Indices)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

// HybridCode composes the two strategies: the sparse embedding fixes which
// positions are retained, and the refined RVQ code re-encodes the values at
// those positions. Refined is scoped to the sparse support, not the full
// dimension.
type HybridCode struct {
	sparse  *SparseEmbedding
	refined *RVQCode
}

// NewHybridCode pairs a sparse support with its refinement code.
func NewHybridCode(sparse *SparseEmbedding, refined *RVQCode) (*HybridCode, error) {
	if sparse == nil || refined == nil {
		return nil, fmt.Errorf("hybrid code requires both sparse and refined parts")
	}
	if refined.dimension < sparse.NonZeroCount() {
		return nil, fmt.Errorf("refined dimension %d smaller than sparse support %d",
			refined.dimension, sparse.NonZeroCount())
	}
	return &HybridCode{sparse: sparse, refined: refined}, nil
}

// Sparse returns the support-selecting sparse embedding.
func (c *HybridCode) Sparse() *SparseEmbedding {
	return c.sparse
}

// Refined returns the RVQ code over the sparse support.
func (c *HybridCode) Refined() *RVQCode {
	return c.refined
}

type hybridWire struct {
	Sparse  *SparseEmbedding `json:"sparse"`
	Refined *RVQCode         `json:"refined"`
}

// MarshalJSON implements json.Marshaler.
func (c *HybridCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(hybridWire{Sparse: c.sparse, Refined: c.refined})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *HybridCode) UnmarshalJSON(data []byte) error {
	var w hybridWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := NewHybridCode(w.Sparse, w.Refined)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

// Quantized is the tagged union over the three strategy outputs. Exactly one
// variant is populated; the active variant is fixed by the quantizer that
// produced it and never inferred. A Quantized is created once per dense
// vector and immutable thereafter.
type Quantized struct {
	kind   Kind
	sparse *SparseEmbedding
	rvq    *RVQCode
	hybrid *HybridCode
}

// QuantizedSparse wraps a sparse embedding as a Quantized.
func QuantizedSparse(e *SparseEmbedding) Quantized {
	return Quantized{kind: KindSparse, sparse: e}
}

// QuantizedRVQ wraps an RVQ code as a Quantized.
func QuantizedRVQ(c *RVQCode) Quantized {
	return Quantized{kind: KindRVQ, rvq: c}
}

// QuantizedHybrid wraps a hybrid code as a Quantized.
func QuantizedHybrid(c *HybridCode) Quantized {
	return Quantized{kind: KindHybrid, hybrid: c}
}

// Kind returns the active variant.
func (q Quantized) Kind() Kind {
	return q.kind
}

// Valid reports whether exactly the variant matching Kind is populated.
func (q Quantized) Valid() bool {
	switch q.kind {
	case KindSparse:
		return q.sparse != nil && q.rvq == nil && q.hybrid == nil
	case KindRVQ:
		return q.rvq != nil && q.sparse == nil && q.hybrid == nil
	case KindHybrid:
		return q.hybrid != nil && q.sparse == nil && q.rvq == nil
	default:
		return false
	}
}

// Sparse returns the sparse variant, or false if another variant is active.
func (q Quantized) Sparse() (*SparseEmbedding, bool) {
	return q.sparse, q.kind == KindSparse
}

// RVQ returns the RVQ variant, or false if another variant is active.
func (q Quantized) RVQ() (*RVQCode, bool) {
	return q.rvq, q.kind == KindRVQ
}

// Hybrid returns the hybrid variant, or false if another variant is active.
func (q Quantized) Hybrid() (*HybridCode, bool) {
	return q.hybrid, q.kind == KindHybrid
}

// SparseView returns the sparse ternary representation backing the embedding,
// if the active variant carries one (sparse and hybrid do, RVQ does not).
func (q Quantized) SparseView() (*SparseEmbedding, bool) {
	switch q.kind {
	case KindSparse:
		return q.sparse, true
	case KindHybrid:
		return q.hybrid.Sparse(), true
	default:
		return nil, false
	}
}

// Dimension returns the dense dimension of the quantized vector.
func (q Quantized) Dimension() int {
	switch q.kind {
	case KindSparse:
		return q.sparse.Dimension()
	case KindRVQ:
		return q.rvq.Dimension()
	case KindHybrid:
		return q.hybrid.Sparse().Dimension()
	default:
		return 0
	}
}

// SizeBytes estimates the storage footprint of the quantized representation.
func (q Quantized) SizeBytes() int {
	switch q.kind {
	case KindSparse:
		return q.sparse.SizeBytes()
	case KindRVQ:
		return 8 + len(q.rvq.indices)*4
	case KindHybrid:
		return q.hybrid.Sparse().SizeBytes() + 8 + len(q.hybrid.Refined().indices)*4
	default:
		return 0
	}
}

type quantizedWire struct {
	Kind   string           `json:"kind"`
	Sparse *SparseEmbedding `json:"sparse,omitempty"`
	RVQ    *RVQCode         `json:"rvq,omitempty"`
	Hybrid *HybridCode      `json:"hybrid,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (q Quantized) MarshalJSON() ([]byte, error) {
	if !q.Valid() {
		return nil, ErrInvalidKind
	}
	return json.Marshal(quantizedWire{
		Kind:   q.kind.String(),
		Sparse: q.sparse,
		RVQ:    q.rvq,
		Hybrid: q.hybrid,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantized) UnmarshalJSON(data []byte) error {
	var w quantizedWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var decoded Quantized
	switch w.Kind {
	case "sparse":
		if w.Sparse == nil {
			return fmt.Errorf("%w: sparse variant missing", ErrInvalidKind)
		}
		decoded = QuantizedSparse(w.Sparse)
	case "rvq":
		if w.RVQ == nil {
			return fmt.Errorf("%w: rvq variant missing", ErrInvalidKind)
		}
		decoded = QuantizedRVQ(w.RVQ)
	case "hybrid":
		if w.Hybrid == nil {
			return fmt.Errorf("%w: hybrid variant missing", ErrInvalidKind)
		}
		decoded = QuantizedHybrid(w.Hybrid)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, w.Kind)
	}
	*q = decoded
	return nil
}
