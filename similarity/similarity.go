// Package similarity computes similarity between sparse ternary embeddings
// without densifying either operand. All functions are pure, symmetric, and
// proportional in cost to the combined non-zero counts, not the dimension.
package similarity

import (
	"github.com/hupe1980/terngo/internal/vmath"
	"github.com/hupe1980/terngo/ternary"
)

// CosineSparse computes the cosine similarity between two sparse ternary
// embeddings of equal dimension, in [-1, 1].
//
// The dot product iterates the union of stored indices with a two-pointer
// merge (both index lists are ascending). Every stored value has unit
// magnitude, so the L2 norm of an operand is exactly sqrt(non-zero count).
// Disjoint supports yield 0, as does an empty operand.
func CosineSparse(a, b *ternary.SparseEmbedding) (float32, error) {
	if a.Dimension() != b.Dimension() {
		return 0, &ternary.ErrDimensionMismatch{Expected: a.Dimension(), Actual: b.Dimension()}
	}

	na := a.NonZeroCount()
	nb := b.NonZeroCount()
	if na == 0 || nb == 0 {
		return 0, nil
	}

	dot := int32(0)
	ai := a.Indices()
	bi := b.Indices()
	av := a.Values()
	bv := b.Values()
	i, j := 0, 0
	for i < len(ai) && j < len(bi) {
		switch {
		case ai[i] < bi[j]:
			i++
		case ai[i] > bi[j]:
			j++
		default:
			dot += int32(av[i]) * int32(bv[j])
			i++
			j++
		}
	}

	norm := vmath.Sqrt(float32(na)) * vmath.Sqrt(float32(nb))
	return vmath.Clamp(float32(dot)/norm, -1, 1), nil
}

// HammingSparse counts the positions where both operands store a value and
// the values agree. It is a cheap pre-filter before cosine ranking.
func HammingSparse(a, b *ternary.SparseEmbedding) (int, error) {
	if a.Dimension() != b.Dimension() {
		return 0, &ternary.ErrDimensionMismatch{Expected: a.Dimension(), Actual: b.Dimension()}
	}

	matching := 0
	ai := a.Indices()
	bi := b.Indices()
	av := a.Values()
	bv := b.Values()
	i, j := 0, 0
	for i < len(ai) && j < len(bi) {
		switch {
		case ai[i] < bi[j]:
			i++
		case ai[i] > bi[j]:
			j++
		default:
			if av[i] == bv[j] {
				matching++
			}
			i++
			j++
		}
	}
	return matching, nil
}

// OverlapCount returns the number of indices stored by both operands,
// regardless of value agreement. Computed on the roaring support bitmaps.
func OverlapCount(a, b *ternary.SparseEmbedding) int {
	return int(a.Support().AndCardinality(b.Support()))
}

// CosineDense computes the cosine similarity between two dense vectors of
// equal length, clamped to [-1, 1]. Used when at least one side has no
// sparse representation (RVQ-encoded embeddings compare via reconstruction).
func CosineDense(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, &ternary.ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return vmath.Cosine(a, b), nil
}
