// Package vmath provides the float32 kernels shared by the quantizers and
// the sequential similarity path. All functions are pure Go; the accelerated
// backend uses its own vectorized kernels.
package vmath

import "math"

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// MaxAbs returns the largest absolute value in v, or 0 for an empty vector.
func MaxAbs(v []float32) float32 {
	var maxAbs float32
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		if x > maxAbs {
			maxAbs = x
		}
	}
	return maxAbs
}

// SubInPlace subtracts b from a elementwise, storing the result in a.
// Assumes vectors are the same length (caller's responsibility).
func SubInPlace(a, b []float32) {
	for i := range a {
		a[i] -= b[i]
	}
}

// AddInPlace adds b to a elementwise, storing the result in a.
// Assumes vectors are the same length (caller's responsibility).
func AddInPlace(a, b []float32) {
	for i := range a {
		a[i] += b[i]
	}
}

// ScaleInPlace multiplies every element of v by s.
func ScaleInPlace(v []float32, s float32) {
	for i := range v {
		v[i] *= s
	}
}

// Sqrt returns the square root of x as float32.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Cosine calculates the cosine similarity between two dense vectors,
// clamped to [-1, 1]. A zero-norm operand yields 0.
func Cosine(a, b []float32) float32 {
	dot := Dot(a, b)
	na := Dot(a, a)
	nb := Dot(b, b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Clamp(dot/(Sqrt(na)*Sqrt(nb)), -1, 1)
}

// Clamp limits x to the inclusive range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
