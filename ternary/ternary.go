// Package ternary defines the quantized embedding representations shared by
// all quantization strategies: the ternary value type, the sparse ternary
// embedding, and the tagged union over strategy outputs.
package ternary

// Value is a single ternary level: -1, 0, or +1.
type Value int8

const (
	// Negative is the -1 level.
	Negative Value = -1
	// Zero is the implicit level; it is never materialized in a sparse embedding.
	Zero Value = 0
	// Positive is the +1 level.
	Positive Value = 1
)

// ValueFromInt8 converts an int8 to a Value.
// Returns false if v is not one of {-1, 0, 1}.
func ValueFromInt8(v int8) (Value, bool) {
	switch v {
	case -1, 0, 1:
		return Value(v), true
	default:
		return Zero, false
	}
}

// Valid reports whether v is one of the three ternary levels.
func (v Value) Valid() bool {
	return v == Negative || v == Zero || v == Positive
}

// Int8 returns the numeric level as int8.
func (v Value) Int8() int8 {
	return int8(v)
}

// Float32 returns the numeric level as float32.
func (v Value) Float32() float32 {
	return float32(v)
}

func (v Value) String() string {
	switch v {
	case Negative:
		return "-1"
	case Zero:
		return "0"
	case Positive:
		return "+1"
	default:
		return "invalid"
	}
}
