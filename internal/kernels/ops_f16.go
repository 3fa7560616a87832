package kernels

import "github.com/x448/float16"

// Half-precision operator resolution. Apart from the bit-level overrides
// below, each half operator widens its operands to float32, runs the float32
// body and rounds the result once, so half and single precision can only
// differ by the final rounding.

// NullaryF16 resolves a nullary operator for Half.
func NullaryF16(op Op) (NullaryFunc[Half], bool) {
	f, ok := Nullary[float32](op)
	if !ok {
		return nil, false
	}
	return func() Half { return float16.Fromfloat32(f()) }, true
}

// UnaryF16 resolves a unary operator for Half.
func UnaryF16(op Op) (UnaryFunc[Half], bool) {
	switch op {
	case OpCopy:
		return func(a Half) Half { return a }, true
	case OpNegate:
		return NegateF16, true
	case OpAbs:
		return AbsF16, true
	}

	f, ok := Unary[float32](op)
	if !ok {
		return nil, false
	}
	return func(a Half) Half {
		return float16.Fromfloat32(f(a.Float32()))
	}, true
}

// BinaryF16 resolves a binary operator for Half.
func BinaryF16(op Op) (BinaryFunc[Half], bool) {
	switch op {
	case OpMax:
		return MaxF16, true
	case OpMin:
		return MinF16, true
	}

	f, ok := Binary[float32](op)
	if !ok {
		return nil, false
	}
	return func(a, b Half) Half {
		return float16.Fromfloat32(f(a.Float32(), b.Float32()))
	}, true
}

// TernaryF16 resolves a ternary operator for Half.
func TernaryF16(op Op) (TernaryFunc[Half], bool) {
	f, ok := Ternary[float32](op)
	if !ok {
		return nil, false
	}
	return func(a, b, c Half) Half {
		return float16.Fromfloat32(f(a.Float32(), b.Float32(), c.Float32()))
	}, true
}
