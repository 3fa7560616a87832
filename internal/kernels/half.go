package kernels

import (
	"github.com/chewxy/math32"
	"github.com/x448/float16"
)

// Half is the IEEE 754 binary16 element type.
type Half = float16.Float16

const (
	halfSignMask = 0x8000
	halfAbsMask  = 0x7fff
)

// HalfFromFloat32 rounds f to the nearest Half (ties to even).
func HalfFromFloat32(f float32) Half { return float16.Fromfloat32(f) }

// viaFloat32 is the software path for half precision: widen exactly, compute
// in single precision, round once.
func viaFloat32(h Half, f func(float32) float32) Half {
	return float16.Fromfloat32(f(h.Float32()))
}

// ExpF16 returns e**h.
func ExpF16(h Half) Half { return viaFloat32(h, exp32) }

// LogF16 returns the natural logarithm of h.
func LogF16(h Half) Half { return viaFloat32(h, math32.Log) }

// TanhF16 returns the hyperbolic tangent of h.
func TanhF16(h Half) Half { return viaFloat32(h, math32.Tanh) }

// SqrtF16 returns the square root of h. Rounding a correctly rounded float32
// square root to half is itself correctly rounded.
func SqrtF16(h Half) Half { return viaFloat32(h, math32.Sqrt) }

// CosF16 returns the cosine of h.
func CosF16(h Half) Half { return viaFloat32(h, math32.Cos) }

// SinF16 returns the sine of h.
func SinF16(h Half) Half { return viaFloat32(h, math32.Sin) }

// FloorF16 returns the greatest integer value less than or equal to h.
func FloorF16(h Half) Half { return viaFloat32(h, math32.Floor) }

// Log1pF16 returns log(1+h).
func Log1pF16(h Half) Half { return viaFloat32(h, math32.Log1p) }

// AsinF16 returns the arcsine of h.
func AsinF16(h Half) Half { return viaFloat32(h, math32.Asin) }

// AcosF16 returns the arccosine of h.
func AcosF16(h Half) Half { return viaFloat32(h, math32.Acos) }

// SinhF16 returns the hyperbolic sine of h.
func SinhF16(h Half) Half { return viaFloat32(h, math32.Sinh) }

// CoshF16 returns the hyperbolic cosine of h.
func CoshF16(h Half) Half { return viaFloat32(h, math32.Cosh) }

// PowF16 returns x**y with library conventions.
func PowF16(x, y Half) Half {
	return float16.Fromfloat32(math32.Pow(x.Float32(), y.Float32()))
}

// AbsF16 clears the sign bit. Matches the float32 round trip for every
// non-NaN input; NaN payloads keep their bits.
func AbsF16(h Half) Half {
	return float16.Frombits(h.Bits() & halfAbsMask)
}

// NegateF16 flips the sign bit.
func NegateF16(h Half) Half {
	return float16.Frombits(h.Bits() ^ halfSignMask)
}

// IsNaNF16 reports whether h is NaN.
func IsNaNF16(h Half) bool {
	return h.IsNaN()
}

// MaxF16 returns the larger of a and b compared in single precision.
// b is returned when the comparison is false (including NaN).
func MaxF16(a, b Half) Half {
	if a.Float32() > b.Float32() {
		return a
	}
	return b
}

// MinF16 returns the smaller of a and b compared in single precision.
func MinF16(a, b Half) Half {
	if a.Float32() < b.Float32() {
		return a
	}
	return b
}

// MaxF16F32 compares a widened half with a float32 and returns the larger as
// float32. Mixed comparisons never narrow the float32 operand.
func MaxF16F32(a Half, b float32) float32 {
	if af := a.Float32(); af > b {
		return af
	}
	return b
}

// MaxF32F16 is MaxF16F32 with the operands swapped.
func MaxF32F16(a float32, b Half) float32 {
	bf := b.Float32()
	if a > bf {
		return a
	}
	return bf
}

// MinF16F32 returns the smaller of a widened half and a float32.
func MinF16F32(a Half, b float32) float32 {
	if af := a.Float32(); af < b {
		return af
	}
	return b
}

// MinF32F16 is MinF16F32 with the operands swapped.
func MinF32F16(a float32, b Half) float32 {
	bf := b.Float32()
	if a < bf {
		return a
	}
	return bf
}
