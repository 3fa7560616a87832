package kernels

import (
	"math"

	"github.com/chewxy/math32"
)

// Real is the set of element precisions with native Go arithmetic.
// Half precision is served by the F16 functions instead.
type Real interface {
	float32 | float64
}

// apply picks the single- or double-precision implementation for the
// instantiated type. float32 never round-trips through float64.
func apply[T Real](x T, f32 func(float32) float32, f64 func(float64) float64) T {
	if v, ok := any(x).(float32); ok {
		return T(f32(v))
	}
	return T(f64(float64(x)))
}

func apply2[T Real](x, y T, f32 func(float32, float32) float32, f64 func(float64, float64) float64) T {
	if v, ok := any(x).(float32); ok {
		return T(f32(v, float32(y)))
	}
	return T(f64(float64(x), float64(y)))
}

// Exp returns e**x. Results below the smallest normal float32 are
// subnormal rather than flushed to zero.
func Exp[T Real](x T) T { return apply(x, exp32, math.Exp) }

// exp32 is the fdlibm expf reduction x = k*ln2 + r, |r| <= ln2/2, scaled by
// 2**k with a single rounding for subnormal results. math32.Exp uses an
// assembly kernel on amd64 that flushes to zero below -87.34 and is off by up
// to ~100 ulp near the overflow threshold.
func exp32(x float32) float32 {
	const (
		// ln2Hi has 15 significant bits, so k*ln2Hi is exact for |k| <= 150.
		ln2Hi = float32(0.693145751953125)
		ln2Lo = float32(1.428606765330187045e-06)
		log2e = float32(1.4426950216e+00)

		overflow  = float32(88.72283935546875)
		underflow = float32(-103.97283172607422)
		nearZero  = float32(1.0 / (1 << 14))

		p1 = float32(1.6666667163e-01)
		p2 = float32(-2.7777778450e-03)
		p3 = float32(6.6137559770e-05)
		p4 = float32(-1.6533901999e-06)
		p5 = float32(4.1381369442e-08)
	)

	switch {
	case math32.IsNaN(x) || math32.IsInf(x, 1):
		return x
	case x > overflow:
		return math32.Inf(1)
	case x < underflow:
		return 0
	case -nearZero < x && x < nearZero:
		return 1 + x
	}

	var k int
	if x < 0 {
		k = int(log2e*x - 0.5)
	} else {
		k = int(log2e*x + 0.5)
	}
	hi := x - float32(k)*ln2Hi
	lo := float32(k) * ln2Lo

	r := hi - lo
	t := r * r
	c := r - t*(p1+t*(p2+t*(p3+t*(p4+t*p5))))
	y := 1 - ((lo - (r*c)/(2-c)) - hi)
	if k < -125 {
		// Exact scaling into the normal range, then one rounding.
		return math32.Ldexp(y, k+64) * 0x1p-64
	}
	return math32.Ldexp(y, k)
}

// Log returns the natural logarithm of x.
func Log[T Real](x T) T { return apply(x, math32.Log, math.Log) }

// Tanh returns the hyperbolic tangent of x.
func Tanh[T Real](x T) T { return apply(x, math32.Tanh, math.Tanh) }

// Sqrt returns the square root of x. Negative x yields NaN.
func Sqrt[T Real](x T) T { return apply(x, math32.Sqrt, math.Sqrt) }

// Abs returns the absolute value of x.
func Abs[T Real](x T) T { return apply(x, math32.Abs, math.Abs) }

// Cos returns the cosine of the radian argument x.
func Cos[T Real](x T) T { return apply(x, math32.Cos, math.Cos) }

// Sin returns the sine of the radian argument x.
func Sin[T Real](x T) T { return apply(x, math32.Sin, math.Sin) }

// Floor returns the greatest integer value less than or equal to x.
func Floor[T Real](x T) T { return apply(x, math32.Floor, math.Floor) }

// Log1p returns the natural logarithm of 1 plus x, accurate near zero.
func Log1p[T Real](x T) T { return apply(x, math32.Log1p, math.Log1p) }

// Asin returns the arcsine of x in radians.
func Asin[T Real](x T) T { return apply(x, math32.Asin, math.Asin) }

// Acos returns the arccosine of x in radians.
func Acos[T Real](x T) T { return apply(x, math32.Acos, math.Acos) }

// Sinh returns the hyperbolic sine of x.
func Sinh[T Real](x T) T { return apply(x, math32.Sinh, math.Sinh) }

// Cosh returns the hyperbolic cosine of x.
func Cosh[T Real](x T) T { return apply(x, math32.Cosh, math.Cosh) }

// Pow returns x**y with the platform library's conventions.
// Use SafePow for the operator semantics.
func Pow[T Real](x, y T) T { return apply2(x, y, math32.Pow, math.Pow) }

// NaN returns an IEEE not-a-number of type T.
func NaN[T Real]() T { return T(math.NaN()) }

// IsNaN reports whether x is NaN.
func IsNaN[T Real](x T) bool { return x != x }
