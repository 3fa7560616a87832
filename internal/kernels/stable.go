package kernels

// Sigmoid computes 1 / (exp(-z) + 1).
//
// This is the legacy formulation kept for models fitted against it: exp(-z)
// overflows to +Inf for very negative z, which makes the result exactly 0.
// New code should use StableSigmoid. The two are distinct operators and must
// not be merged.
func Sigmoid[T Real](z T) T {
	e := Exp(-z)
	return 1 / (e + 1)
}

// StableSigmoid computes 1 / (1 + exp(-z)) without overflowing exp for any z.
func StableSigmoid[T Real](z T) T {
	q := Exp(-Abs(z))
	numer := q // q == exp(z)
	if z > 0 {
		numer = 1 // q == exp(-z)
	}
	return numer / (1 + q)
}

// SigmoidDerivative returns s*(1-s) with s = Sigmoid(z).
func SigmoidDerivative[T Real](z T) T {
	v := Sigmoid(z)
	return v * (1 - v)
}

// StableSigmoidDerivative returns s*(1-s) with s = StableSigmoid(z).
func StableSigmoidDerivative[T Real](z T) T {
	v := StableSigmoid(z)
	return v * (1 - v)
}

// LinearRectifierDerivative returns 1 for z > 0 and 0 otherwise, including at
// z == 0.
func LinearRectifierDerivative[T Real](z T) T {
	if z > 0 {
		return 1
	}
	return 0
}

// ExponentialLinearUnitDerivative returns 1 for z >= 0 and exp(z) otherwise.
func ExponentialLinearUnitDerivative[T Real](z T) T {
	if z >= 0 {
		return 1
	}
	return Exp(z)
}

// Sgn returns 1 for positive z, -1 for negative z, and z itself otherwise
// (signed zero or NaN).
func Sgn[T Real](z T) T {
	if z > 0 {
		return 1
	}
	if z < 0 {
		return -1
	}
	return z
}

// Sqr returns z*z.
func Sqr[T Real](z T) T {
	return z * z
}

// ClampedSqrt returns sqrt(max(z, 0)). Negative inputs give 0 instead of NaN;
// trained models depend on this.
func ClampedSqrt[T Real](z T) T {
	if z > 0 {
		return Sqrt(z)
	}
	return 0
}

// ClippedLog returns log(z), or exactly LogOfEpsInLog when z < EpsInLog.
// The comparison is strict and NaN propagates.
func ClippedLog[T Real](z T) T {
	if z < T(EpsInLog) {
		return T(LogOfEpsInLog)
	}
	return Log(z)
}

// ClippedQuotient returns a/b after clamping |b| to at least EpsInInverse.
// The clamp keeps the sign of b; zero of either sign becomes +EpsInInverse.
func ClippedQuotient[T Real](a, b T) T {
	if Abs(b) < T(EpsInInverse) {
		if b < 0 {
			b = -T(EpsInInverse)
		} else {
			b = T(EpsInInverse)
		}
	}
	return a / b
}

// LogAdd returns log(exp(x) + exp(y)) without overflow.
func LogAdd[T Real](x, y T) T {
	if x < y {
		x, y = y, x
	}
	return x + Log1p(Exp(y-x))
}

// SafePow is the total power function used by the Pow operator.
//
//	exponent == 0          -> 1 (including 0**0)
//	base == 0              -> 0
//	base > 0               -> base**exponent
//	base < 0, integral exp -> |base|**exponent, negated for odd exponents
//	base < 0, otherwise    -> NaN
//
// Integrality is tested by comparing exponent against its truncation to an
// int64, so exponents beyond the int64 range are treated as non-integral.
func SafePow[T Real](base, exponent T) T {
	if exponent == 0 {
		return 1
	}
	if base == 0 {
		return 0
	}
	if base > 0 {
		return Pow(base, exponent)
	}

	expAsInt := int64(exponent)
	if exponent != T(expAsInt) {
		return NaN[T]()
	}
	return Pow(Abs(base), exponent) * T(1-2*(expAsInt&1))
}
