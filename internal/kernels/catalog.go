package kernels

// Function types returned by the resolvers. Resolve once per tensor
// operation; calling the returned function never allocates.
type (
	NullaryFunc[T any] func() T
	UnaryFunc[T any]   func(a T) T
	BinaryFunc[T any]  func(a, b T) T
	TernaryFunc[T any] func(a, b, c T) T
)

func truth[T Real](b bool) T {
	if b {
		return 1
	}
	return 0
}

// Reciprocal returns 1/a, or 0 when a == 0. Masked regions of a gradient are
// zero and must stay finite. Reciprocal(a)*a is 1 within rounding only while
// both a and 1/a are normal: subnormal a gives ±Inf.
func Reciprocal[T Real](a T) T {
	if a == 0 {
		return 0
	}
	return 1 / a
}

// ExponentialLinearUnit returns a for a >= 0 and exp(a)-1 otherwise.
func ExponentialLinearUnit[T Real](a T) T {
	if a >= 0 {
		return a
	}
	return Exp(a) - 1
}

// LinearRectifier returns max(a, 0); NaN maps to 0.
func LinearRectifier[T Real](a T) T {
	if a > 0 {
		return a
	}
	return 0
}

// Clip clamps c into [lo, hi]. Bounds are checked low first, so lo wins when
// lo > hi.
func Clip[T Real](lo, hi, c T) T {
	if c < lo {
		return lo
	}
	if c > hi {
		return hi
	}
	return c
}

// Nullary resolves a nullary operator.
func Nullary[T Real](op Op) (NullaryFunc[T], bool) {
	switch op {
	case OpConstOne:
		return func() T { return 1 }, true
	}
	return nil, false
}

// Unary resolves a unary operator.
func Unary[T Real](op Op) (UnaryFunc[T], bool) {
	switch op {
	case OpCopy:
		return func(a T) T { return a }, true
	case OpNegate:
		return func(a T) T { return -a }, true
	case OpNot:
		return func(a T) T { return truth[T](a == 0) }, true
	case OpAbs:
		return Abs[T], true
	case OpFloor:
		return Floor[T], true
	case OpSigmoid:
		return Sigmoid[T], true
	case OpTanh:
		return Tanh[T], true
	case OpSqr:
		return Sqr[T], true
	case OpSqrt:
		return ClampedSqrt[T], true
	case OpExp:
		return Exp[T], true
	case OpLog:
		return ClippedLog[T], true
	case OpLinearRectifier:
		return LinearRectifier[T], true
	case OpCosine:
		return Cos[T], true
	case OpSin:
		return Sin[T], true
	case OpReciprocal:
		return Reciprocal[T], true
	case OpExponentialLinearUnit:
		return ExponentialLinearUnit[T], true
	case OpStableSigmoid:
		return StableSigmoid[T], true
	case OpAsin:
		return Asin[T], true
	case OpAcos:
		return Acos[T], true
	case OpSinh:
		return Sinh[T], true
	case OpCosh:
		return Cosh[T], true
	}
	return nil, false
}

// Binary resolves a binary operator.
func Binary[T Real](op Op) (BinaryFunc[T], bool) {
	switch op {
	case OpCopyIf:
		return func(a, b T) T {
			if a != 0 {
				return b
			}
			return 0
		}, true
	case OpCopyIfNot:
		return func(a, b T) T {
			if a == 0 {
				return b
			}
			return 0
		}, true
	case OpSum:
		return func(a, b T) T { return a + b }, true
	case OpDifference:
		return func(a, b T) T { return a - b }, true
	case OpElementwiseProduct:
		return func(a, b T) T { return a * b }, true
	case OpElementwiseQuotient:
		return ClippedQuotient[T], true
	case OpLogSum:
		return LogAdd[T], true
	case OpPow:
		return SafePow[T], true
	case OpMax:
		return func(a, b T) T {
			if a > b {
				return a
			}
			return b
		}, true
	case OpMin:
		return func(a, b T) T {
			if a < b {
				return a
			}
			return b
		}, true
	case OpEqual:
		return func(a, b T) T { return truth[T](a == b) }, true
	case OpNotEqual:
		return func(a, b T) T { return truth[T](a != b) }, true
	case OpGreater:
		return func(a, b T) T { return truth[T](a > b) }, true
	case OpLess:
		return func(a, b T) T { return truth[T](a < b) }, true
	case OpGreaterEqual:
		return func(a, b T) T { return truth[T](a >= b) }, true
	case OpLessEqual:
		return func(a, b T) T { return truth[T](a <= b) }, true
	case OpAnd:
		return func(a, b T) T { return truth[T](a != 0 && b != 0) }, true
	case OpOr:
		return func(a, b T) T { return truth[T](a != 0 || b != 0) }, true
	case OpXor:
		return func(a, b T) T { return truth[T]((a != 0) != (b != 0)) }, true
	case OpMaskNegative:
		return func(a, b T) T {
			if b >= 0 {
				return a
			}
			return 0
		}, true

	// Gradient family: a is the upstream gradient, b the forward output or
	// input as noted.
	case OpElementwiseProductWithSigmoidDerivativeFromOutput:
		return func(a, b T) T { return a * (b * (1 - b)) }, true
	case OpElementwiseProductWithTanhDerivativeFromOutput:
		return func(a, b T) T { return a * (1 - b*b) }, true
	case OpElementwiseProductWithLinearRectifierDerivativeFromOutput:
		return func(a, b T) T {
			if b > 0 {
				return a
			}
			return 0
		}, true
	case OpElementwiseProductWithLogDerivativeFromOutput:
		return func(a, b T) T { return a * Exp(-b) }, true
	case OpElementwiseProductWithCosDerivative: // b = input
		return func(a, b T) T { return a * -Sin(b) }, true
	case OpElementwiseProductWithSinDerivative: // b = input
		return func(a, b T) T { return a * Cos(b) }, true
	case OpElementwiseProductWithAsinDerivative: // b = input
		return func(a, b T) T { return a / Sqrt(1-b*b) }, true
	case OpElementwiseProductWithAcosDerivative: // b = input
		return func(a, b T) T { return -a / Sqrt(1-b*b) }, true
	case OpElementwiseProductWithAbsDerivative: // b = input
		return func(a, b T) T { return a * Sgn(b) }, true
	case OpElementwiseProductWithReciprocalDerivative:
		return func(a, b T) T { return a * -Sqr(b) }, true
	case OpElementwiseProductWithSqrtDerivative:
		return func(a, b T) T { return a / (2 * b) }, true
	case OpSqrOfDifference:
		return func(a, b T) T { return Sqr(a - b) }, true
	case OpElementwiseProductWithExponentialLinearUnitDerivativeFromOutput:
		return func(a, b T) T {
			if b >= 0 {
				return a
			}
			return a * (1 + b)
		}, true
	case OpElementwiseProductWithSinhDerivative: // b = input
		return func(a, b T) T { return a * Cosh(b) }, true
	case OpElementwiseProductWithCoshDerivative: // b = input
		return func(a, b T) T { return a * Sinh(b) }, true
	}
	return nil, false
}

// Ternary resolves a ternary operator.
func Ternary[T Real](op Op) (TernaryFunc[T], bool) {
	switch op {
	case OpCond:
		return func(a, b, c T) T {
			if a != 0 {
				return b
			}
			return c
		}, true
	case OpCopyIfEqual:
		return func(a, b, c T) T {
			if a == b {
				return c
			}
			return 0
		}, true
	case OpClip: // a = min, b = max, c = data
		return Clip[T], true
	case OpElementwiseProductWithLogSumDerivative:
		return func(a, b, c T) T { return a * StableSigmoid(c-b) }, true
	case OpElementwiseProductWithExpOfDiff:
		return func(a, b, c T) T { return a * Exp(b-c) }, true
	case OpElementwiseProductWithQuotient:
		return func(a, b, c T) T { return a * b * Reciprocal(c) }, true
	case OpElementwiseProductWithPowExponentDerivative:
		return func(a, b, c T) T {
			if c <= 0 {
				return 0
			}
			return a * b * Log(c)
		}, true
	case OpElementwiseProductWithPowBaseDerivative:
		return func(a, b, c T) T { return a * c * SafePow(b, c-1) }, true
	}
	return nil, false
}
