//go:build !wasm

package operators

import "github.com/born-ml/tensorops/internal/kernels"

// registerMathOps adds arithmetic, math, comparison and logic operators.
//
// Div, Log, Sqrt, Reciprocal and Pow keep the catalog's clamping: division
// by a near-zero denominator is clipped, Log clips at the log epsilon,
// Sqrt of a negative is 0 and Reciprocal(0) is 0.
func (r *Registry) registerMathOps() {
	for name, op := range map[string]kernels.Op{
		"Add":            kernels.OpSum,
		"Sub":            kernels.OpDifference,
		"Mul":            kernels.OpElementwiseProduct,
		"Div":            kernels.OpElementwiseQuotient,
		"Pow":            kernels.OpPow,
		"Neg":            kernels.OpNegate,
		"Abs":            kernels.OpAbs,
		"Reciprocal":     kernels.OpReciprocal,
		"Floor":          kernels.OpFloor,
		"Sqrt":           kernels.OpSqrt,
		"Exp":            kernels.OpExp,
		"Log":            kernels.OpLog,
		"Sin":            kernels.OpSin,
		"Cos":            kernels.OpCosine,
		"Sinh":           kernels.OpSinh,
		"Cosh":           kernels.OpCosh,
		"Asin":           kernels.OpAsin,
		"Acos":           kernels.OpAcos,
		"Equal":          kernels.OpEqual,
		"Greater":        kernels.OpGreater,
		"GreaterOrEqual": kernels.OpGreaterEqual,
		"Less":           kernels.OpLess,
		"LessOrEqual":    kernels.OpLessEqual,
		"And":            kernels.OpAnd,
		"Or":             kernels.OpOr,
		"Xor":            kernels.OpXor,
		"Not":            kernels.OpNot,
	} {
		r.Register(name, elementwise(name, op))
	}

	r.Register("Sum", variadic("Sum", kernels.OpSum))
	r.Register("Max", variadic("Max", kernels.OpMax))
	r.Register("Min", variadic("Min", kernels.OpMin))
}
