package kernels

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Op identifies an elementwise operator. Values are append-only: a new
// operator goes at the end of its arity group's list in opInfos and never
// changes the value or name of an existing one.
type Op int

// Nullary operators.
const (
	OpConstOne Op = iota
)

// Unary operators (operand a).
const (
	OpCopy Op = iota + 100
	OpNegate
	OpNot
	OpAbs
	OpFloor
	OpSigmoid
	OpTanh
	OpSqr
	OpSqrt
	OpExp
	OpLog
	OpLinearRectifier
	OpCosine
	OpSin
	OpReciprocal
	OpExponentialLinearUnit
	OpStableSigmoid
	OpAsin
	OpAcos
	OpSinh
	OpCosh
)

// Binary operators (operands a, b).
const (
	OpCopyIf Op = iota + 200
	OpCopyIfNot
	OpSum
	OpDifference
	OpElementwiseProduct
	OpElementwiseQuotient
	OpLogSum
	OpPow
	OpMax
	OpMin
	OpEqual
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
	OpAnd
	OpOr
	OpXor
	OpMaskNegative
	OpElementwiseProductWithSigmoidDerivativeFromOutput
	OpElementwiseProductWithTanhDerivativeFromOutput
	OpElementwiseProductWithLinearRectifierDerivativeFromOutput
	OpElementwiseProductWithLogDerivativeFromOutput
	OpElementwiseProductWithCosDerivative
	OpElementwiseProductWithSinDerivative
	OpElementwiseProductWithAsinDerivative
	OpElementwiseProductWithAcosDerivative
	OpElementwiseProductWithAbsDerivative
	OpElementwiseProductWithReciprocalDerivative
	OpElementwiseProductWithSqrtDerivative
	OpSqrOfDifference
	OpElementwiseProductWithExponentialLinearUnitDerivativeFromOutput
	OpElementwiseProductWithSinhDerivative
	OpElementwiseProductWithCoshDerivative
)

// Ternary operators (operands a, b, c).
const (
	OpCond Op = iota + 300
	OpCopyIfEqual
	OpClip
	OpElementwiseProductWithLogSumDerivative
	OpElementwiseProductWithExpOfDiff
	OpElementwiseProductWithQuotient
	OpElementwiseProductWithPowExponentDerivative
	OpElementwiseProductWithPowBaseDerivative
)

// Errors returned by Lookup and Eval.
var (
	ErrUnknownOp = errors.New("unknown operator")
	ErrArity     = errors.New("wrong number of operands")
	ErrPrecision = errors.New("unsupported precision")
)

type opInfo struct {
	op   Op
	name string
}

// opInfos lists every operator in enum order.
var opInfos = []opInfo{
	{OpConstOne, "ConstOne"},

	{OpCopy, "Copy"},
	{OpNegate, "Negate"},
	{OpNot, "Not"},
	{OpAbs, "Abs"},
	{OpFloor, "Floor"},
	{OpSigmoid, "Sigmoid"},
	{OpTanh, "Tanh"},
	{OpSqr, "Sqr"},
	{OpSqrt, "Sqrt"},
	{OpExp, "Exp"},
	{OpLog, "Log"},
	{OpLinearRectifier, "LinearRectifier"},
	{OpCosine, "Cosine"},
	{OpSin, "Sin"},
	{OpReciprocal, "Reciprocal"},
	{OpExponentialLinearUnit, "ExponentialLinearUnit"},
	{OpStableSigmoid, "StableSigmoid"},
	{OpAsin, "Asin"},
	{OpAcos, "Acos"},
	{OpSinh, "Sinh"},
	{OpCosh, "Cosh"},

	{OpCopyIf, "CopyIf"},
	{OpCopyIfNot, "CopyIfNot"},
	{OpSum, "Sum"},
	{OpDifference, "Difference"},
	{OpElementwiseProduct, "ElementwiseProduct"},
	{OpElementwiseQuotient, "ElementwiseQuotient"},
	{OpLogSum, "LogSum"},
	{OpPow, "Pow"},
	{OpMax, "Max"},
	{OpMin, "Min"},
	{OpEqual, "Equal"},
	{OpNotEqual, "NotEqual"},
	{OpGreater, "Greater"},
	{OpLess, "Less"},
	{OpGreaterEqual, "GreaterEqual"},
	{OpLessEqual, "LessEqual"},
	{OpAnd, "And"},
	{OpOr, "Or"},
	{OpXor, "Xor"},
	{OpMaskNegative, "MaskNegative"},
	{OpElementwiseProductWithSigmoidDerivativeFromOutput, "ElementwiseProductWithSigmoidDerivativeFromOutput"},
	{OpElementwiseProductWithTanhDerivativeFromOutput, "ElementwiseProductWithTanhDerivativeFromOutput"},
	{OpElementwiseProductWithLinearRectifierDerivativeFromOutput, "ElementwiseProductWithLinearRectifierDerivativeFromOutput"},
	{OpElementwiseProductWithLogDerivativeFromOutput, "ElementwiseProductWithLogDerivativeFromOutput"},
	{OpElementwiseProductWithCosDerivative, "ElementwiseProductWithCosDerivative"},
	{OpElementwiseProductWithSinDerivative, "ElementwiseProductWithSinDerivative"},
	{OpElementwiseProductWithAsinDerivative, "ElementwiseProductWithAsinDerivative"},
	{OpElementwiseProductWithAcosDerivative, "ElementwiseProductWithAcosDerivative"},
	{OpElementwiseProductWithAbsDerivative, "ElementwiseProductWithAbsDerivative"},
	{OpElementwiseProductWithReciprocalDerivative, "ElementwiseProductWithReciprocalDerivative"},
	{OpElementwiseProductWithSqrtDerivative, "ElementwiseProductWithSqrtDerivative"},
	{OpSqrOfDifference, "SqrOfDifference"},
	{OpElementwiseProductWithExponentialLinearUnitDerivativeFromOutput, "ElementwiseProductWithExponentialLinearUnitDerivativeFromOutput"},
	{OpElementwiseProductWithSinhDerivative, "ElementwiseProductWithSinhDerivative"},
	{OpElementwiseProductWithCoshDerivative, "ElementwiseProductWithCoshDerivative"},

	{OpCond, "Cond"},
	{OpCopyIfEqual, "CopyIfEqual"},
	{OpClip, "Clip"},
	{OpElementwiseProductWithLogSumDerivative, "ElementwiseProductWithLogSumDerivative"},
	{OpElementwiseProductWithExpOfDiff, "ElementwiseProductWithExpOfDiff"},
	{OpElementwiseProductWithQuotient, "ElementwiseProductWithQuotient"},
	{OpElementwiseProductWithPowExponentDerivative, "ElementwiseProductWithPowExponentDerivative"},
	{OpElementwiseProductWithPowBaseDerivative, "ElementwiseProductWithPowBaseDerivative"},
}

var (
	opNames  = make(map[Op]string, len(opInfos))
	opByName = make(map[string]Op, len(opInfos))
)

func init() {
	for _, info := range opInfos {
		opNames[info.op] = info.name
		opByName[info.name] = info.op
	}
}

// Name returns the operator's stable name, e.g. "StableSigmoid".
func (op Op) Name() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// String implements fmt.Stringer.
func (op Op) String() string {
	return op.Name()
}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	_, ok := opNames[op]
	return ok
}

// Arity returns the number of operands op takes, or -1 for unknown ops.
func (op Op) Arity() int {
	if !op.Valid() {
		return -1
	}
	return int(op) / 100
}

// All returns every operator in enum order.
func All() []Op {
	ops := make([]Op, len(opInfos))
	for i, info := range opInfos {
		ops[i] = info.op
	}
	return ops
}

// WithArity returns the operators taking n operands, in enum order.
func WithArity(n int) []Op {
	var ops []Op
	for _, info := range opInfos {
		if info.op.Arity() == n {
			ops = append(ops, info.op)
		}
	}
	return ops
}

// Lookup resolves a stable operator name. Matching is exact; an optional
// "Op" prefix is accepted. Unknown names return an error wrapping
// ErrUnknownOp that suggests the closest known name.
func Lookup(name string) (Op, error) {
	if op, ok := opByName[name]; ok {
		return op, nil
	}
	if op, ok := opByName[strings.TrimPrefix(name, "Op")]; ok {
		return op, nil
	}
	if s := Suggest(name); s != "" {
		return 0, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownOp, name, s)
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOp, name)
}

// Suggest returns the known operator name closest to name by edit distance,
// or "" when nothing is reasonably close.
func Suggest(name string) string {
	best, bestScore := "", -1
	lower := strings.ToLower(name)
	for _, info := range opInfos {
		score := levenshtein.ComputeDistance(lower, strings.ToLower(info.name))
		if bestScore < 0 || score < bestScore {
			best, bestScore = info.name, score
		}
	}
	if bestScore < 0 || bestScore > len(name)/2 {
		return ""
	}
	return best
}

// Names returns every operator name, sorted.
func Names() []string {
	names := make([]string, 0, len(opInfos))
	for _, info := range opInfos {
		names = append(names, info.name)
	}
	sort.Strings(names)
	return names
}
