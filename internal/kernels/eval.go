package kernels

import (
	"fmt"

	"github.com/born-ml/tensorops/internal/tensor"
	"github.com/x448/float16"
)

// Eval evaluates op at precision dt. Operands are first rounded to dt, the
// operator runs at dt, and the result is widened back to float64 exactly.
//
// Eval is the narrow contract used by dispatchers that select precision at
// run time. Hot loops should resolve a typed function with Unary, Binary,
// etc. instead.
func Eval(op Op, dt tensor.DataType, operands ...float64) (float64, error) {
	if !op.Valid() {
		return 0, fmt.Errorf("eval: %w %d", ErrUnknownOp, int(op))
	}
	if n := op.Arity(); len(operands) != n {
		return 0, fmt.Errorf("eval %s: %w: want %d, got %d", op, ErrArity, n, len(operands))
	}

	switch dt {
	case tensor.Float32:
		xs := make([]float32, len(operands))
		for i, v := range operands {
			xs[i] = float32(v)
		}
		return float64(evalReal(op, xs)), nil
	case tensor.Float64:
		return evalReal(op, operands), nil
	case tensor.Float16:
		xs := make([]Half, len(operands))
		for i, v := range operands {
			xs[i] = float16.Fromfloat32(float32(v))
		}
		return float64(evalHalf(op, xs).Float32()), nil
	default:
		return 0, fmt.Errorf("eval %s: %w %s", op, ErrPrecision, dt)
	}
}

func evalReal[T Real](op Op, xs []T) T {
	switch len(xs) {
	case 0:
		f, _ := Nullary[T](op)
		return f()
	case 1:
		f, _ := Unary[T](op)
		return f(xs[0])
	case 2:
		f, _ := Binary[T](op)
		return f(xs[0], xs[1])
	default:
		f, _ := Ternary[T](op)
		return f(xs[0], xs[1], xs[2])
	}
}

func evalHalf(op Op, xs []Half) Half {
	switch len(xs) {
	case 0:
		f, _ := NullaryF16(op)
		return f()
	case 1:
		f, _ := UnaryF16(op)
		return f(xs[0])
	case 2:
		f, _ := BinaryF16(op)
		return f(xs[0], xs[1])
	default:
		f, _ := TernaryF16(op)
		return f(xs[0], xs[1], xs[2])
	}
}
