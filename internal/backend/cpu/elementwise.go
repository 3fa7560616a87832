package cpu

import (
	"fmt"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/parallel"
	"github.com/born-ml/tensorops/internal/tensor"
)

// resolvers groups the four resolver functions of one element type.
type resolvers[T any] struct {
	nullary func(kernels.Op) (kernels.NullaryFunc[T], bool)
	unary   func(kernels.Op) (kernels.UnaryFunc[T], bool)
	binary  func(kernels.Op) (kernels.BinaryFunc[T], bool)
	ternary func(kernels.Op) (kernels.TernaryFunc[T], bool)
}

var (
	float32Kernels = resolvers[float32]{
		kernels.Nullary[float32], kernels.Unary[float32], kernels.Binary[float32], kernels.Ternary[float32],
	}
	float64Kernels = resolvers[float64]{
		kernels.Nullary[float64], kernels.Unary[float64], kernels.Binary[float64], kernels.Ternary[float64],
	}
	halfKernels = resolvers[kernels.Half]{
		kernels.NullaryF16, kernels.UnaryF16, kernels.BinaryF16, kernels.TernaryF16,
	}
)

// applyTyped resolves op once and runs it over dst in parallel chunks.
func applyTyped[T any](rs resolvers[T], cfg parallel.Config, op kernels.Op, dst []T, src ...[]T) error {
	switch len(src) {
	case 0:
		f, ok := rs.nullary(op)
		if !ok {
			break
		}
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f()
			}
		}, cfg)
		return nil

	case 1:
		f, ok := rs.unary(op)
		if !ok {
			break
		}
		a := src[0]
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(a[i])
			}
		}, cfg)
		return nil

	case 2:
		f, ok := rs.binary(op)
		if !ok {
			break
		}
		a, b := src[0], src[1]
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(a[i], b[i])
			}
		}, cfg)
		return nil

	case 3:
		f, ok := rs.ternary(op)
		if !ok {
			break
		}
		a, b, c := src[0], src[1], src[2]
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(a[i], b[i], c[i])
			}
		}, cfg)
		return nil
	}
	return fmt.Errorf("%w: %s with %d operands", kernels.ErrArity, op, len(src))
}

// ApplySlice runs op over typed slices without going through RawTensor.
// All slices must have len(dst) elements.
func ApplySlice[T kernels.Real](cfg parallel.Config, op kernels.Op, dst []T, src ...[]T) error {
	for i, s := range src {
		if len(s) != len(dst) {
			return fmt.Errorf("operand %d: %w: %d elements, dst has %d", i, tensor.ErrLengthMismatch, len(s), len(dst))
		}
	}
	rs := resolvers[T]{kernels.Nullary[T], kernels.Unary[T], kernels.Binary[T], kernels.Ternary[T]}
	return applyTyped(rs, cfg, op, dst, src...)
}
