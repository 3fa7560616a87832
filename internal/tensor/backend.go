package tensor

import (
	"errors"
	"fmt"
)

// Errors reported by backends when operand buffers do not line up.
var (
	ErrLengthMismatch = errors.New("length mismatch")
	ErrDTypeMismatch  = errors.New("dtype mismatch")
	ErrNilBuffer      = errors.New("nil buffer")
)

// CheckElementwise validates the buffers of one elementwise backend call:
// dst and every operand must be non-nil and share dst's length and dtype.
// Arity is checked by the caller, which knows the operator.
//
// Operands may alias dst; elementwise kernels read index i before writing it.
func CheckElementwise(dst *RawTensor, operands ...*RawTensor) error {
	if dst == nil {
		return fmt.Errorf("dst: %w", ErrNilBuffer)
	}
	if !dst.dtype.Valid() {
		return fmt.Errorf("dst: invalid data type %d", dst.dtype)
	}
	for i, src := range operands {
		if src == nil {
			return fmt.Errorf("operand %d: %w", i, ErrNilBuffer)
		}
		if src.dtype != dst.dtype {
			return fmt.Errorf("operand %d: %w: %s, dst is %s", i, ErrDTypeMismatch, src.dtype, dst.dtype)
		}
		if src.n != dst.n {
			return fmt.Errorf("operand %d: %w: %d elements, dst has %d", i, ErrLengthMismatch, src.n, dst.n)
		}
	}
	return nil
}
