//go:build !wasm

package operators

import (
	"fmt"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
)

// registerUtilityOps adds utility operators to the registry.
func (r *Registry) registerUtilityOps() {
	r.Register("Identity", elementwise("Identity", kernels.OpCopy))
	r.Register("Where", elementwise("Where", kernels.OpCond))
	r.Register("Cast", handleCast)
}

// Caster is implemented by backends with a native precision conversion.
type Caster interface {
	Cast(x *tensor.RawTensor, dtype tensor.DataType) (*tensor.RawTensor, error)
}

// handleCast converts between float precisions. Conversions round once to
// the target, except float64 to float16 which rounds through float32.
func handleCast(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("cast requires 1 input, got %d", len(inputs))
	}
	in := inputs[0]
	if in == nil {
		return nil, fmt.Errorf("cast: %w", tensor.ErrNilBuffer)
	}
	if !HasAttr(node, "to") {
		return nil, fmt.Errorf("cast: missing 'to' attribute")
	}
	to, err := DataTypeFromProto(GetAttrInt(node, "to", TensorProtoUndefined))
	if err != nil {
		return nil, fmt.Errorf("cast: %w", err)
	}

	if ctx != nil {
		if c, ok := ctx.Backend.(Caster); ok {
			result, err := c.Cast(in, to)
			if err != nil {
				return nil, fmt.Errorf("cast: %w", err)
			}
			return []*tensor.RawTensor{result}, nil
		}
	}

	result, err := tensor.NewRaw(in.Len(), to, in.Device())
	if err != nil {
		return nil, fmt.Errorf("cast: %w", err)
	}
	for i := 0; i < in.Len(); i++ {
		result.Set(i, in.At(i))
	}
	return []*tensor.RawTensor{result}, nil
}
