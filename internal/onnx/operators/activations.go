//go:build !wasm

package operators

import (
	"fmt"
	"math"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
)

// registerActivations adds activation operators to the registry.
func (r *Registry) registerActivations() {
	r.Register("Relu", elementwise("Relu", kernels.OpLinearRectifier))
	r.Register("Sigmoid", elementwise("Sigmoid", kernels.OpStableSigmoid))
	r.Register("Tanh", elementwise("Tanh", kernels.OpTanh))
	r.Register("Elu", handleElu)
	r.Register("Clip", handleClip)
}

// handleElu supports only alpha = 1, the catalog's ELU.
func handleElu(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("elu requires 1 input, got %d", len(inputs))
	}
	if alpha := GetAttrFloat(node, "alpha", 1.0); alpha != 1 {
		return nil, fmt.Errorf("elu: alpha %v not supported, only 1", alpha)
	}
	result, err := apply(ctx, kernels.OpExponentialLinearUnit, inputs[0])
	if err != nil {
		return nil, fmt.Errorf("elu: %w", err)
	}
	return []*tensor.RawTensor{result}, nil
}

// handleClip takes bounds from the optional min/max inputs (opset 11+) or
// the min/max attributes (opset 6). Missing bounds are unbounded.
func handleClip(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) < 1 || len(inputs) > 3 {
		return nil, fmt.Errorf("clip requires 1 to 3 inputs, got %d", len(inputs))
	}
	x := inputs[0]
	if x == nil {
		return nil, fmt.Errorf("clip: %w", tensor.ErrNilBuffer)
	}

	lo := float64(GetAttrFloat(node, "min", float32(math.Inf(-1))))
	hi := float64(GetAttrFloat(node, "max", float32(math.Inf(1))))
	var err error
	if lo, err = scalarInput(inputs, 1, lo); err != nil {
		return nil, fmt.Errorf("clip min: %w", err)
	}
	if hi, err = scalarInput(inputs, 2, hi); err != nil {
		return nil, fmt.Errorf("clip max: %w", err)
	}

	loBuf, err := fill(x, lo)
	if err != nil {
		return nil, fmt.Errorf("clip: %w", err)
	}
	hiBuf, err := fill(x, hi)
	if err != nil {
		return nil, fmt.Errorf("clip: %w", err)
	}
	result, err := apply(ctx, kernels.OpClip, loBuf, hiBuf, x)
	if err != nil {
		return nil, fmt.Errorf("clip: %w", err)
	}
	return []*tensor.RawTensor{result}, nil
}

// scalarInput reads optional input i as a one-element tensor. Absent or nil
// inputs (ONNX empty names) yield def.
func scalarInput(inputs []*tensor.RawTensor, i int, def float64) (float64, error) {
	if i >= len(inputs) || inputs[i] == nil {
		return def, nil
	}
	if n := inputs[i].Len(); n != 1 {
		return 0, fmt.Errorf("want a scalar, got %d elements", n)
	}
	return inputs[i].At(0), nil
}
