//go:build !wasm

package operators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
)

// Errors returned by handlers and Execute.
var (
	ErrUnsupportedOp = errors.New("unsupported operator")
	ErrNoBackend     = errors.New("no backend in context")
)

// Backend applies a catalog operator over flat element buffers. Both the CPU
// and WebGPU backends satisfy it.
type Backend interface {
	Apply(op kernels.Op, dst *tensor.RawTensor, operands ...*tensor.RawTensor) error
}

// OpHandler processes an ONNX node and returns output tensors.
type OpHandler func(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error)

// Context provides backend and other execution context for operators.
type Context struct {
	Backend Backend
}

// Registry maps ONNX operator types to handler functions.
type Registry struct {
	handlers map[string]OpHandler
}

// NewRegistry creates a new operator registry with all supported operators.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]OpHandler),
	}

	r.registerMathOps()
	r.registerActivations()
	r.registerUtilityOps()

	return r
}

// Register adds a custom operator handler.
func (r *Registry) Register(opType string, handler OpHandler) {
	r.handlers[opType] = handler
}

// Get returns the handler for an operator type.
func (r *Registry) Get(opType string) (OpHandler, bool) {
	h, ok := r.handlers[opType]
	return h, ok
}

// Execute runs an operator with the given inputs.
func (r *Registry) Execute(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	handler, ok := r.handlers[node.OpType]
	if !ok {
		if s := r.suggest(node.OpType); s != "" {
			return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnsupportedOp, node.OpType, s)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOp, node.OpType)
	}
	return handler(ctx, node, inputs)
}

// SupportedOps returns all supported operator types, sorted.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// suggest returns the closest registered op type within edit distance 2.
func (r *Registry) suggest(opType string) string {
	best, bestDist := "", 3
	for _, name := range r.SupportedOps() {
		if d := levenshtein.ComputeDistance(opType, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// apply allocates a result like inputs[0] and runs op into it.
func apply(ctx *Context, op kernels.Op, inputs ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	if ctx == nil || ctx.Backend == nil {
		return nil, ErrNoBackend
	}
	if len(inputs) == 0 || inputs[0] == nil {
		return nil, tensor.ErrNilBuffer
	}
	result, err := tensor.NewRaw(inputs[0].Len(), inputs[0].DType(), inputs[0].Device())
	if err != nil {
		return nil, err
	}
	if err := ctx.Backend.Apply(op, result, inputs...); err != nil {
		return nil, err
	}
	return result, nil
}

// elementwise builds a handler that runs op over exactly op.Arity() inputs.
func elementwise(name string, op kernels.Op) OpHandler {
	return func(ctx *Context, _ *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		if n := op.Arity(); len(inputs) != n {
			return nil, fmt.Errorf("%s requires %d inputs, got %d", name, n, len(inputs))
		}
		result, err := apply(ctx, op, inputs...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return []*tensor.RawTensor{result}, nil
	}
}

// variadic builds a handler that left-folds a binary op over one or more
// inputs, as ONNX Sum, Max and Min do.
func variadic(name string, op kernels.Op) OpHandler {
	return func(ctx *Context, _ *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		if len(inputs) == 0 {
			return nil, fmt.Errorf("%s requires at least 1 input", name)
		}
		if len(inputs) == 1 {
			result, err := apply(ctx, kernels.OpCopy, inputs[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return []*tensor.RawTensor{result}, nil
		}

		result, err := apply(ctx, op, inputs[0], inputs[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for i := 2; i < len(inputs); i++ {
			if err := ctx.Backend.Apply(op, result, result, inputs[i]); err != nil {
				return nil, fmt.Errorf("%s input %d: %w", name, i, err)
			}
		}
		return []*tensor.RawTensor{result}, nil
	}
}

// fill returns a buffer like like whose elements all equal v.
func fill(like *tensor.RawTensor, v float64) (*tensor.RawTensor, error) {
	r, err := tensor.NewRaw(like.Len(), like.DType(), like.Device())
	if err != nil {
		return nil, err
	}
	for i := 0; i < r.Len(); i++ {
		r.Set(i, v)
	}
	return r, nil
}
