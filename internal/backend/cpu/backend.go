// Package cpu implements the CPU backend: catalog operators applied over flat
// element buffers, split across goroutines by internal/parallel.
package cpu

import (
	"fmt"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/parallel"
	"github.com/born-ml/tensorops/internal/tensor"
)

// CPUBackend applies elementwise operators on the host.
type CPUBackend struct {
	device tensor.Device
	cfg    parallel.Config
}

// New creates a new CPU backend with parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel config.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		cfg:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Config returns the parallel execution config.
func (cpu *CPUBackend) Config() parallel.Config {
	return cpu.cfg
}

// Apply evaluates op element by element: dst[i] = op(operands[0][i], ...).
// All buffers must share dst's length and dtype; operands may alias dst.
func (cpu *CPUBackend) Apply(op kernels.Op, dst *tensor.RawTensor, operands ...*tensor.RawTensor) error {
	if !op.Valid() {
		return fmt.Errorf("cpu apply: %w %d", kernels.ErrUnknownOp, int(op))
	}
	if n := op.Arity(); len(operands) != n {
		return fmt.Errorf("cpu apply %s: %w: want %d, got %d", op, kernels.ErrArity, n, len(operands))
	}
	if err := tensor.CheckElementwise(dst, operands...); err != nil {
		return fmt.Errorf("cpu apply %s: %w", op, err)
	}

	var err error
	switch dst.DType() {
	case tensor.Float32:
		err = applyTyped(float32Kernels, cpu.cfg, op, dst.AsFloat32(), views[float32](operands)...)
	case tensor.Float64:
		err = applyTyped(float64Kernels, cpu.cfg, op, dst.AsFloat64(), views[float64](operands)...)
	case tensor.Float16:
		err = applyTyped(halfKernels, cpu.cfg, op, dst.AsFloat16(), views[kernels.Half](operands)...)
	default:
		err = fmt.Errorf("%w %s", kernels.ErrPrecision, dst.DType())
	}
	if err != nil {
		return fmt.Errorf("cpu apply %s: %w", op, err)
	}
	return nil
}

// Map allocates a result shaped like operands[0] and applies op into it.
// Nullary operators have no operand to take the shape from; use Apply.
func (cpu *CPUBackend) Map(op kernels.Op, operands ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	if len(operands) == 0 || operands[0] == nil {
		return nil, fmt.Errorf("cpu map %s: %w", op, tensor.ErrNilBuffer)
	}
	result, err := tensor.NewRaw(operands[0].Len(), operands[0].DType(), cpu.device)
	if err != nil {
		return nil, fmt.Errorf("cpu map %s: %w", op, err)
	}
	if err := cpu.Apply(op, result, operands...); err != nil {
		return nil, err
	}
	return result, nil
}

func views[T tensor.DType](operands []*tensor.RawTensor) [][]T {
	out := make([][]T, len(operands))
	for i, r := range operands {
		out[i] = tensor.As[T](r)
	}
	return out
}
