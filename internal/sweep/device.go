package sweep

import (
	"context"
	"math"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
)

// Backend applies a catalog operator over flat element buffers.
type Backend interface {
	Apply(op kernels.Op, dst *tensor.RawTensor, operands ...*tensor.RawTensor) error
}

// deviceTolerance returns default abs/rel tolerances for dt. Device math
// builtins are not correctly rounded, so float32 allows a few ulp of
// relative error plus slack for transcendental approximations.
func deviceTolerance(dt tensor.DataType) (absTol, relTol float64) {
	switch dt {
	case tensor.Float16:
		return 5e-3, 5e-3
	case tensor.Float64:
		return 1e-12, 1e-12
	default:
		return 1e-5, 2e-3
	}
}

// DeviceAgreement applies each operator over the sample grid on dev and on
// ref at precision dt and compares the results element by element. Inputs
// where the reference result is not finite are skipped. Operators run one
// at a time unless opts.Concurrency is set, since device queues are not
// assumed to be goroutine-safe.
func DeviceAgreement(ctx context.Context, ref, dev Backend, dt tensor.DataType, opts Options) ([]Result, error) {
	if opts.Concurrency == 0 {
		opts.Concurrency = 1
	}
	o := opts.withDefaults(deviceTolerance(dt))
	eq := within(o)

	return run(ctx, "device-"+dt.String(), o, func(_ context.Context, op kernels.Op, o Options) (Result, error) {
		arity := op.Arity()
		n := gridSize(o.Samples, arity)

		operands := make([]*tensor.RawTensor, arity)
		for j := range operands {
			buf, err := tensor.NewRaw(n, dt, tensor.CPU)
			if err != nil {
				return Result{}, err
			}
			operands[j] = buf
		}
		inputs := make([][]float64, 0, n)
		grid(o.Samples, arity, func(xs []float64) {
			i := len(inputs)
			for j, v := range xs {
				operands[j].Set(i, v)
			}
			inputs = append(inputs, append([]float64(nil), xs...))
		})

		want, err := tensor.NewRaw(n, dt, tensor.CPU)
		if err != nil {
			return Result{}, err
		}
		got, err := tensor.NewRaw(n, dt, tensor.CPU)
		if err != nil {
			return Result{}, err
		}
		if err := ref.Apply(op, want, operands...); err != nil {
			return Result{}, err
		}
		if err := dev.Apply(op, got, operands...); err != nil {
			return Result{}, err
		}

		res := Result{Op: op}
		for i := range n {
			w := want.At(i)
			if math.IsNaN(w) || math.IsInf(w, 0) {
				continue
			}
			g := got.At(i)
			res.record(o, inputs[i], g, w, eq(g, w))
		}
		return res, nil
	})
}
