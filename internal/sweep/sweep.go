// Package sweep checks operator agreement across precisions and backends.
//
// Every check runs one operator per errgroup task over the cartesian
// product of a sample grid, so ternary operators see len(Samples)^3 inputs.
// Mismatches are logged at Debug per operator and summarized at Info.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
	"github.com/x448/float16"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultSamples is the operand grid used when Options.Samples is empty. All
// values are exact in half precision.
var DefaultSamples = []float64{-8, -3, -1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75, 1, 2, 8}

// Options configures a sweep.
type Options struct {
	// Ops to check; empty means kernels.All().
	Ops []kernels.Op
	// Samples is the per-operand grid.
	Samples []float64
	// Concurrency bounds the operators checked at once; 0 means NumCPU.
	Concurrency int
	// AbsTol and RelTol bound accepted differences for tolerant checks.
	// Zero values select per-check defaults.
	AbsTol, RelTol float64
	// MaxReported caps the mismatches kept per operator; 0 means 8.
	MaxReported int
	// Logger receives per-operator Debug records and the Info summary; nil
	// discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults(absTol, relTol float64) Options {
	if len(o.Ops) == 0 {
		o.Ops = kernels.All()
	}
	if len(o.Samples) == 0 {
		o.Samples = DefaultSamples
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.NumCPU()
	}
	if o.AbsTol == 0 {
		o.AbsTol = absTol
	}
	if o.RelTol == 0 {
		o.RelTol = relTol
	}
	if o.MaxReported <= 0 {
		o.MaxReported = 8
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Mismatch is one disagreeing input.
type Mismatch struct {
	Inputs []float64
	Got    float64
	Want   float64
}

// Result summarizes one operator.
type Result struct {
	Op         kernels.Op
	Checked    int
	Failed     int
	Mismatches []Mismatch // at most Options.MaxReported
}

// Passed reports whether every input agreed.
func (r Result) Passed() bool {
	return r.Failed == 0
}

// Summary totals checked inputs and failures over results.
func Summary(results []Result) (checked, failed int) {
	for _, r := range results {
		checked += r.Checked
		failed += r.Failed
	}
	return checked, failed
}

// checkFunc evaluates one operator over the grid.
type checkFunc func(ctx context.Context, op kernels.Op, o Options) (Result, error)

func run(ctx context.Context, name string, o Options, check checkFunc) ([]Result, error) {
	for _, op := range o.Ops {
		if !op.Valid() {
			return nil, fmt.Errorf("%s: %w %d", name, kernels.ErrUnknownOp, int(op))
		}
	}
	results := make([]Result, len(o.Ops))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)
	for i, op := range o.Ops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := check(ctx, op, o)
			if err != nil {
				return fmt.Errorf("%s %s: %w", name, op, err)
			}
			if !res.Passed() {
				o.Logger.Debug("operator disagrees", "sweep", name, "op", op,
					"failed", res.Failed, "checked", res.Checked, "first", res.Mismatches[0])
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	checked, failed := Summary(results)
	o.Logger.Info("sweep complete", "sweep", name, "ops", len(results), "checked", checked, "failed", failed)
	return results, nil
}

// grid calls f with every combination of arity samples.
func grid(samples []float64, arity int, f func(xs []float64)) {
	xs := make([]float64, arity)
	var rec func(k int)
	rec = func(k int) {
		if k == arity {
			f(xs)
			return
		}
		for _, v := range samples {
			xs[k] = v
			rec(k + 1)
		}
	}
	rec(0)
}

// gridSize returns len(samples)^arity.
func gridSize(samples []float64, arity int) int {
	n := 1
	for range arity {
		n *= len(samples)
	}
	return n
}

func (r *Result) record(o Options, xs []float64, got, want float64, ok bool) {
	r.Checked++
	if ok {
		return
	}
	r.Failed++
	if len(r.Mismatches) < o.MaxReported {
		r.Mismatches = append(r.Mismatches, Mismatch{
			Inputs: append([]float64(nil), xs...),
			Got:    got,
			Want:   want,
		})
	}
}

func sameBits(got, want float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return math.IsNaN(got) && math.IsNaN(want)
	}
	return got == want
}

func within(o Options) func(got, want float64) bool {
	return func(got, want float64) bool {
		if math.IsNaN(got) || math.IsNaN(want) {
			return math.IsNaN(got) && math.IsNaN(want)
		}
		return scalar.EqualWithinAbsOrRel(got, want, o.AbsTol, o.RelTol)
	}
}

// HalfAgreement checks that every half-precision operator equals the
// float32 operator on the widened operands, rounded once to half.
func HalfAgreement(ctx context.Context, opts Options) ([]Result, error) {
	o := opts.withDefaults(0, 0)

	// Snap the grid to half so both sides see identical operands.
	samples := make([]float64, len(o.Samples))
	for i, v := range o.Samples {
		samples[i] = float64(float16.Fromfloat32(float32(v)).Float32())
	}
	o.Samples = samples

	return run(ctx, "half", o, func(_ context.Context, op kernels.Op, o Options) (Result, error) {
		res := Result{Op: op}
		var err error
		grid(o.Samples, op.Arity(), func(xs []float64) {
			if err != nil {
				return
			}
			got, e := kernels.Eval(op, tensor.Float16, xs...)
			if e != nil {
				err = e
				return
			}
			single, e := kernels.Eval(op, tensor.Float32, xs...)
			if e != nil {
				err = e
				return
			}
			want := float64(float16.Fromfloat32(float32(single)).Float32())
			res.record(o, xs, got, want, sameBits(got, want))
		})
		return res, err
	})
}

// SingleDoubleAgreement checks that float32 and float64 operators agree to
// float32 tolerance (defaults: AbsTol 1e-6, RelTol 1e-5).
func SingleDoubleAgreement(ctx context.Context, opts Options) ([]Result, error) {
	o := opts.withDefaults(1e-6, 1e-5)
	eq := within(o)

	return run(ctx, "single-double", o, func(_ context.Context, op kernels.Op, o Options) (Result, error) {
		res := Result{Op: op}
		var err error
		grid(o.Samples, op.Arity(), func(xs []float64) {
			if err != nil {
				return
			}
			got, e := kernels.Eval(op, tensor.Float32, xs...)
			if e != nil {
				err = e
				return
			}
			want, e := kernels.Eval(op, tensor.Float64, xs...)
			if e != nil {
				err = e
				return
			}
			res.record(o, xs, got, want, eq(got, want))
		})
		return res, err
	})
}
