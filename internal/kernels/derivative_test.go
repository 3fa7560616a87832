package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"
)

var central = &fd.Settings{Formula: fd.Central, Step: 1e-6}

// unaryGradient describes a binary gradient operator g(a, b) that, for a == 1,
// must equal d/dx forward(x). operand maps x to the b operand: either x itself
// (FromInput) or forward(x) (FromOutput).
type unaryGradient struct {
	op      Op
	forward func(float64) float64
	operand func(x, y float64) float64
	inputs  []float64
}

func fromInput(x, _ float64) float64  { return x }
func fromOutput(_, y float64) float64 { return y }

func TestGradientOperatorsMatchFiniteDifferences(t *testing.T) {
	smooth := []float64{-2.5, -1, -0.3, 0.2, 0.7, 1.5, 3}
	positive := []float64{0.05, 0.3, 1, 2.5, 10}
	unit := []float64{-0.9, -0.5, -0.1, 0.1, 0.5, 0.9}
	nonzero := []float64{-3, -1, -0.2, 0.2, 1, 3}

	tests := []unaryGradient{
		{OpElementwiseProductWithSigmoidDerivativeFromOutput, StableSigmoid[float64], fromOutput, smooth},
		{OpElementwiseProductWithTanhDerivativeFromOutput, math.Tanh, fromOutput, smooth},
		{OpElementwiseProductWithLinearRectifierDerivativeFromOutput, LinearRectifier[float64], fromOutput, nonzero},
		{OpElementwiseProductWithLogDerivativeFromOutput, ClippedLog[float64], fromOutput, positive},
		{OpElementwiseProductWithCosDerivative, math.Cos, fromInput, smooth},
		{OpElementwiseProductWithSinDerivative, math.Sin, fromInput, smooth},
		{OpElementwiseProductWithAsinDerivative, math.Asin, fromInput, unit},
		{OpElementwiseProductWithAcosDerivative, math.Acos, fromInput, unit},
		{OpElementwiseProductWithAbsDerivative, math.Abs, fromInput, nonzero},
		{OpElementwiseProductWithReciprocalDerivative, Reciprocal[float64], fromOutput, nonzero},
		{OpElementwiseProductWithSqrtDerivative, math.Sqrt, fromOutput, positive},
		{OpElementwiseProductWithExponentialLinearUnitDerivativeFromOutput, ExponentialLinearUnit[float64], fromOutput, nonzero},
		{OpElementwiseProductWithSinhDerivative, math.Sinh, fromInput, smooth},
		{OpElementwiseProductWithCoshDerivative, math.Cosh, fromInput, smooth},
	}

	for _, tt := range tests {
		t.Run(tt.op.Name(), func(t *testing.T) {
			g64, ok := Binary[float64](tt.op)
			require.True(t, ok)
			g32, ok := Binary[float32](tt.op)
			require.True(t, ok)

			for _, x := range tt.inputs {
				want := fd.Derivative(tt.forward, x, central)
				b := tt.operand(x, tt.forward(x))

				got := g64(1, b)
				assert.True(t, scalar.EqualWithinAbsOrRel(got, want, 1e-6, 1e-6),
					"float64 at x=%v: got %v, want %v", x, got, want)

				got32 := float64(g32(1, float32(b)))
				assert.True(t, scalar.EqualWithinAbsOrRel(got32, want, 1e-4, 1e-4),
					"float32 at x=%v: got %v, want %v", x, got32, want)

				// The upstream gradient scales linearly.
				assert.InDelta(t, 2.5*got, g64(2.5, b), 1e-12*math.Max(1, math.Abs(got)))
			}
		})
	}
}

func TestSigmoidDerivativeMatchesFiniteDifferences(t *testing.T) {
	for _, z := range []float64{-6, -1, 0, 0.5, 4} {
		assert.InDelta(t, fd.Derivative(Sigmoid[float64], z, central), SigmoidDerivative(z), 1e-8)
		assert.InDelta(t, fd.Derivative(StableSigmoid[float64], z, central), StableSigmoidDerivative(z), 1e-8)
	}
	for _, z := range []float64{-2, -0.5, 0.5, 2} {
		assert.InDelta(t, fd.Derivative(ExponentialLinearUnit[float64], z, central), ExponentialLinearUnitDerivative(z), 1e-8)
		assert.InDelta(t, fd.Derivative(LinearRectifier[float64], z, central), LinearRectifierDerivative(z), 1e-8)
	}
}

func TestTernaryGradientsMatchFiniteDifferences(t *testing.T) {
	logSumDeriv, _ := Ternary[float64](OpElementwiseProductWithLogSumDerivative)
	expOfDiff, _ := Ternary[float64](OpElementwiseProductWithExpOfDiff)
	quotient, _ := Ternary[float64](OpElementwiseProductWithQuotient)
	powExp, _ := Ternary[float64](OpElementwiseProductWithPowExponentDerivative)
	powBase, _ := Ternary[float64](OpElementwiseProductWithPowBaseDerivative)

	pairs := [][2]float64{{0.5, 1.5}, {-2, 1}, {3, 3}, {4, -7}}
	for _, p := range pairs {
		x, y := p[0], p[1]

		// d/dx log(e^x + e^y), expressed both from the other input and from
		// the forward output.
		want := fd.Derivative(func(v float64) float64 { return LogAdd(v, y) }, x, central)
		assert.InDelta(t, want, logSumDeriv(1, y, x), 1e-7, "logsum (%v, %v)", x, y)
		assert.InDelta(t, want, expOfDiff(1, x, LogAdd(x, y)), 1e-7, "expOfDiff (%v, %v)", x, y)

		// d/dy x/y = -(x/y)/y.
		want = fd.Derivative(func(v float64) float64 { return x / v }, y, central)
		assert.InDelta(t, want, quotient(1, -x/y, y), 1e-6, "quotient (%v, %v)", x, y)
	}

	for _, base := range []float64{0.5, 1.5, 3} {
		for _, e := range []float64{-1.5, 0.5, 2, 3} {
			want := fd.Derivative(func(v float64) float64 { return math.Pow(base, v) }, e, central)
			assert.InDelta(t, want, powExp(1, math.Pow(base, e), base), 1e-6, "pow exponent (%v, %v)", base, e)

			want = fd.Derivative(func(v float64) float64 { return math.Pow(v, e) }, base, central)
			assert.InDelta(t, want, powBase(1, base, e), 1e-5, "pow base (%v, %v)", base, e)
		}
	}

	// Integral exponents keep the base derivative defined for negative bases.
	want := fd.Derivative(func(v float64) float64 { return SafePow(v, 3.0) }, -2, central)
	assert.InDelta(t, want, powBase(1, -2, 3), 1e-5)
}
