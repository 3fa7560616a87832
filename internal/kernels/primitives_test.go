package kernels

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestPrimitivesDispatchByPrecision(t *testing.T) {
	tests := []struct {
		name string
		f32  func(float32) float32
		gen  func(float32) float32
		f64  func(float64) float64
		gen6 func(float64) float64
	}{
		{"Log", math32.Log, Log[float32], math.Log, Log[float64]},
		{"Tanh", math32.Tanh, Tanh[float32], math.Tanh, Tanh[float64]},
		{"Sqrt", math32.Sqrt, Sqrt[float32], math.Sqrt, Sqrt[float64]},
		{"Abs", math32.Abs, Abs[float32], math.Abs, Abs[float64]},
		{"Cos", math32.Cos, Cos[float32], math.Cos, Cos[float64]},
		{"Sin", math32.Sin, Sin[float32], math.Sin, Sin[float64]},
		{"Floor", math32.Floor, Floor[float32], math.Floor, Floor[float64]},
		{"Log1p", math32.Log1p, Log1p[float32], math.Log1p, Log1p[float64]},
		{"Asin", math32.Asin, Asin[float32], math.Asin, Asin[float64]},
		{"Acos", math32.Acos, Acos[float32], math.Acos, Acos[float64]},
		{"Sinh", math32.Sinh, Sinh[float32], math.Sinh, Sinh[float64]},
		{"Cosh", math32.Cosh, Cosh[float32], math.Cosh, Cosh[float64]},
	}

	inputs := []float64{-3.5, -1, -0.25, 0, 0.125, 0.5, 0.9, 2, 7.25}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, x := range inputs {
				want32 := tt.f32(float32(x))
				got32 := tt.gen(float32(x))
				if math32.IsNaN(want32) {
					assert.True(t, math32.IsNaN(got32), "%s(%v)", tt.name, x)
				} else {
					assert.Equal(t, math.Float32bits(want32), math.Float32bits(got32), "%s(%v)", tt.name, x)
				}

				want64 := tt.f64(x)
				got64 := tt.gen6(x)
				if math.IsNaN(want64) {
					assert.True(t, math.IsNaN(got64), "%s(%v)", tt.name, x)
				} else {
					assert.Equal(t, want64, got64, "%s(%v)", tt.name, x)
				}
			}
		})
	}
}

func TestPow(t *testing.T) {
	assert.Equal(t, math.Pow(2.5, 1.5), Pow(2.5, 1.5))
	assert.Equal(t, math32.Pow(2.5, 1.5), Pow(float32(2.5), float32(1.5)))
	assert.True(t, math.IsNaN(Pow(-2.0, 0.5)))
}

func TestNaN(t *testing.T) {
	assert.True(t, IsNaN(NaN[float32]()))
	assert.True(t, IsNaN(NaN[float64]()))
	assert.False(t, IsNaN(float32(math.Inf(1))))
	assert.False(t, IsNaN(0.0))
}

func TestExpFloat32(t *testing.T) {
	// ulps counts representable float32 values between a and b.
	ulps := func(a, b float32) int64 {
		d := int64(math.Float32bits(a)) - int64(math.Float32bits(b))
		if d < 0 {
			d = -d
		}
		return d
	}

	t.Run("accuracy", func(t *testing.T) {
		for x := float32(-87); x <= 88.5; x += 0.0625 {
			want := float32(math.Exp(float64(x)))
			got := Exp(x)
			assert.LessOrEqual(t, ulps(got, want), int64(2), "Exp(%v) = %v, want %v", x, got, want)
		}
	})

	t.Run("gradual underflow", func(t *testing.T) {
		for x := float32(-103.75); x < -87; x += 0.25 {
			want := float32(math.Exp(float64(x)))
			got := Exp(x)
			assert.Greater(t, got, float32(0), "Exp(%v)", x)
			assert.LessOrEqual(t, ulps(got, want), int64(1), "Exp(%v) = %v, want %v", x, got, want)
		}
		assert.Equal(t, float32(0), Exp(float32(-104)))
		assert.Equal(t, float32(0x1p-149), Exp(float32(-103.5)))
	})

	t.Run("special values", func(t *testing.T) {
		assert.Equal(t, float32(1), Exp(float32(0)))
		assert.True(t, math32.IsInf(Exp(float32(89)), 1))
		assert.True(t, math32.IsInf(Exp(math32.Inf(1)), 1))
		assert.Equal(t, float32(0), Exp(math32.Inf(-1)))
		assert.True(t, math32.IsNaN(Exp(math32.NaN())))
		assert.False(t, math32.IsInf(Exp(float32(88.72)), 0))
	})

	t.Run("float64 unchanged", func(t *testing.T) {
		for _, x := range []float64{-745, -100, -1, 0.5, 700} {
			assert.Equal(t, math.Exp(x), Exp(x))
		}
	})
}
