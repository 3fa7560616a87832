package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/tensorops/internal/tensor"
)

func TestCPUBackend_Cast(t *testing.T) {
	backend := newTestBackend()
	values := []float64{0.5, -2, 65504, 1e6, 1.0 / 3}

	tests := []struct {
		name string
		from tensor.DataType
		to   tensor.DataType
		want []float64
	}{
		{"f64 to f32", tensor.Float64, tensor.Float32, []float64{0.5, -2, 65504, 1e6, float64(float32(1.0 / 3))}},
		{"f32 to f16", tensor.Float32, tensor.Float16, []float64{0.5, -2, 65504, math.Inf(1), 0.333251953125}},
		{"f64 to f16", tensor.Float64, tensor.Float16, []float64{0.5, -2, 65504, math.Inf(1), 0.333251953125}},
		{"f32 to f64", tensor.Float32, tensor.Float64, []float64{0.5, -2, 65504, 1e6, float64(float32(1.0 / 3))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := rawFrom(t, tt.from, values)
			got, err := backend.Cast(src, tt.to)
			if err != nil {
				t.Fatalf("Cast failed: %v", err)
			}
			if got.DType() != tt.to {
				t.Fatalf("dtype = %s, want %s", got.DType(), tt.to)
			}
			for i, want := range tt.want {
				if got.At(i) != want {
					t.Errorf("element %d = %v, want %v", i, got.At(i), want)
				}
			}
		})
	}
}

func TestCPUBackend_CastFromHalf(t *testing.T) {
	backend := New()
	src := rawFrom(t, tensor.Float16, []float64{1.5, -0.25, math.Inf(-1)})

	for _, to := range []tensor.DataType{tensor.Float32, tensor.Float64} {
		got, err := backend.Cast(src, to)
		if err != nil {
			t.Fatalf("Cast to %s failed: %v", to, err)
		}
		for i := 0; i < src.Len(); i++ {
			if got.At(i) != src.At(i) {
				t.Errorf("%s element %d = %v, want %v", to, i, got.At(i), src.At(i))
			}
		}
	}
}

func TestCPUBackend_CastSameTypeCopies(t *testing.T) {
	backend := New()
	src := tensor.FromSlice([]float32{1, 2})

	got, err := backend.Cast(src, tensor.Float32)
	if err != nil {
		t.Fatal(err)
	}
	got.AsFloat32()[0] = 9
	if src.AsFloat32()[0] != 1 {
		t.Error("Expected same-type cast to copy")
	}

	if _, err := backend.Cast(nil, tensor.Float32); err == nil {
		t.Error("Expected error for nil buffer")
	}
}

func TestCPUBackend_CastFloat64ToHalfRoundsTwice(t *testing.T) {
	backend := New()
	// Rounds to 1 + 2^-11 in float32, then ties to even in binary16.
	src := tensor.FromSlice([]float64{1 + 0x1p-11 + 0x1p-40, -(1 + 0x1p-11 + 0x1p-40), 1 + 0x1p-11 + 0x1p-10})

	got, err := backend.Cast(src, tensor.Float16)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, -1, 1 + 0x1p-9}
	for i, w := range want {
		if got.At(i) != w {
			t.Errorf("element %d = %v, want %v", i, got.At(i), w)
		}
	}
}
