//go:build windows

package webgpu

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/tensorops/internal/backend/cpu"
	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available on this system")
	}
	backend, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	t.Cleanup(backend.Release)
	return backend
}

func TestIsAvailable(t *testing.T) {
	available := IsAvailable()
	t.Logf("WebGPU available: %v", available)
	// Reports the status only.
}

func TestNew(t *testing.T) {
	backend := newTestBackend(t)

	if backend.Name() != "WebGPU" {
		t.Errorf("Expected name 'WebGPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.WebGPU {
		t.Errorf("Expected device WebGPU, got %v", backend.Device())
	}
}

// inputs covers ordinary values plus the edges clamp policies care about.
var inputs = [][]float64{
	{-3, -1, -0.5, 0, 0.25, 0.5, 1, 2.5, 1e-3, -7, 0.9, -0.9},
	{1, 0.5, 0, -0.25, 0.75, 2, -3, 1, 4, 0, -0.9, 3},
	{0.5, 2, 1, 0, -0.5, 1.5, 4, -2, 0.125, 3, 1, -1},
}

// TestApplyMatchesCPU compares every operator against the CPU backend.
func TestApplyMatchesCPU(t *testing.T) {
	backend := newTestBackend(t)
	host := cpu.New()

	for _, dt := range []tensor.DataType{tensor.Float32, tensor.Float16} {
		for _, op := range kernels.All() {
			operands := make([]*tensor.RawTensor, op.Arity())
			for i := range operands {
				operands[i] = rawFrom(t, dt, inputs[i])
			}
			n := len(inputs[0])
			got, _ := tensor.NewRaw(n, dt, tensor.WebGPU)
			want, _ := tensor.NewRaw(n, dt, tensor.CPU)

			if err := backend.Apply(op, got, operands...); err != nil {
				t.Fatalf("GPU Apply(%s, %s) error: %v", op, dt, err)
			}
			if err := host.Apply(op, want, operands...); err != nil {
				t.Fatalf("CPU Apply(%s, %s) error: %v", op, dt, err)
			}

			for i := 0; i < n; i++ {
				if !closeEnough(got.At(i), want.At(i), dt) {
					t.Errorf("%s %s at %d: GPU %v, CPU %v", op, dt, i, got.At(i), want.At(i))
				}
			}
		}
	}
}

func rawFrom(t *testing.T, dt tensor.DataType, values []float64) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(len(values), dt, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range values {
		r.Set(i, v)
	}
	return r
}

// closeEnough compares device and host results. WGSL transcendental
// builtins carry absolute error bounds around 2^-11, and out-of-domain inputs
// and overflowing f16 conversions are indeterminate, so only finite host
// results are compared.
func closeEnough(got, want float64, dt tensor.DataType) bool {
	if math.IsNaN(want) || math.IsInf(want, 0) {
		return true
	}
	tol := 2e-3
	if dt == tensor.Float16 {
		tol = 5e-3
	}
	return math.Abs(got-want) <= tol*math.Max(1, math.Abs(want))
}

func TestApplyOddHalfLength(t *testing.T) {
	backend := newTestBackend(t)

	// Three halves occupy one and a half packed words.
	a := rawFrom(t, tensor.Float16, []float64{1, -2, 3})
	got, err := backend.Map(kernels.OpNegate, a)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{-1, 2, -3} {
		if got.At(i) != want {
			t.Errorf("got[%d] = %v, want %v", i, got.At(i), want)
		}
	}
}

func TestApplyErrors(t *testing.T) {
	backend := newTestBackend(t)

	a := tensor.FromSlice([]float64{1, 2})
	if err := backend.Apply(kernels.OpExp, a, a); !errors.Is(err, kernels.ErrPrecision) {
		t.Errorf("float64 error = %v, want %v", err, kernels.ErrPrecision)
	}

	b := tensor.FromSlice([]float32{1, 2})
	if err := backend.Apply(kernels.OpSum, b, b); !errors.Is(err, kernels.ErrArity) {
		t.Errorf("arity error = %v, want %v", err, kernels.ErrArity)
	}
}

func TestBufferPoolReuse(t *testing.T) {
	backend := newTestBackend(t)
	a := tensor.FromSlice([]float32{1, 2, 3, 4})

	for i := 0; i < 3; i++ {
		if _, err := backend.Map(kernels.OpExp, a); err != nil {
			t.Fatal(err)
		}
	}
	stats := backend.PoolStats()
	if stats.Hits == 0 {
		t.Errorf("Expected pooled buffers to be reused, got %+v", stats)
	}
}

func TestSizeClass(t *testing.T) {
	tests := []struct{ in, want uint64 }{
		{1, 256}, {256, 256}, {257, 512}, {4096, 4096}, {4097, 8192},
	}
	for _, tt := range tests {
		if got := sizeClass(tt.in); got != tt.want {
			t.Errorf("sizeClass(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
