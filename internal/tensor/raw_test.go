package tensor

import (
	"errors"
	"testing"

	"github.com/x448/float16"
)

func TestNewRaw(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		dtype DataType
		bytes int
	}{
		{"float32", 6, Float32, 24},
		{"float64", 3, Float64, 24},
		{"float16", 5, Float16, 10},
		{"empty", 0, Float32, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := NewRaw(tt.n, tt.dtype, CPU)
			if err != nil {
				t.Fatalf("NewRaw failed: %v", err)
			}
			if raw.Len() != tt.n {
				t.Errorf("Len() = %d, want %d", raw.Len(), tt.n)
			}
			if raw.ByteSize() != tt.bytes {
				t.Errorf("ByteSize() = %d, want %d", raw.ByteSize(), tt.bytes)
			}
			if raw.DType() != tt.dtype {
				t.Errorf("DType() = %s, want %s", raw.DType(), tt.dtype)
			}
		})
	}
}

func TestNewRawInvalid(t *testing.T) {
	if _, err := NewRaw(-1, Float32, CPU); err == nil {
		t.Error("expected error for negative length")
	}
	if _, err := NewRaw(1, DataType(42), CPU); err == nil {
		t.Error("expected error for unknown data type")
	}
}

func TestRawTensorAsFloat32ZeroCopy(t *testing.T) {
	raw, _ := NewRaw(4, Float32, CPU)
	data := raw.AsFloat32()
	data[0] = 42
	if raw.AsFloat32()[0] != 42 {
		t.Error("AsFloat32 should return zero-copy slice")
	}
}

func TestRawTensorAsWrongTypePanics(t *testing.T) {
	raw, _ := NewRaw(2, Float16, CPU)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for dtype mismatch")
		}
	}()
	_ = raw.AsFloat32()
}

func TestFromSliceAndClone(t *testing.T) {
	raw := FromSlice([]float16.Float16{float16.Fromfloat32(1.5), float16.Fromfloat32(-2)})
	if raw.DType() != Float16 {
		t.Fatalf("DType() = %s, want float16", raw.DType())
	}

	clone := raw.Clone()
	clone.Set(0, 3)
	if raw.At(0) != 1.5 {
		t.Errorf("Clone should not share memory, original = %v", raw.At(0))
	}
	if clone.At(0) != 3 || clone.At(1) != -2 {
		t.Errorf("clone = [%v %v], want [3 -2]", clone.At(0), clone.At(1))
	}
}

func TestSetRoundsToPrecision(t *testing.T) {
	raw, _ := NewRaw(1, Float16, CPU)
	raw.Set(0, 1.0/3.0)
	// binary16 nearest to 1/3.
	if got := raw.At(0); got != 0.333251953125 {
		t.Errorf("At(0) = %v, want 0.333251953125", got)
	}
}

func TestSetHalfRoundsThroughFloat32(t *testing.T) {
	// 1 + 2^-11 + 2^-40 rounds to 1 + 2^-11 in float32, a tie that rounds
	// to even (1) in binary16. A direct float64 rounding would give 1 + 2^-10.
	v := 1 + 0x1p-11 + 0x1p-40
	raw, _ := NewRaw(1, Float16, CPU)
	raw.Set(0, v)
	if got := raw.At(0); got != 1 {
		t.Errorf("At(0) = %v, want 1", got)
	}
}

func TestParseDataType(t *testing.T) {
	tests := map[string]DataType{
		"float32": Float32,
		"F32":     Float32,
		"double":  Float64,
		"f64":     Float64,
		"half":    Float16,
		"float16": Float16,
	}
	for in, want := range tests {
		got, err := ParseDataType(in)
		if err != nil {
			t.Errorf("ParseDataType(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDataType(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseDataType("int8"); err == nil {
		t.Error("expected error for int8")
	}
}

func TestDataTypeSizeAndString(t *testing.T) {
	for _, dt := range DataTypes() {
		if dt.String() == "unknown" {
			t.Errorf("DataType %d has no name", dt)
		}
		if dt.Size() <= 0 {
			t.Errorf("DataType %s has size %d", dt, dt.Size())
		}
	}
	if DataTypeOf[float16.Float16]() != Float16 {
		t.Error("DataTypeOf[float16.Float16] should be Float16")
	}
}

func TestCheckElementwise(t *testing.T) {
	a := FromSlice([]float32{1, 2, 3})
	b := FromSlice([]float32{4, 5, 6})
	short := FromSlice([]float32{1, 2})
	wide := FromSlice([]float64{1, 2, 3})

	if err := CheckElementwise(a, b, a); err != nil {
		t.Fatalf("aliased operands: %v", err)
	}
	if err := CheckElementwise(a); err != nil {
		t.Fatalf("no operands: %v", err)
	}

	tests := []struct {
		name     string
		dst      *RawTensor
		operands []*RawTensor
		want     error
	}{
		{"nil dst", nil, []*RawTensor{a}, ErrNilBuffer},
		{"nil operand", a, []*RawTensor{nil}, ErrNilBuffer},
		{"short operand", a, []*RawTensor{short}, ErrLengthMismatch},
		{"mixed dtype", a, []*RawTensor{b, wide}, ErrDTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckElementwise(tt.dst, tt.operands...); !errors.Is(err, tt.want) {
				t.Errorf("CheckElementwise() = %v, want %v", err, tt.want)
			}
		})
	}
}
