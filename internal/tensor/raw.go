package tensor

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// Device represents the compute device for element operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// RawTensor is a flat, contiguous element buffer of a single precision.
// Shapes and strides belong to the caller; backends only see element runs.
type RawTensor struct {
	data   []byte
	n      int
	dtype  DataType
	device Device
}

// NewRaw creates a zero-filled buffer of n elements.
func NewRaw(n int, dtype DataType, device Device) (*RawTensor, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid length %d", n)
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("invalid data type %d", dtype)
	}

	return &RawTensor{
		data:   make([]byte, n*dtype.Size()),
		n:      n,
		dtype:  dtype,
		device: device,
	}, nil
}

// FromSlice copies values into a new CPU buffer.
func FromSlice[T DType](values []T) *RawTensor {
	dt := DataTypeOf[T]()
	r := &RawTensor{
		data:   make([]byte, len(values)*dt.Size()),
		n:      len(values),
		dtype:  dt,
		device: CPU,
	}
	copy(As[T](r), values)
	return r
}

// DType returns the buffer's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the buffer's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// Len returns the number of elements.
func (r *RawTensor) Len() int {
	return r.n
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data)
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the buffer's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	return As[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the buffer's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	return As[float64](r)
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the buffer's dtype is not Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	return As[float16.Float16](r)
}

// As interprets the buffer as []T. Panics if T does not match the dtype.
func As[T DType](r *RawTensor) []T {
	if want := DataTypeOf[T](); r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	if r.n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by n
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), r.n)
}

// Clone returns a deep copy of the buffer.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		n:      r.n,
		dtype:  r.dtype,
		device: r.device,
	}
}

// At returns element i widened to float64.
func (r *RawTensor) At(i int) float64 {
	switch r.dtype {
	case Float32:
		return float64(r.AsFloat32()[i])
	case Float64:
		return r.AsFloat64()[i]
	case Float16:
		return float64(r.AsFloat16()[i].Float32())
	default:
		panic(fmt.Sprintf("unsupported dtype %s", r.dtype))
	}
}

// Set stores v at element i, rounding to the buffer's precision.
func (r *RawTensor) Set(i int, v float64) {
	switch r.dtype {
	case Float32:
		r.AsFloat32()[i] = float32(v)
	case Float64:
		r.AsFloat64()[i] = v
	case Float16:
		r.AsFloat16()[i] = float16.Fromfloat32(float32(v))
	default:
		panic(fmt.Sprintf("unsupported dtype %s", r.dtype))
	}
}
