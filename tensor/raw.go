// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorops/internal/tensor"
)

// RawTensor is a flat element buffer of one precision.
//
// RawTensor provides:
//   - Type information via DType(), Device(), Len()
//   - Zero-copy typed access via AsFloat32(), AsFloat64(), AsFloat16()
//   - Precision-independent access via At() and Set()
//   - Deep copies via Clone()
//
// Example:
//
//	raw, _ := tensor.NewRaw(3, tensor.Float16, tensor.CPU)
//	raw.Set(0, 1.5)
//	v := raw.At(0) // 1.5
type RawTensor = tensor.RawTensor

// DataType identifies an element precision.
type DataType = tensor.DataType

// DType is the constraint for Go element types a buffer can hold.
type DType = tensor.DType

// Device identifies where an operator runs.
type Device = tensor.Device

// Supported element precisions.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Float16 = tensor.Float16
)

// Supported devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// Buffer validation errors returned by backends.
var (
	ErrLengthMismatch = tensor.ErrLengthMismatch
	ErrDTypeMismatch  = tensor.ErrDTypeMismatch
	ErrNilBuffer      = tensor.ErrNilBuffer
)

// NewRaw creates a zero-filled buffer of n elements.
func NewRaw(n int, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(n, dtype, device)
}

// FromSlice copies values into a new CPU buffer.
func FromSlice[T DType](values []T) *RawTensor {
	return tensor.FromSlice(values)
}

// ParseDataType parses a precision name such as "float32", "f16" or "half".
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}
