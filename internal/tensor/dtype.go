// Package tensor provides element precisions and flat element buffers used by
// the tensorops backends.
package tensor

import (
	"fmt"
	"strings"

	"github.com/x448/float16"
)

// DType is a constraint for the Go element types a buffer can hold.
type DType interface {
	float32 | float64 | float16.Float16
}

// DataType represents runtime type information for buffers.
type DataType int

// Supported element precisions. The set is closed.
const (
	Float32 DataType = iota
	Float64
	Float16
)

// DataTypes lists every supported precision in declaration order.
func DataTypes() []DataType {
	return []DataType{Float32, Float64, Float16}
}

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	case Float16:
		return 2
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	default:
		return "unknown"
	}
}

// Valid reports whether dt is one of the supported precisions.
func (dt DataType) Valid() bool {
	return dt >= Float32 && dt <= Float16
}

// ParseDataType parses a precision name. Short forms f32, f64, f16 and half
// are accepted.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "f32", "single":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	case "float16", "f16", "half":
		return Float16, nil
	default:
		return 0, fmt.Errorf("unknown data type %q", s)
	}
}

// DataTypeOf infers DataType from a generic type T.
func DataTypeOf[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case float16.Float16:
		return Float16
	default:
		panic("unsupported type")
	}
}
