//go:build !wasm

package operators

import (
	"fmt"

	"github.com/born-ml/tensorops/internal/tensor"
)

// ONNX data types (TensorProto.DataType) that have a tensorops precision.
const (
	TensorProtoUndefined = 0
	TensorProtoFloat     = 1  // float32
	TensorProtoFloat16   = 10 // float16
	TensorProtoDouble    = 11 // float64
)

// DataTypeFromProto converts a TensorProto data type to a buffer precision.
func DataTypeFromProto(t int64) (tensor.DataType, error) {
	switch t {
	case TensorProtoFloat:
		return tensor.Float32, nil
	case TensorProtoFloat16:
		return tensor.Float16, nil
	case TensorProtoDouble:
		return tensor.Float64, nil
	default:
		return 0, fmt.Errorf("unsupported TensorProto data type %d", t)
	}
}

// Node represents an ONNX operation node.
type Node struct {
	Name       string      // Node name (optional)
	OpType     string      // Operation type (e.g., "Add", "Relu", "Clip")
	Inputs     []string    // Input tensor names
	Outputs    []string    // Output tensor names
	Attributes []Attribute // Operation attributes
	Domain     string      // Custom domain (empty for default)
}

// Attribute represents a node attribute.
type Attribute struct {
	Name   string    // Attribute name
	Type   int32     // Attribute type
	F      float32   // FLOAT value
	I      int64     // INT value
	S      []byte    // STRING value
	Floats []float32 // FLOATS array
	Ints   []int64   // INTS array
}

func (n *Node) attr(name string) *Attribute {
	if n == nil {
		return nil
	}
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i]
		}
	}
	return nil
}

// HasAttr reports whether the node carries the named attribute.
func HasAttr(node *Node, name string) bool {
	return node.attr(name) != nil
}

// GetAttrInt returns an integer attribute or default value.
func GetAttrInt(node *Node, name string, defaultVal int64) int64 {
	if a := node.attr(name); a != nil {
		return a.I
	}
	return defaultVal
}

// GetAttrInts returns an integer array attribute.
func GetAttrInts(node *Node, name string) []int64 {
	if a := node.attr(name); a != nil {
		return a.Ints
	}
	return nil
}

// GetAttrFloat returns a float attribute or default value.
func GetAttrFloat(node *Node, name string, defaultVal float32) float32 {
	if a := node.attr(name); a != nil {
		return a.F
	}
	return defaultVal
}

// GetAttrString returns a string attribute or default value.
func GetAttrString(node *Node, name, defaultVal string) string {
	if a := node.attr(name); a != nil {
		return string(a.S)
	}
	return defaultVal
}
