// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package onnx runs ONNX elementwise nodes on tensorops backends and exposes
// the CNTK to ONNX export table.
//
// # Example Usage
//
//	import (
//	    "github.com/born-ml/tensorops/backend/cpu"
//	    "github.com/born-ml/tensorops/onnx"
//	    "github.com/born-ml/tensorops/tensor"
//	)
//
//	registry := onnx.NewRegistry()
//	ctx := &onnx.Context{Backend: cpu.New()}
//	out, err := registry.Execute(ctx, &onnx.Node{OpType: "Relu"},
//	    []*tensor.RawTensor{tensor.FromSlice([]float32{-1, 2})})
//
// # Supported Operators
//
//   - Arithmetic: Add, Sub, Mul, Div, Pow, Neg, Abs, Reciprocal, Floor, Sqrt, Sum, Max, Min
//   - Transcendental: Exp, Log, Sin, Cos, Sinh, Cosh, Asin, Acos
//   - Activation: Relu, Sigmoid, Tanh, Elu (alpha = 1), Clip
//   - Comparison and logic: Equal, Greater, GreaterOrEqual, Less, LessOrEqual, And, Or, Xor, Not
//   - Other: Identity, Where, Cast
//
// Use [ListSupportedOps] to get the complete list of supported operators.
// Inputs must already share one length and precision; broadcasting is the
// caller's job.
package onnx

import (
	"github.com/born-ml/tensorops/internal/onnx/operators"
)

// Registry maps ONNX operator types to handlers.
type Registry = operators.Registry

// Context carries the backend handlers run on.
type Context = operators.Context

// Node is one ONNX operation node.
type Node = operators.Node

// Attribute is one node attribute.
type Attribute = operators.Attribute

// Backend is what handlers need from a backend.
type Backend = operators.Backend

// ExportCandidate is one ONNX rendering of a CNTK operator.
type ExportCandidate = operators.ExportCandidate

// Errors returned by Registry.Execute.
var (
	ErrUnsupportedOp = operators.ErrUnsupportedOp
	ErrNoBackend     = operators.ErrNoBackend
)

// NewRegistry creates a registry with every supported operator.
func NewRegistry() *Registry {
	return operators.NewRegistry()
}

// ListSupportedOps returns the supported ONNX operator types, sorted.
func ListSupportedOps() []string {
	return operators.NewRegistry().SupportedOps()
}

// ExportCandidates returns the ordered ONNX candidates for a CNTK operator.
func ExportCandidates(cntkName string) []ExportCandidate {
	return operators.ExportCandidates(cntkName)
}

// ExportNames returns every CNTK operator with an ONNX rendering, sorted.
func ExportNames() []string {
	return operators.ExportNames()
}

// IsInvalidIndex reports whether block input idx of a CNTK operator must be
// dropped on export.
func IsInvalidIndex(cntkName string, idx int) bool {
	return operators.IsInvalidIndex(cntkName, idx)
}
