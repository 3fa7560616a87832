// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops exposes the elementwise operator catalog.
//
// Every operator is a pure scalar function of zero to three operands of one
// precision. Out-of-domain inputs produce IEEE NaN or Inf rather than
// errors, and clamp policies (clipped log, clipped quotient, clamped square
// root, Reciprocal(0) = 0) hold on every backend.
//
// Example:
//
//	op, err := ops.Lookup("StableSigmoid")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y, _ := ops.Eval(op, tensor.Float16, -3)
package ops

import (
	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
)

// Op identifies an elementwise operator. Values are stable across releases.
type Op = kernels.Op

// Half is the IEEE binary16 element type.
type Half = kernels.Half

// Real is the set of precisions served by the generic resolvers.
type Real = kernels.Real

// Resolved operator functions. Calling one never allocates.
type (
	NullaryFunc[T any] = kernels.NullaryFunc[T]
	UnaryFunc[T any]   = kernels.UnaryFunc[T]
	BinaryFunc[T any]  = kernels.BinaryFunc[T]
	TernaryFunc[T any] = kernels.TernaryFunc[T]
)

// Errors returned by Lookup, Eval and backends.
var (
	ErrUnknownOp = kernels.ErrUnknownOp
	ErrArity     = kernels.ErrArity
	ErrPrecision = kernels.ErrPrecision
)

// Frequently used operators. Lookup resolves any catalog name.
const (
	OpConstOne        = kernels.OpConstOne
	OpCopy            = kernels.OpCopy
	OpNegate          = kernels.OpNegate
	OpAbs             = kernels.OpAbs
	OpExp             = kernels.OpExp
	OpLog             = kernels.OpLog
	OpSqrt            = kernels.OpSqrt
	OpTanh            = kernels.OpTanh
	OpReciprocal      = kernels.OpReciprocal
	OpSigmoid         = kernels.OpSigmoid
	OpStableSigmoid   = kernels.OpStableSigmoid
	OpLinearRectifier = kernels.OpLinearRectifier
	OpSum             = kernels.OpSum
	OpDifference      = kernels.OpDifference
	OpProduct         = kernels.OpElementwiseProduct
	OpQuotient        = kernels.OpElementwiseQuotient
	OpLogSum          = kernels.OpLogSum
	OpPow             = kernels.OpPow
	OpMax             = kernels.OpMax
	OpMin             = kernels.OpMin
	OpCond            = kernels.OpCond
	OpClip            = kernels.OpClip
)

// Lookup resolves an operator by name. Unknown names return ErrUnknownOp
// with the closest known name suggested.
func Lookup(name string) (Op, error) {
	return kernels.Lookup(name)
}

// All returns every operator in value order.
func All() []Op {
	return kernels.All()
}

// WithArity returns the operators taking n operands.
func WithArity(n int) []Op {
	return kernels.WithArity(n)
}

// Names returns every operator name, sorted.
func Names() []string {
	return kernels.Names()
}

// Eval rounds operands to dt, evaluates op at dt and widens the result.
func Eval(op Op, dt tensor.DataType, operands ...float64) (float64, error) {
	return kernels.Eval(op, dt, operands...)
}

// Nullary resolves a nullary operator. Resolve once per tensor operation and
// call the result per element; ok is false when op has another arity.
func Nullary[T Real](op Op) (f NullaryFunc[T], ok bool) {
	return kernels.Nullary[T](op)
}

// Unary resolves a unary operator.
func Unary[T Real](op Op) (f UnaryFunc[T], ok bool) {
	return kernels.Unary[T](op)
}

// Binary resolves a binary operator.
func Binary[T Real](op Op) (f BinaryFunc[T], ok bool) {
	return kernels.Binary[T](op)
}

// Ternary resolves a ternary operator.
func Ternary[T Real](op Op) (f TernaryFunc[T], ok bool) {
	return kernels.Ternary[T](op)
}

// NullaryF16 resolves a nullary operator for Half.
func NullaryF16(op Op) (f NullaryFunc[Half], ok bool) {
	return kernels.NullaryF16(op)
}

// UnaryF16 resolves a unary operator for Half. Operands are widened to
// float32 and the result is rounded once, except for the bit-exact Copy,
// Negate and Abs.
func UnaryF16(op Op) (f UnaryFunc[Half], ok bool) {
	return kernels.UnaryF16(op)
}

// BinaryF16 resolves a binary operator for Half.
func BinaryF16(op Op) (f BinaryFunc[Half], ok bool) {
	return kernels.BinaryF16(op)
}

// TernaryF16 resolves a ternary operator for Half.
func TernaryF16(op Op) (f TernaryFunc[Half], ok bool) {
	return kernels.TernaryF16(op)
}
