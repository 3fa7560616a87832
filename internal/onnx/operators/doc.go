//go:build !wasm

// Package operators maps ONNX elementwise operators onto the tensorops
// catalog and holds the static CNTK to ONNX export table.
//
// Handlers validate inputs and attributes, allocate a result buffer shaped
// like the first operand, and delegate to a Backend. Inputs are flat buffers
// of one precision; shape bookkeeping and broadcasting belong to the caller.
//
// Boolean-valued ONNX operators (Equal, Greater, And, Not, ...) produce 0/1
// in the input precision instead of a bool tensor, and Where takes its
// condition in the same precision as the branches.
package operators
