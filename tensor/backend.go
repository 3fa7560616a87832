// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/tensorops/ops"

// Backend applies catalog operators over flat buffers.
//
// Implementations:
//   - backend/cpu: Pure Go, split across goroutines
//   - backend/webgpu: WGSL compute shaders via WebGPU (windows)
//
// Example:
//
//	backend := cpu.New()
//	dst, _ := tensor.NewRaw(2, tensor.Float32, tensor.CPU)
//	a := tensor.FromSlice([]float32{1, 2})
//	b := tensor.FromSlice([]float32{3, 4})
//	err := backend.Apply(ops.OpSum, dst, a, b) // dst = [4 6]
type Backend interface {
	// Name returns a human-readable backend name.
	Name() string

	// Device returns the device operators run on.
	Device() Device

	// Apply evaluates op element by element into dst. Operands must match
	// dst in length and precision and may alias dst.
	Apply(op ops.Op, dst *RawTensor, operands ...*RawTensor) error

	// Map allocates a result like operands[0] and applies op into it.
	Map(op ops.Op, operands ...*RawTensor) (*RawTensor, error)
}
