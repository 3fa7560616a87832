//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for elementwise operators.
//
// Each operator compiles to one WGSL compute shader per precision layout.
// Float16 buffers are packed two per u32 word and computed in f32 inside
// the shader.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//	    y, err := gpu.Map(ops.OpTanh, tensor.FromSlice([]float32{-1, 0, 1}))
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/tensorops/internal/backend/webgpu"
	"github.com/born-ml/tensorops/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend. Call Release when done to free GPU
// resources. Returns an error if no compatible adapter is present.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a WebGPU adapter can be opened, for graceful
// fallback to the CPU backend.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
