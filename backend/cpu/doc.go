// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for elementwise operators.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32, Float64 and Float16 buffers
//   - Operators resolved once per call, then applied over contiguous chunks
//   - Chunks split across goroutines above a configurable size
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tensorops/backend/cpu"
//	    "github.com/born-ml/tensorops/ops"
//	    "github.com/born-ml/tensorops/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    a := tensor.FromSlice([]float32{1, 2, 3})
//	    b := tensor.FromSlice([]float32{4, 5, 6})
//	    sum, err := backend.Map(ops.OpSum, a, b)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(sum.AsFloat32()) // [5 7 9]
//	}
//
// # Precision
//
// Float16 operators widen to float32, compute, and round once, except Abs,
// Negate and Copy which work on the bit pattern.
package cpu
