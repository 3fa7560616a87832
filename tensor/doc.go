// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the flat element buffers tensorops backends operate
// on.
//
// A RawTensor is a contiguous run of elements of one precision: float32,
// float64 or float16. Shapes, strides and broadcasting belong to the caller;
// backends apply an operator to equal-length buffers element by element.
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
//	    x := tensor.FromSlice([]float32{-1, 0, 1})
//	    y, err := backend.Map(ops.OpStableSigmoid, x)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(y.AsFloat32())
//	}
package tensor
