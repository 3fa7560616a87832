// Package kernels implements the scalar elementwise operators shared by the
// CPU and WebGPU backends.
//
// Every operator is a pure function of zero to three operands of one element
// precision. Operators are identified by an Op value with a stable name; a
// dispatcher resolves an Op once per tensor operation into a typed Go
// function and then calls it per element:
//
//	f, ok := kernels.Binary[float32](kernels.OpLogSum)
//	if !ok {
//	    // op is not binary
//	}
//	for i := range dst {
//	    dst[i] = f(a[i], b[i])
//	}
//
// Generic bodies cover float32 and float64 (see Real). The half-precision type
// (Half) gets F16-suffixed specializations that widen to float32, compute,
// and round once, plus bit-level fast paths for Abs and Negate.
//
// No function in this package reports errors from the numerics. Domain
// violations produce IEEE NaN or ±Inf, except where a deliberate clamp keeps
// training gradients finite: ClippedLog, ClippedQuotient, the clamped Sqrt
// operator, Reciprocal(0) == 0 and SafePow.
package kernels
