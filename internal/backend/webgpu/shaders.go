// Package webgpu implements the WebGPU backend. WGSL compute shaders are
// generated from the operator catalog on every platform; the executor that
// runs them uses go-webgpu (github.com/go-webgpu/webgpu) and is built on
// Windows only.
package webgpu

import (
	"fmt"
	"strings"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
)

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// Capabilities describes the optional device features shader generation
// depends on.
type Capabilities struct {
	// ShaderF16 reports the "shader-f16" feature: f16 storage and
	// arithmetic in WGSL.
	ShaderF16 bool
}

// Layout is the storage layout of a buffer element inside a shader.
type Layout int

// Storage layouts.
const (
	// LayoutF32 stores one f32 per element.
	LayoutF32 Layout = iota
	// LayoutF16 stores one native f16 per element ("shader-f16").
	LayoutF16
	// LayoutPackedF16 stores two halves per u32; the shader unpacks them to
	// f32, computes, and packs the results again.
	LayoutPackedF16
)

// String returns the layout's shader-name suffix.
func (l Layout) String() string {
	switch l {
	case LayoutF32:
		return "f32"
	case LayoutF16:
		return "f16"
	case LayoutPackedF16:
		return "f16x2"
	default:
		return "unknown"
	}
}

// LayoutFor picks the storage layout for dt on a device with caps.
// WGSL has no 64-bit floats, so Float64 is rejected.
func LayoutFor(dt tensor.DataType, caps Capabilities) (Layout, error) {
	switch dt {
	case tensor.Float32:
		return LayoutF32, nil
	case tensor.Float16:
		if caps.ShaderF16 {
			return LayoutF16, nil
		}
		return LayoutPackedF16, nil
	default:
		return 0, fmt.Errorf("webgpu: %w %s", kernels.ErrPrecision, dt)
	}
}

// Words returns the number of shader array elements (threads) needed for n
// buffer elements.
func (l Layout) Words(n int) int {
	if l == LayoutPackedF16 {
		return (n + 1) / 2
	}
	return n
}

// BufferSize returns the device buffer size in bytes for n elements,
// rounded up to the 4-byte multiple WebGPU requires for copies.
func (l Layout) BufferSize(n int) int {
	var size int
	switch l {
	case LayoutF32:
		size = 4 * n
	default:
		size = 2 * n
	}
	size = (size + 3) &^ 3
	return max(size, 4)
}

// opBody is the WGSL body of one operator. expr is an expression over the
// parameters a, b, c of type $T; helpers names functions from wgslHelpers
// it calls.
type opBody struct {
	expr    string
	helpers []string
}

// nativeF16 lists the ops whose f16 evaluation equals evaluating in f32 and
// rounding once: selects, comparisons, sign manipulation, and the correctly
// rounded + - *. Everything else is promoted to f32 inside the shader.
var nativeF16 = map[kernels.Op]bool{
	kernels.OpConstOne:           true,
	kernels.OpCopy:               true,
	kernels.OpNegate:             true,
	kernels.OpNot:                true,
	kernels.OpAbs:                true,
	kernels.OpFloor:              true,
	kernels.OpSqr:                true,
	kernels.OpLinearRectifier:    true,
	kernels.OpCopyIf:             true,
	kernels.OpCopyIfNot:          true,
	kernels.OpSum:                true,
	kernels.OpDifference:         true,
	kernels.OpElementwiseProduct: true,
	kernels.OpMax:                true,
	kernels.OpMin:                true,
	kernels.OpEqual:              true,
	kernels.OpNotEqual:           true,
	kernels.OpGreater:            true,
	kernels.OpLess:               true,
	kernels.OpGreaterEqual:       true,
	kernels.OpLessEqual:          true,
	kernels.OpAnd:                true,
	kernels.OpOr:                 true,
	kernels.OpXor:                true,
	kernels.OpMaskNegative:       true,
	kernels.OpElementwiseProductWithLinearRectifierDerivativeFromOutput: true,
	kernels.OpCond:        true,
	kernels.OpCopyIfEqual: true,
	kernels.OpClip:        true,
}

// NativeF16 reports whether op runs in f16 arithmetic on devices with
// "shader-f16".
func NativeF16(op kernels.Op) bool {
	return nativeF16[op]
}

var opBodies = map[kernels.Op]opBody{
	kernels.OpConstOne: {expr: "$T(1)"},

	kernels.OpCopy:                  {expr: "a"},
	kernels.OpNegate:                {expr: "-a"},
	kernels.OpNot:                   {expr: "select($T(0), $T(1), a == $T(0))"},
	kernels.OpAbs:                   {expr: "abs(a)"},
	kernels.OpFloor:                 {expr: "floor(a)"},
	kernels.OpSigmoid:               {expr: "$T(1) / (exp(-a) + $T(1))"},
	kernels.OpTanh:                  {expr: "tanh(clamp(a, $T(-20), $T(20)))"},
	kernels.OpSqr:                   {expr: "a * a"},
	kernels.OpSqrt:                  {expr: "select($T(0), sqrt(a), a > $T(0))"},
	kernels.OpExp:                   {expr: "exp(a)"},
	kernels.OpLog:                   {expr: "clipped_log(a)", helpers: []string{"clipped_log"}},
	kernels.OpLinearRectifier:       {expr: "select($T(0), a, a > $T(0))"},
	kernels.OpCosine:                {expr: "cos(a)"},
	kernels.OpSin:                   {expr: "sin(a)"},
	kernels.OpReciprocal:            {expr: "reciprocal(a)", helpers: []string{"reciprocal"}},
	kernels.OpExponentialLinearUnit: {expr: "select(exp(a) - $T(1), a, a >= $T(0))"},
	kernels.OpStableSigmoid:         {expr: "stable_sigmoid(a)", helpers: []string{"stable_sigmoid"}},
	kernels.OpAsin:                  {expr: "asin(a)"},
	kernels.OpAcos:                  {expr: "acos(a)"},
	kernels.OpSinh:                  {expr: "sinh(a)"},
	kernels.OpCosh:                  {expr: "cosh(a)"},

	kernels.OpCopyIf:              {expr: "select($T(0), b, a != $T(0))"},
	kernels.OpCopyIfNot:           {expr: "select($T(0), b, a == $T(0))"},
	kernels.OpSum:                 {expr: "a + b"},
	kernels.OpDifference:          {expr: "a - b"},
	kernels.OpElementwiseProduct:  {expr: "a * b"},
	kernels.OpElementwiseQuotient: {expr: "clipped_quotient(a, b)", helpers: []string{"clipped_quotient"}},
	kernels.OpLogSum:              {expr: "log_add(a, b)", helpers: []string{"log1p_", "log_add"}},
	kernels.OpPow:                 {expr: "safe_pow(a, b)", helpers: []string{"safe_pow"}},
	kernels.OpMax:                 {expr: "select(b, a, a > b)"},
	kernels.OpMin:                 {expr: "select(b, a, a < b)"},
	kernels.OpEqual:               {expr: "select($T(0), $T(1), a == b)"},
	kernels.OpNotEqual:            {expr: "select($T(0), $T(1), a != b)"},
	kernels.OpGreater:             {expr: "select($T(0), $T(1), a > b)"},
	kernels.OpLess:                {expr: "select($T(0), $T(1), a < b)"},
	kernels.OpGreaterEqual:        {expr: "select($T(0), $T(1), a >= b)"},
	kernels.OpLessEqual:           {expr: "select($T(0), $T(1), a <= b)"},
	kernels.OpAnd:                 {expr: "select($T(0), $T(1), a != $T(0) && b != $T(0))"},
	kernels.OpOr:                  {expr: "select($T(0), $T(1), a != $T(0) || b != $T(0))"},
	kernels.OpXor:                 {expr: "select($T(0), $T(1), (a != $T(0)) != (b != $T(0)))"},
	kernels.OpMaskNegative:        {expr: "select($T(0), a, b >= $T(0))"},

	kernels.OpElementwiseProductWithSigmoidDerivativeFromOutput:         {expr: "a * (b * ($T(1) - b))"},
	kernels.OpElementwiseProductWithTanhDerivativeFromOutput:            {expr: "a * ($T(1) - b * b)"},
	kernels.OpElementwiseProductWithLinearRectifierDerivativeFromOutput: {expr: "select($T(0), a, b > $T(0))"},
	kernels.OpElementwiseProductWithLogDerivativeFromOutput:             {expr: "a * exp(-b)"},
	kernels.OpElementwiseProductWithCosDerivative:                       {expr: "a * -sin(b)"},
	kernels.OpElementwiseProductWithSinDerivative:                       {expr: "a * cos(b)"},
	kernels.OpElementwiseProductWithAsinDerivative:                      {expr: "a / sqrt($T(1) - b * b)"},
	kernels.OpElementwiseProductWithAcosDerivative:                      {expr: "-a / sqrt($T(1) - b * b)"},
	kernels.OpElementwiseProductWithAbsDerivative:                       {expr: "a * sgn(b)", helpers: []string{"sgn"}},
	kernels.OpElementwiseProductWithReciprocalDerivative:                {expr: "a * -(b * b)"},
	kernels.OpElementwiseProductWithSqrtDerivative:                      {expr: "a / ($T(2) * b)"},
	kernels.OpSqrOfDifference:                                           {expr: "(a - b) * (a - b)"},
	kernels.OpElementwiseProductWithExponentialLinearUnitDerivativeFromOutput: {
		expr: "select(a * ($T(1) + b), a, b >= $T(0))",
	},
	kernels.OpElementwiseProductWithSinhDerivative: {expr: "a * cosh(b)"},
	kernels.OpElementwiseProductWithCoshDerivative: {expr: "a * sinh(b)"},

	kernels.OpCond:                                   {expr: "select(c, b, a != $T(0))"},
	kernels.OpCopyIfEqual:                            {expr: "select($T(0), c, a == b)"},
	kernels.OpClip:                                   {expr: "select(select(c, b, c > b), a, c < a)"},
	kernels.OpElementwiseProductWithLogSumDerivative: {expr: "a * stable_sigmoid(c - b)", helpers: []string{"stable_sigmoid"}},
	kernels.OpElementwiseProductWithExpOfDiff:        {expr: "a * exp(b - c)"},
	kernels.OpElementwiseProductWithQuotient:         {expr: "a * b * reciprocal(c)", helpers: []string{"reciprocal"}},
	kernels.OpElementwiseProductWithPowExponentDerivative: {
		expr: "select(a * b * log(c), $T(0), c <= $T(0))",
	},
	kernels.OpElementwiseProductWithPowBaseDerivative: {
		expr: "a * c * safe_pow(b, c - $T(1))", helpers: []string{"safe_pow"},
	},
}

// wgslHelpers are the shared WGSL functions, written over the placeholder
// type $T. Helpers with constants outside the f16 range are only ever
// instantiated at f32.
var wgslHelpers = map[string]string{
	"clipped_log": `fn clipped_log(z: $T) -> $T {
    if (z < $T(1e-37)) {
        return $T(-85.1);
    }
    return log(z);
}`,
	"reciprocal": `fn reciprocal(z: $T) -> $T {
    return select($T(1) / z, $T(0), z == $T(0));
}`,
	"stable_sigmoid": `fn stable_sigmoid(z: $T) -> $T {
    let q = exp(-abs(z));
    return select(q, $T(1), z > $T(0)) / ($T(1) + q);
}`,
	"clipped_quotient": `fn clipped_quotient(x: $T, y: $T) -> $T {
    var d = y;
    if (abs(d) < $T(1e-30)) {
        d = select($T(1e-30), $T(-1e-30), d < $T(0));
    }
    return x / d;
}`,
	"log1p_": `fn log1p_(x: $T) -> $T {
    let u = $T(1) + x;
    if (u == $T(1)) {
        return x;
    }
    return log(u) * x / (u - $T(1));
}`,
	"log_add": `fn log_add(x0: $T, y0: $T) -> $T {
    var x = x0;
    var y = y0;
    if (x < y) {
        x = y0;
        y = x0;
    }
    return x + log1p_(exp(y - x));
}`,
	"safe_pow": `fn safe_pow(base: $T, e: $T) -> $T {
    if (e == $T(0)) {
        return $T(1);
    }
    if (base == $T(0)) {
        return $T(0);
    }
    if (base > $T(0)) {
        return pow(base, e);
    }
    let t = trunc(e);
    if (t != e) {
        return $T(bitcast<f32>(0x7fc00000u));
    }
    let r = pow(-base, e);
    let h = t * $T(0.5);
    return select(r, -r, floor(h) != h);
}`,
	"sgn": `fn sgn(z: $T) -> $T {
    return select(select(z, $T(-1), z < $T(0)), $T(1), z > $T(0));
}`,
}

var operandNames = [...]string{"a", "b", "c"}

// ShaderName returns the pipeline cache key for (op, layout).
func ShaderName(op kernels.Op, layout Layout) string {
	return op.Name() + "_" + layout.String()
}

// ShaderSource generates the WGSL compute shader evaluating op over buffers
// of dt on a device with caps.
//
// Bindings: operands at 0..arity-1, result at arity, Params{size} at
// arity+1. size counts shader array elements (see Layout.Words).
func ShaderSource(op kernels.Op, dt tensor.DataType, caps Capabilities) (string, error) {
	layout, err := LayoutFor(dt, caps)
	if err != nil {
		return "", err
	}
	return generate(op, layout)
}

func generate(op kernels.Op, layout Layout) (string, error) {
	body, ok := opBodies[op]
	if !ok {
		return "", fmt.Errorf("webgpu: %w %s", kernels.ErrUnknownOp, op)
	}
	arity := op.Arity()

	// Storage element type and compute type.
	var storage, compute string
	switch layout {
	case LayoutF32:
		storage, compute = "f32", "f32"
	case LayoutF16:
		storage, compute = "f16", "f32"
		if NativeF16(op) {
			compute = "f16"
		}
	case LayoutPackedF16:
		storage, compute = "u32", "f32"
	default:
		return "", fmt.Errorf("webgpu: unknown layout %d", layout)
	}
	typed := strings.NewReplacer("$T", compute)

	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s (%s)\n", op.Name(), layout)
	if layout == LayoutF16 {
		sb.WriteString("enable f16;\n")
	}
	sb.WriteString("\n")

	for i := 0; i < arity; i++ {
		fmt.Fprintf(&sb, "@group(0) @binding(%d) var<storage, read> in%d: array<%s>;\n", i, i, storage)
	}
	fmt.Fprintf(&sb, "@group(0) @binding(%d) var<storage, read_write> result: array<%s>;\n\n", arity, storage)
	sb.WriteString("struct Params {\n    size: u32,\n}\n")
	fmt.Fprintf(&sb, "@group(0) @binding(%d) var<uniform> params: Params;\n\n", arity+1)

	for _, name := range dedupe(body.helpers) {
		sb.WriteString(typed.Replace(wgslHelpers[name]))
		sb.WriteString("\n\n")
	}

	params := make([]string, arity)
	for i := range params {
		params[i] = operandNames[i] + ": " + compute
	}
	fmt.Fprintf(&sb, "fn op_eval(%s) -> %s {\n    return %s;\n}\n\n",
		strings.Join(params, ", "), compute, typed.Replace(body.expr))

	sb.WriteString("@compute @workgroup_size(256)\n")
	sb.WriteString("fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {\n")
	sb.WriteString("    let idx = global_id.x;\n")
	sb.WriteString("    if (idx < params.size) {\n")
	sb.WriteString(storeStatement(arity, layout, storage, compute))
	sb.WriteString("    }\n}\n")

	return sb.String(), nil
}

func storeStatement(arity int, layout Layout, storage, compute string) string {
	args := func(f func(i int) string) string {
		parts := make([]string, arity)
		for i := range parts {
			parts[i] = f(i)
		}
		return strings.Join(parts, ", ")
	}

	switch {
	case layout == LayoutPackedF16:
		var sb strings.Builder
		for i := 0; i < arity; i++ {
			fmt.Fprintf(&sb, "        let v%d = unpack2x16float(in%d[idx]);\n", i, i)
		}
		lo := args(func(i int) string { return fmt.Sprintf("v%d.x", i) })
		hi := args(func(i int) string { return fmt.Sprintf("v%d.y", i) })
		fmt.Fprintf(&sb, "        result[idx] = pack2x16float(vec2<f32>(op_eval(%s), op_eval(%s)));\n", lo, hi)
		return sb.String()

	case storage != compute:
		in := args(func(i int) string { return fmt.Sprintf("%s(in%d[idx])", compute, i) })
		return fmt.Sprintf("        result[idx] = %s(op_eval(%s));\n", storage, in)

	default:
		in := args(func(i int) string { return fmt.Sprintf("in%d[idx]", i) })
		return fmt.Sprintf("        result[idx] = op_eval(%s);\n", in)
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
