package webgpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	noF16   = Capabilities{}
	withF16 = Capabilities{ShaderF16: true}
)

func TestEveryOpHasABody(t *testing.T) {
	for _, op := range kernels.All() {
		_, ok := opBodies[op]
		assert.True(t, ok, "no WGSL body for %s", op)
	}
	for op := range nativeF16 {
		assert.True(t, op.Valid(), "native f16 set lists unknown op %d", int(op))
	}
	assert.Len(t, opBodies, len(kernels.All()))
}

func TestShaderSourceAllVariants(t *testing.T) {
	variants := []struct {
		dt   tensor.DataType
		caps Capabilities
	}{
		{tensor.Float32, noF16},
		{tensor.Float16, withF16},
		{tensor.Float16, noF16},
	}

	names := make(map[string]bool)
	for _, op := range kernels.All() {
		for _, v := range variants {
			layout, err := LayoutFor(v.dt, v.caps)
			require.NoError(t, err)

			src, err := ShaderSource(op, v.dt, v.caps)
			require.NoError(t, err, "%s %s", op, layout)

			name := ShaderName(op, layout)
			assert.False(t, names[name], "duplicate shader name %s", name)
			names[name] = true

			arity := op.Arity()
			for i := 0; i < arity; i++ {
				assert.Contains(t, src, fmt.Sprintf("@binding(%d) var<storage, read> in%d", i, i))
			}
			assert.Contains(t, src, fmt.Sprintf("@binding(%d) var<storage, read_write> result", arity))
			assert.Contains(t, src, fmt.Sprintf("@binding(%d) var<uniform> params", arity+1))
			assert.Contains(t, src, "@compute @workgroup_size(256)")
			assert.NotContains(t, src, "$T", "unexpanded placeholder in %s", name)
			assert.Equal(t, strings.Count(src, "("), strings.Count(src, ")"), "unbalanced parens in %s", name)
			assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"), "unbalanced braces in %s", name)
		}
	}
}

func TestNativeF16Shaders(t *testing.T) {
	outOfRange := []string{"1e-37", "1e-30", "85.1", "bitcast<f32>"}

	for _, op := range kernels.All() {
		src, err := ShaderSource(op, tensor.Float16, withF16)
		require.NoError(t, err)
		assert.True(t, strings.Contains(src, "enable f16;"), op.Name())
		assert.Contains(t, src, "array<f16>")

		if NativeF16(op) {
			assert.Contains(t, src, "-> f16 {", op.Name())
			for _, c := range outOfRange {
				assert.NotContains(t, src, c, "%s evaluates in f16 and must not use %s", op, c)
			}
			continue
		}
		assert.Contains(t, src, "-> f32 {", op.Name())
		assert.Contains(t, src, "result[idx] = f16(op_eval(", op.Name())
	}
}

func TestPackedF16Shaders(t *testing.T) {
	src, err := ShaderSource(kernels.OpLogSum, tensor.Float16, noF16)
	require.NoError(t, err)

	assert.NotContains(t, src, "enable f16")
	assert.Contains(t, src, "array<u32>")
	assert.Contains(t, src, "let v0 = unpack2x16float(in0[idx]);")
	assert.Contains(t, src, "let v1 = unpack2x16float(in1[idx]);")
	assert.Contains(t, src, "pack2x16float(vec2<f32>(op_eval(v0.x, v1.x), op_eval(v0.y, v1.y)))")
	assert.Contains(t, src, "fn log1p_(x: f32) -> f32")
	assert.Contains(t, src, "fn log_add(x0: f32, y0: f32) -> f32")

	src, err = ShaderSource(kernels.OpConstOne, tensor.Float16, noF16)
	require.NoError(t, err)
	assert.Contains(t, src, "pack2x16float(vec2<f32>(op_eval(), op_eval()))")
}

func TestFloat32Shader(t *testing.T) {
	src, err := ShaderSource(kernels.OpElementwiseProductWithPowBaseDerivative, tensor.Float32, noF16)
	require.NoError(t, err)

	assert.Contains(t, src, "fn safe_pow(base: f32, e: f32) -> f32")
	assert.Contains(t, src, "fn op_eval(a: f32, b: f32, c: f32) -> f32 {\n    return a * c * safe_pow(b, c - f32(1));\n}")
	assert.Contains(t, src, "result[idx] = op_eval(in0[idx], in1[idx], in2[idx]);")
	assert.Equal(t, 1, strings.Count(src, "fn safe_pow"), "helpers are emitted once")
}

func TestShaderSourceErrors(t *testing.T) {
	_, err := ShaderSource(kernels.OpExp, tensor.Float64, withF16)
	assert.ErrorIs(t, err, kernels.ErrPrecision)

	_, err = ShaderSource(kernels.Op(999), tensor.Float32, noF16)
	assert.ErrorIs(t, err, kernels.ErrUnknownOp)
}

func TestLayout(t *testing.T) {
	tests := []struct {
		layout Layout
		n      int
		words  int
		bytes  int
	}{
		{LayoutF32, 0, 0, 4},
		{LayoutF32, 3, 3, 12},
		{LayoutF16, 3, 3, 8},
		{LayoutF16, 4, 4, 8},
		{LayoutPackedF16, 3, 2, 8},
		{LayoutPackedF16, 1, 1, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.layout, tt.n), func(t *testing.T) {
			assert.Equal(t, tt.words, tt.layout.Words(tt.n))
			assert.Equal(t, tt.bytes, tt.layout.BufferSize(tt.n))
		})
	}
	assert.Equal(t, "unknown", Layout(9).String())
}
