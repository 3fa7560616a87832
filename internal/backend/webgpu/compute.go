//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/born-ml/tensorops/internal/kernels"
	"github.com/born-ml/tensorops/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	// Auto layout (nil layout)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// createBuffer creates a GPU buffer of size bytes and uploads data into it.
// The tail beyond len(data) is zero.
func (b *Backend) createBuffer(data []byte, size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	n := copy(mappedSlice, data)
	clear(mappedSlice[n:])
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a 16-byte uniform holding Params{size}.
func (b *Backend) createUniformBuffer(size uint32) *wgpu.Buffer {
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], size)
	return b.createBuffer(params, 16, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := b.bufferPool.Acquire(size, wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst)
	defer b.bufferPool.Release(staging, size, wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst)

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	staging.Unmap()

	return result, nil
}

// Apply evaluates op element by element on the GPU and writes the result
// into dst's host memory. All buffers must share dst's length and dtype;
// Float64 is not supported by WGSL and returns kernels.ErrPrecision.
func (b *Backend) Apply(op kernels.Op, dst *tensor.RawTensor, operands ...*tensor.RawTensor) (err error) {
	if !op.Valid() {
		return fmt.Errorf("webgpu apply: %w %d", kernels.ErrUnknownOp, int(op))
	}
	if n := op.Arity(); len(operands) != n {
		return fmt.Errorf("webgpu apply %s: %w: want %d, got %d", op, kernels.ErrArity, n, len(operands))
	}
	if err := tensor.CheckElementwise(dst, operands...); err != nil {
		return fmt.Errorf("webgpu apply %s: %w", op, err)
	}
	layout, err := LayoutFor(dst.DType(), b.caps)
	if err != nil {
		return fmt.Errorf("webgpu apply %s: %w", op, err)
	}
	if dst.Len() == 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("webgpu apply %s: %v", op, r)
		}
	}()

	result, err := b.run(op, layout, dst.Len(), operands)
	if err != nil {
		return fmt.Errorf("webgpu apply %s: %w", op, err)
	}
	copy(dst.Data(), result)
	return nil
}

// run uploads operands, dispatches the (op, layout) shader over n elements
// and returns the result bytes (padded to the layout's buffer size).
func (b *Backend) run(op kernels.Op, layout Layout, n int, operands []*tensor.RawTensor) ([]byte, error) {
	code, err := generate(op, layout)
	if err != nil {
		return nil, err
	}
	name := ShaderName(op, layout)
	shader := b.compileShader(name, code)
	pipeline := b.getOrCreatePipeline(name, shader)

	//nolint:gosec // G115: BufferSize is positive
	size := uint64(layout.BufferSize(n))
	entries := make([]wgpu.BindGroupEntry, 0, len(operands)+2)

	for i, src := range operands {
		buffer := b.createBuffer(src.Data(), size, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		defer buffer.Release()
		//nolint:gosec // G115: binding index is at most 3
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buffer, 0, size))
	}

	outUsage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	bufferResult := b.bufferPool.Acquire(size, outUsage)
	defer b.bufferPool.Release(bufferResult, size, outUsage)

	words := layout.Words(n)
	//nolint:gosec // G115: element counts fit in u32 for a single dispatch
	bufferParams := b.createUniformBuffer(uint32(words))
	defer bufferParams.Release()

	//nolint:gosec // G115: binding index is at most 4
	arity := uint32(len(operands))
	entries = append(entries,
		wgpu.BufferBindingEntry(arity, bufferResult, 0, size),
		wgpu.BufferBindingEntry(arity+1, bufferParams, 0, 16),
	)

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: workgroup count is non-negative
	workgroups := uint32((words + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	return b.readBuffer(bufferResult, size)
}

// Map allocates a result shaped like operands[0] and applies op into it.
func (b *Backend) Map(op kernels.Op, operands ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	if len(operands) == 0 || operands[0] == nil {
		return nil, fmt.Errorf("webgpu map %s: %w", op, tensor.ErrNilBuffer)
	}
	result, err := tensor.NewRaw(operands[0].Len(), operands[0].DType(), tensor.WebGPU)
	if err != nil {
		return nil, fmt.Errorf("webgpu map %s: %w", op, err)
	}
	if err := b.Apply(op, result, operands...); err != nil {
		return nil, err
	}
	return result, nil
}
