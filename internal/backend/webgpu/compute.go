package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/axon-ml/axon/internal/ndarray"
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

	// Auto layout (nil layout): bindings are inferred from the shader.
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// createStorageBuffer creates a GPU storage buffer and uploads initial data.
func (b *Backend) createStorageBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createOutputBuffer creates an uninitialized GPU storage buffer writable by
// a compute pass and readable by the staging copy.
func (b *Backend) createOutputBuffer(size uint64) *wgpu.Buffer {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
}

// createUniformBuffer creates a uniform buffer with proper alignment.
// Uniform buffers require 16-byte alignment for struct fields.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15 // Round up to 16-byte boundary

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to map staging buffer: %v", ndarray.ErrBackend, err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// dispatch runs one compute pass over a prepared bind group and blocks until
// the output has been read back into out's host storage.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, bindGroup *wgpu.BindGroup,
	groupsX, groupsY uint32, gpuOut *wgpu.Buffer, out *ndarray.Buffer) error {
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(groupsX, groupsY, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(gpuOut, uint64(out.ByteSize()))
	if err != nil {
		return err
	}
	copy(out.Bytes(), resultData)
	return nil
}

// runEwise executes a binary elementwise shader: result = a OP b.
func (b *Backend) runEwise(shaderName, shaderCode string, a, other, out *ndarray.Buffer) error {
	n := out.Len()
	shader := b.compileShader(shaderName, shaderCode)
	pipeline := b.getOrCreatePipeline(shaderName, shader)

	bufferA := b.createStorageBuffer(a.Bytes())
	defer bufferA.Release()
	bufferOther := b.createStorageBuffer(other.Bytes())
	defer bufferOther.Release()

	resultSize := uint64(out.ByteSize())
	bufferResult := b.createOutputBuffer(resultSize)
	defer bufferResult.Release()

	params := make([]byte, 16) // 16-byte aligned
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, uint64(a.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferOther, 0, uint64(other.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	groups := uint32((n + workgroupSize - 1) / workgroupSize)
	return b.dispatch(pipeline, bindGroup, groups, 1, bufferResult, out)
}

// runScalar executes a scalar shader: result = a OP params.scalar.
func (b *Backend) runScalar(shaderName, shaderCode string, a *ndarray.Buffer, scalar float32, out *ndarray.Buffer) error {
	n := out.Len()
	shader := b.compileShader(shaderName, shaderCode)
	pipeline := b.getOrCreatePipeline(shaderName, shader)

	bufferA := b.createStorageBuffer(a.Bytes())
	defer bufferA.Release()

	resultSize := uint64(out.ByteSize())
	bufferResult := b.createOutputBuffer(resultSize)
	defer bufferResult.Release()

	params := make([]byte, 16) // size: u32, scalar: f32, padded to 16
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(scalar))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, uint64(a.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	groups := uint32((n + workgroupSize - 1) / workgroupSize)
	return b.dispatch(pipeline, bindGroup, groups, 1, bufferResult, out)
}

// runMatMul executes C = A @ B with one invocation per output element.
func (b *Backend) runMatMul(a, other, out *ndarray.Buffer, m, k, n int) error {
	shader := b.compileShader("matmul", matmulShader)
	pipeline := b.getOrCreatePipeline("matmul", shader)

	bufferA := b.createStorageBuffer(a.Bytes())
	defer bufferA.Release()
	bufferOther := b.createStorageBuffer(other.Bytes())
	defer bufferOther.Release()

	resultSize := uint64(out.ByteSize())
	bufferResult := b.createOutputBuffer(resultSize)
	defer bufferResult.Release()

	params := make([]byte, 16) // m, k, n: u32 each, padded to 16
	binary.LittleEndian.PutUint32(params[0:4], uint32(m))
	binary.LittleEndian.PutUint32(params[4:8], uint32(k))
	binary.LittleEndian.PutUint32(params[8:12], uint32(n))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, uint64(a.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferOther, 0, uint64(other.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	// 16x16 workgroups over the output matrix.
	groupsX := uint32((n + 15) / 16)
	groupsY := uint32((m + 15) / 16)
	return b.dispatch(pipeline, bindGroup, groupsX, groupsY, bufferResult, out)
}

// runReduce executes a block reduction, one invocation per output element.
func (b *Backend) runReduce(shaderName, shaderCode string, in, out *ndarray.Buffer, reduceSize int) error {
	blocks := out.Len()
	shader := b.compileShader(shaderName, shaderCode)
	pipeline := b.getOrCreatePipeline(shaderName, shader)

	bufferIn := b.createStorageBuffer(in.Bytes())
	defer bufferIn.Release()

	resultSize := uint64(out.ByteSize())
	bufferResult := b.createOutputBuffer(resultSize)
	defer bufferResult.Release()

	params := make([]byte, 16) // blocks, reduce_size: u32 each, padded to 16
	binary.LittleEndian.PutUint32(params[0:4], uint32(blocks))
	binary.LittleEndian.PutUint32(params[4:8], uint32(reduceSize))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferIn, 0, uint64(in.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	groups := uint32((blocks + workgroupSize - 1) / workgroupSize)
	return b.dispatch(pipeline, bindGroup, groups, 1, bufferResult, out)
}

// runFill writes a constant to every element.
func (b *Backend) runFill(out *ndarray.Buffer, value float32) error {
	n := out.Len()
	shader := b.compileShader("fill", fillShader)
	pipeline := b.getOrCreatePipeline("fill", shader)

	resultSize := uint64(out.ByteSize())
	bufferResult := b.createOutputBuffer(resultSize)
	defer bufferResult.Release()

	params := make([]byte, 16) // size: u32, value: f32, padded to 16
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(value))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	groups := uint32((n + workgroupSize - 1) / workgroupSize)
	return b.dispatch(pipeline, bindGroup, groups, 1, bufferResult, out)
}
