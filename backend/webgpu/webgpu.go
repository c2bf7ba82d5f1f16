// Copyright 2025 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU implementation of the kernel contract via
// WebGPU compute shaders.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (D3D12)
//   - macOS (Metal)
//   - Linux (Vulkan)
//
// Only float32 buffers are supported.
package webgpu

import (
	internalwebgpu "github.com/axon-ml/axon/internal/backend/webgpu"
	"github.com/axon-ml/axon/ndarray"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements ndarray.Backend.
var _ ndarray.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// Initializes the WebGPU adapter and device; call Close when done to free
// GPU resources. Returns an error if no compatible GPU is available.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Close()
//	ndarray.Register(gpu)
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// Useful for graceful fallback to a CPU backend:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    ndarray.Register(gpu)
//	} else {
//	    ndarray.Register(cpu.New())
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
