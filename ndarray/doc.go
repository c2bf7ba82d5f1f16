// Copyright 2025 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ndarray provides strided multi-dimensional arrays over shared flat
// buffers.
//
// # Overview
//
// The library splits logical array semantics from compute:
//   - View: shape/stride/offset metadata over a shared Buffer; transforms
//     (Permute, Slice, BroadcastTo, Reshape) are zero-copy
//   - Compact: the explicit materialization step ("view tax") that turns any
//     view into a fresh contiguous buffer
//   - Backend: the flat-buffer kernel contract each device implements
//   - The dispatcher: orchestrates broadcast, compaction and kernel calls
//     for elementwise ops, reductions and matmul
//
// # Basic Usage
//
//	import (
//	    "github.com/axon-ml/axon/backend/cpu"
//	    "github.com/axon-ml/axon/ndarray"
//	)
//
//	func main() {
//	    ndarray.Register(cpu.New())
//
//	    x, _ := ndarray.FromSlice([]float32{1, 2, 3, 4, 5, 6}, ndarray.Shape{2, 3}, ndarray.CPU)
//	    xt, _ := x.Transpose()       // zero-copy
//	    y, _ := xt.MatMul(x)         // compacts xt, then runs the kernel
//	    sums, _ := x.Sum(1, false)   // [6, 15]
//	    _ = y
//	    _ = sums
//	}
//
// # Supported Data Types
//
// Buffers hold one of: float32, float64, int32, int64, uint8. The GPU
// backend supports float32 only.
package ndarray
