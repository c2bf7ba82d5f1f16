// Copyright 2025 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ndarray

import (
	"github.com/axon-ml/axon/internal/ndarray"
)

// Type aliases for the public API

// DType is a constraint for element types.
// Supported types: float32, float64, int32, int64, uint8.
type DType = ndarray.DType

// DataType represents the runtime element type of a buffer.
type DataType = ndarray.DataType

// Data type constants.
const (
	Float32 DataType = ndarray.Float32
	Float64 DataType = ndarray.Float64
	Int32   DataType = ndarray.Int32
	Int64   DataType = ndarray.Int64
	Uint8   DataType = ndarray.Uint8
)

// Device identifies which backend implementation applies to a buffer.
type Device = ndarray.Device

// Device constants.
const (
	CPU    Device = ndarray.CPU
	CUDA   Device = ndarray.CUDA
	Vulkan Device = ndarray.Vulkan
	Metal  Device = ndarray.Metal
	WebGPU Device = ndarray.WebGPU
)

// Shape represents the dimensions of a view.
// Example: Shape{2, 3, 4} represents a 3-D array with dimensions 2×3×4.
type Shape = ndarray.Shape

// Buffer is a flat, fixed-length, device-resident storage block shared by
// one or more views.
type Buffer = ndarray.Buffer

// View is the NDArray: shape, strides, offset and a shared buffer reference.
type View = ndarray.View

// Range is a half-open [Start, Stop) interval with positive Step, one per
// axis of a Slice call.
type Range = ndarray.Range

// Backend is the flat-buffer kernel contract each device implements.
type Backend = ndarray.Backend

// BinOp tags an elementwise binary operator for dispatch.
type BinOp = ndarray.BinOp

// Elementwise binary operators.
const (
	OpAdd     BinOp = ndarray.OpAdd
	OpSub     BinOp = ndarray.OpSub
	OpMul     BinOp = ndarray.OpMul
	OpDiv     BinOp = ndarray.OpDiv
	OpMaximum BinOp = ndarray.OpMaximum
	OpEq      BinOp = ndarray.OpEq
	OpGe      BinOp = ndarray.OpGe
)

// ReduceOp tags a reduction operator for dispatch.
type ReduceOp = ndarray.ReduceOp

// Reduction operators.
const (
	ReduceSum ReduceOp = ndarray.ReduceSum
	ReduceMax ReduceOp = ndarray.ReduceMax
)

// Sentinel errors. Match with errors.Is.
var (
	ErrShape          = ndarray.ErrShape
	ErrBroadcast      = ndarray.ErrBroadcast
	ErrBounds         = ndarray.ErrBounds
	ErrInvalidAxes    = ndarray.ErrInvalidAxes
	ErrDeviceMismatch = ndarray.ErrDeviceMismatch
	ErrDType          = ndarray.ErrDType
	ErrBackend        = ndarray.ErrBackend
)

// Register installs a backend as the implementation for its device.
func Register(b Backend) {
	ndarray.Register(b)
}

// BackendFor returns the backend registered for the device.
func BackendFor(d Device) (Backend, error) {
	return ndarray.BackendFor(d)
}

// Make constructs a view over an existing buffer, validating the bounds
// invariant.
func Make(shape Shape, strides []int, device Device, buf *Buffer, offset int) (*View, error) {
	return ndarray.Make(shape, strides, device, buf, offset)
}

// Empty creates a view over a freshly allocated zeroed buffer with
// canonical strides.
func Empty(shape Shape, dtype DataType, device Device) (*View, error) {
	return ndarray.Empty(shape, dtype, device)
}

// Zeros creates a zero-filled view.
func Zeros(shape Shape, dtype DataType, device Device) (*View, error) {
	return ndarray.Zeros(shape, dtype, device)
}

// Ones creates a view filled with ones.
func Ones(shape Shape, dtype DataType, device Device) (*View, error) {
	return ndarray.Ones(shape, dtype, device)
}

// Full creates a view filled with the given scalar via the device's Fill
// kernel.
func Full(shape Shape, dtype DataType, device Device, value float64) (*View, error) {
	return ndarray.Full(shape, dtype, device, value)
}

// FromSlice creates a view by copying a Go slice into a fresh buffer.
func FromSlice[T DType](data []T, shape Shape, device Device) (*View, error) {
	return ndarray.FromSlice(data, shape, device)
}

// Data returns a typed slice over a buffer's storage (zero-copy).
func Data[T DType](b *Buffer) []T {
	return ndarray.Data[T](b)
}

// All selects an entire axis: [0, stop) with step 1.
func All(stop int) Range {
	return ndarray.All(stop)
}

// BroadcastShapes resolves two shapes under broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return ndarray.BroadcastShapes(a, b)
}

// EwiseBinop applies op elementwise over two views with broadcasting.
func EwiseBinop(op BinOp, a, b *View) (*View, error) {
	return ndarray.EwiseBinop(op, a, b)
}

// ScalarBinop applies op with a scalar right operand.
func ScalarBinop(op BinOp, a *View, scalar float64) (*View, error) {
	return ndarray.ScalarBinop(op, a, scalar)
}

// ReduceAxis reduces a view along one axis.
func ReduceAxis(op ReduceOp, v *View, axis int, keepDim bool) (*View, error) {
	return ndarray.ReduceAxis(op, v, axis, keepDim)
}

// ReduceAll reduces every element of a view to a rank-0 scalar view.
func ReduceAll(op ReduceOp, v *View) (*View, error) {
	return ndarray.ReduceAll(op, v)
}

// MatMul computes the dense matrix product of two rank-2 views.
func MatMul(a, b *View) (*View, error) {
	return ndarray.MatMul(a, b)
}
