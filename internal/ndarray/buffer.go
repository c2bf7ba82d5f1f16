package ndarray

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Buffer is a flat, fixed-length, homogeneous block of scalar storage tagged
// with the device it belongs to. A Buffer carries no shape knowledge; all
// logical array semantics live in View. Buffers are shared across views with
// reference counting and are deallocated when the last reference is released.
//
// The logical length is immutable after creation. Contents are mutated only
// by kernel calls that target the buffer as an output, never by view-level
// metadata operations.
type Buffer struct {
	data   []byte
	length int // element count, fixed at creation
	dtype  DataType
	device Device
	refs   atomic.Int32
	mu     sync.Mutex // For safe deallocation
}

// newBuffer allocates a zeroed buffer of length elements with refcount 1.
func newBuffer(length int, dtype DataType, device Device) *Buffer {
	b := &Buffer{
		data:   make([]byte, length*dtype.Size()),
		length: length,
		dtype:  dtype,
		device: device,
	}
	b.refs.Store(1)
	return b
}

// Len returns the number of elements the buffer holds.
func (b *Buffer) Len() int {
	return b.length
}

// DType returns the buffer's element type.
func (b *Buffer) DType() DataType {
	return b.dtype
}

// Device returns the device the buffer lives on.
func (b *Buffer) Device() Device {
	return b.device
}

// ByteSize returns the total storage size in bytes.
func (b *Buffer) ByteSize() int {
	return b.length * b.dtype.Size()
}

// Bytes returns the raw byte storage.
// WARNING: Direct access to underlying memory. Use with caution.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Retain increments the reference count. Each View referencing the buffer
// holds one reference.
func (b *Buffer) Retain() {
	b.refs.Add(1)
}

// Release decrements the reference count and deallocates at zero.
func (b *Buffer) Release() {
	if b.refs.Add(-1) == 0 {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.data = nil
	}
}

// IsUnique returns true if exactly one reference to the buffer exists.
// Kernels may write in place only through a unique, freshly allocated output.
func (b *Buffer) IsUnique() bool {
	return b.refs.Load() == 1
}

// AsFloat32 interprets the storage as []float32.
// Panics if the buffer's dtype is not Float32.
func (b *Buffer) AsFloat32() []float32 {
	if b.dtype != Float32 {
		panic(fmt.Sprintf("buffer dtype is %s, not float32", b.dtype))
	}
	if b.length == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by length
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.data[0])), b.length)
}

// AsFloat64 interprets the storage as []float64.
// Panics if the buffer's dtype is not Float64.
func (b *Buffer) AsFloat64() []float64 {
	if b.dtype != Float64 {
		panic(fmt.Sprintf("buffer dtype is %s, not float64", b.dtype))
	}
	if b.length == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by length
	return unsafe.Slice((*float64)(unsafe.Pointer(&b.data[0])), b.length)
}

// AsInt32 interprets the storage as []int32.
// Panics if the buffer's dtype is not Int32.
func (b *Buffer) AsInt32() []int32 {
	if b.dtype != Int32 {
		panic(fmt.Sprintf("buffer dtype is %s, not int32", b.dtype))
	}
	if b.length == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by length
	return unsafe.Slice((*int32)(unsafe.Pointer(&b.data[0])), b.length)
}

// AsInt64 interprets the storage as []int64.
// Panics if the buffer's dtype is not Int64.
func (b *Buffer) AsInt64() []int64 {
	if b.dtype != Int64 {
		panic(fmt.Sprintf("buffer dtype is %s, not int64", b.dtype))
	}
	if b.length == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by length
	return unsafe.Slice((*int64)(unsafe.Pointer(&b.data[0])), b.length)
}

// AsUint8 interprets the storage as []uint8.
// Panics if the buffer's dtype is not Uint8.
func (b *Buffer) AsUint8() []uint8 {
	if b.dtype != Uint8 {
		panic(fmt.Sprintf("buffer dtype is %s, not uint8", b.dtype))
	}
	return b.data // Already []byte = []uint8
}
