package ndarray

import "fmt"

// View is the NDArray: a shape/stride/offset/device descriptor over a shared
// Buffer. Views are cheap to create and copy; they own no storage beyond a
// counted reference to their buffer. All transforms in transform.go produce
// new views without touching elements.
type View struct {
	shape   Shape
	strides []int
	offset  int
	device  Device
	buf     *Buffer
}

// Make constructs a view over an existing buffer and retains it. The bounds
// invariant is validated up front: every address reachable through the
// shape/strides/offset must lie inside the buffer.
func Make(shape Shape, strides []int, device Device, buf *Buffer, offset int) (*View, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(shape) != len(strides) {
		return nil, fmt.Errorf("%w: %d dims but %d strides", ErrShape, len(shape), len(strides))
	}
	if err := checkBounds(shape, strides, offset, buf.Len()); err != nil {
		return nil, err
	}

	buf.Retain()
	return &View{
		shape:   shape.Clone(),
		strides: append([]int(nil), strides...),
		offset:  offset,
		device:  device,
		buf:     buf,
	}, nil
}

// checkBounds verifies that the minimum and maximum reachable linear
// addresses fall within [0, bufLen). Views with zero elements reach no
// address and always pass.
func checkBounds(shape Shape, strides []int, offset, bufLen int) error {
	if shape.NumElements() == 0 {
		return nil
	}

	lo, hi := offset, offset
	for k, dim := range shape {
		span := (dim - 1) * strides[k]
		if span > 0 {
			hi += span
		} else {
			lo += span
		}
	}
	if lo < 0 || hi >= bufLen {
		return fmt.Errorf("%w: view spans addresses [%d, %d] over buffer of length %d",
			ErrBounds, lo, hi, bufLen)
	}
	return nil
}

// Shape returns the view's shape.
func (v *View) Shape() Shape {
	return v.shape
}

// Strides returns the view's per-dimension linear-address steps.
func (v *View) Strides() []int {
	return v.strides
}

// Offset returns the base index into the buffer.
func (v *View) Offset() int {
	return v.offset
}

// Device returns the view's compute device.
func (v *View) Device() Device {
	return v.device
}

// DType returns the element type of the underlying buffer.
func (v *View) DType() DataType {
	return v.buf.DType()
}

// Buffer returns the underlying shared buffer.
// Used by backend implementations and tests; view callers normally never
// touch it.
func (v *View) Buffer() *Buffer {
	return v.buf
}

// Rank returns the number of dimensions.
func (v *View) Rank() int {
	return len(v.shape)
}

// NumElements returns the total number of logical elements.
func (v *View) NumElements() int {
	return v.shape.NumElements()
}

// IsContiguous reports whether the strides equal the canonical row-major
// strides for the shape, i.e. whether Compact would copy elements in the
// order they already sit in memory.
func (v *View) IsContiguous() bool {
	canonical := v.shape.ComputeStrides()
	for i := range v.strides {
		if v.strides[i] != canonical[i] {
			return false
		}
	}
	return true
}

// hasZeroStride reports whether any dimension of extent > 1 aliases a single
// element. Such views must never be the write target of a kernel.
func (v *View) hasZeroStride() bool {
	for i, s := range v.strides {
		if s == 0 && v.shape[i] > 1 {
			return true
		}
	}
	return false
}

// isKernelReady reports whether the view's buffer can be handed to a kernel
// as-is: canonical strides, zero offset, and a buffer holding exactly the
// view's elements.
func (v *View) isKernelReady() bool {
	return v.offset == 0 && v.IsContiguous() && v.buf.Len() == v.NumElements()
}

// linearIndex computes the buffer address of a multi-index.
// Panics if the number of indices or any index is out of range.
func (v *View) linearIndex(indices []int) int {
	if len(indices) != len(v.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(v.shape), len(indices)))
	}
	addr := v.offset
	for i, idx := range indices {
		if idx < 0 || idx >= v.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, v.shape[i]))
		}
		addr += idx * v.strides[i]
	}
	return addr
}

// Float64At returns the element at the given indices converted to float64.
// Panics if indices are out of bounds.
func (v *View) Float64At(indices ...int) float64 {
	return v.buf.float64At(v.linearIndex(indices))
}

// SetFloat64 sets the element at the given indices from a float64 value,
// converting to the buffer's dtype. Panics if indices are out of bounds.
//
// This is a caller-side element write for construction and tests; it is not
// part of the kernel contract and must not be used on views whose buffer is
// shared with broadcast aliases the caller does not intend to alias.
func (v *View) SetFloat64(value float64, indices ...int) {
	v.buf.setFloat64(v.linearIndex(indices), value)
}

// float64At reads one element at a linear address, converted to float64.
func (b *Buffer) float64At(i int) float64 {
	switch b.dtype {
	case Float32:
		return float64(b.AsFloat32()[i])
	case Float64:
		return b.AsFloat64()[i]
	case Int32:
		return float64(b.AsInt32()[i])
	case Int64:
		return float64(b.AsInt64()[i])
	case Uint8:
		return float64(b.AsUint8()[i])
	default:
		panic("unknown data type")
	}
}

// setFloat64 writes one element at a linear address, converting from float64.
func (b *Buffer) setFloat64(i int, value float64) {
	switch b.dtype {
	case Float32:
		b.AsFloat32()[i] = float32(value)
	case Float64:
		b.AsFloat64()[i] = value
	case Int32:
		b.AsInt32()[i] = int32(value)
	case Int64:
		b.AsInt64()[i] = int64(value)
	case Uint8:
		b.AsUint8()[i] = uint8(value)
	default:
		panic("unknown data type")
	}
}

// Float64s flattens the view's logical values in row-major order, converted
// to float64. Allocates; intended for inspection and tests, not hot paths.
func (v *View) Float64s() []float64 {
	n := v.NumElements()
	out := make([]float64, n)
	v.walk(func(i, addr int) {
		out[i] = v.buf.float64At(addr)
	})
	return out
}

// walk visits every logical element in row-major order (last axis fastest),
// calling f with the element's ordinal and its linear buffer address. This
// odometer and Compact are the only places strided addressing is iterated
// outside kernels.
func (v *View) walk(f func(i, addr int)) {
	n := v.NumElements()
	if n == 0 {
		return
	}

	rank := len(v.shape)
	idx := make([]int, rank)
	addr := v.offset
	for i := 0; i < n; i++ {
		f(i, addr)
		for k := rank - 1; k >= 0; k-- {
			idx[k]++
			addr += v.strides[k]
			if idx[k] < v.shape[k] {
				break
			}
			idx[k] = 0
			addr -= v.shape[k] * v.strides[k]
		}
	}
}

// Release drops this view's reference to the buffer. The buffer is
// deallocated when the last referencing view releases it. Using the view
// after Release is invalid.
func (v *View) Release() {
	v.buf.Release()
}

// String returns a human-readable representation of the view.
func (v *View) String() string {
	return fmt.Sprintf("View[%s]%v strides=%v offset=%d on %s",
		v.DType(), v.shape, v.strides, v.offset, v.device)
}

// derive builds a sibling view over the same buffer with new metadata,
// retaining the buffer. Callers have already validated the metadata.
func (v *View) derive(shape Shape, strides []int, offset int) *View {
	v.buf.Retain()
	return &View{
		shape:   shape,
		strides: strides,
		offset:  offset,
		device:  v.device,
		buf:     v.buf,
	}
}
