package ndarray

import "fmt"

// Empty creates a view over a freshly allocated buffer with canonical
// strides and offset 0. Memory is zeroed by allocation.
func Empty(shape Shape, dtype DataType, device Device) (*View, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return &View{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		offset:  0,
		device:  device,
		buf:     newBuffer(shape.NumElements(), dtype, device),
	}, nil
}

// Zeros creates a zero-filled view. Identical to Empty since fresh buffers
// are zeroed, but reads better at call sites.
func Zeros(shape Shape, dtype DataType, device Device) (*View, error) {
	return Empty(shape, dtype, device)
}

// Full creates a view filled with the given scalar via the device's Fill
// kernel.
func Full(shape Shape, dtype DataType, device Device, value float64) (*View, error) {
	be, err := BackendFor(device)
	if err != nil {
		return nil, err
	}

	out, err := Empty(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	if err := be.Fill(out.buf, value); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// Ones creates a view filled with ones.
func Ones(shape Shape, dtype DataType, device Device) (*View, error) {
	return Full(shape, dtype, device, 1)
}

// FromSlice creates a view from a Go slice. The slice is copied into a fresh
// buffer with canonical strides.
func FromSlice[T DType](data []T, shape Shape, device Device) (*View, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, got %d",
			ErrShape, shape, shape.NumElements(), len(data))
	}

	var dummy T
	out, err := Empty(shape, inferDataType(dummy), device)
	if err != nil {
		return nil, err
	}
	copy(Data[T](out.buf), data)
	return out, nil
}

// Data returns a typed slice over a buffer's storage (zero-copy).
//
// WARNING: Modifications to the returned slice modify the buffer.
func Data[T DType](b *Buffer) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(b.AsFloat32()).([]T)
	case float64:
		return any(b.AsFloat64()).([]T)
	case int32:
		return any(b.AsInt32()).([]T)
	case int64:
		return any(b.AsInt64()).([]T)
	case uint8:
		return any(b.AsUint8()).([]T)
	default:
		panic("unsupported type")
	}
}

// Fill overwrites every element of the view in place through the device's
// Fill kernel. The view must be compact (canonical strides, zero offset,
// exclusive buffer extent): a zero-stride dimension aliases elements and is
// rejected, as is any layout whose writes could land outside the view.
func (v *View) Fill(value float64) error {
	if v.hasZeroStride() {
		return fmt.Errorf("%w: cannot fill through a broadcast dimension", ErrBroadcast)
	}
	if !v.isKernelReady() {
		return fmt.Errorf("%w: fill requires a compact view (shape %v, strides %v, offset %d)",
			ErrShape, v.shape, v.strides, v.offset)
	}

	be, err := BackendFor(v.device)
	if err != nil {
		return err
	}
	return be.Fill(v.buf, value)
}
