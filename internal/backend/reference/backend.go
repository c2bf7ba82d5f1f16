// Package reference implements the kernel contract with straight loops over
// every dtype. It is the conformance baseline: every other backend must
// match it bit-identically for elementwise operations and within 1e-5 for
// matmul and reductions.
package reference

import (
	"fmt"

	"github.com/axon-ml/axon/internal/ndarray"
)

// Verify that Backend implements the kernel contract.
var _ ndarray.Backend = (*Backend)(nil)

// Backend computes on the CPU with unoptimized scalar loops.
type Backend struct {
	device ndarray.Device
}

// New creates a new reference backend.
func New() *Backend {
	return &Backend{device: ndarray.CPU}
}

// Name returns the backend name.
func (r *Backend) Name() string {
	return "reference"
}

// Device returns the compute device.
func (r *Backend) Device() ndarray.Device {
	return r.device
}

// EwiseBinop applies op elementwise: out[i] = a[i] op b[i].
func (r *Backend) EwiseBinop(op ndarray.BinOp, a, b, out *ndarray.Buffer) error {
	if err := ndarray.ValidateEwise(a, b, out); err != nil {
		return fmt.Errorf("ewise %s: %w", op, err)
	}

	switch out.DType() {
	case ndarray.Float32:
		ewise(op, a.AsFloat32(), b.AsFloat32(), out.AsFloat32())
	case ndarray.Float64:
		ewise(op, a.AsFloat64(), b.AsFloat64(), out.AsFloat64())
	case ndarray.Int32:
		ewise(op, a.AsInt32(), b.AsInt32(), out.AsInt32())
	case ndarray.Int64:
		ewise(op, a.AsInt64(), b.AsInt64(), out.AsInt64())
	case ndarray.Uint8:
		ewise(op, a.AsUint8(), b.AsUint8(), out.AsUint8())
	default:
		return fmt.Errorf("%w: ewise %s: unsupported dtype %s", ndarray.ErrBackend, op, out.DType())
	}
	return nil
}

// ScalarBinop applies op with a scalar right operand: out[i] = a[i] op scalar.
func (r *Backend) ScalarBinop(op ndarray.BinOp, a *ndarray.Buffer, scalar float64, out *ndarray.Buffer) error {
	if err := ndarray.ValidatePair(a, out); err != nil {
		return fmt.Errorf("scalar %s: %w", op, err)
	}

	switch out.DType() {
	case ndarray.Float32:
		scalarBinop(op, a.AsFloat32(), float32(scalar), out.AsFloat32())
	case ndarray.Float64:
		scalarBinop(op, a.AsFloat64(), scalar, out.AsFloat64())
	case ndarray.Int32:
		scalarBinop(op, a.AsInt32(), int32(scalar), out.AsInt32())
	case ndarray.Int64:
		scalarBinop(op, a.AsInt64(), int64(scalar), out.AsInt64())
	case ndarray.Uint8:
		scalarBinop(op, a.AsUint8(), uint8(scalar), out.AsUint8())
	default:
		return fmt.Errorf("%w: scalar %s: unsupported dtype %s", ndarray.ErrBackend, op, out.DType())
	}
	return nil
}

// MatMul computes out = a @ b over row-major flattened operands.
func (r *Backend) MatMul(a, b, out *ndarray.Buffer, m, k, n int) error {
	if err := ndarray.ValidateMatMul(a, b, out, m, k, n); err != nil {
		return err
	}

	switch out.DType() {
	case ndarray.Float32:
		matmul(out.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case ndarray.Float64:
		matmul(out.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	case ndarray.Int32:
		matmul(out.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n)
	case ndarray.Int64:
		matmul(out.AsInt64(), a.AsInt64(), b.AsInt64(), m, k, n)
	case ndarray.Uint8:
		matmul(out.AsUint8(), a.AsUint8(), b.AsUint8(), m, k, n)
	default:
		return fmt.Errorf("%w: matmul: unsupported dtype %s", ndarray.ErrBackend, out.DType())
	}
	return nil
}

// Reduce collapses each contiguous block of reduceSize elements to one
// output element.
func (r *Backend) Reduce(op ndarray.ReduceOp, in, out *ndarray.Buffer, reduceSize int) error {
	if err := ndarray.ValidateReduce(in, out, reduceSize); err != nil {
		return fmt.Errorf("reduce %s: %w", op, err)
	}

	switch out.DType() {
	case ndarray.Float32:
		reduce(op, in.AsFloat32(), out.AsFloat32(), reduceSize)
	case ndarray.Float64:
		reduce(op, in.AsFloat64(), out.AsFloat64(), reduceSize)
	case ndarray.Int32:
		reduce(op, in.AsInt32(), out.AsInt32(), reduceSize)
	case ndarray.Int64:
		reduce(op, in.AsInt64(), out.AsInt64(), reduceSize)
	case ndarray.Uint8:
		reduce(op, in.AsUint8(), out.AsUint8(), reduceSize)
	default:
		return fmt.Errorf("%w: reduce %s: unsupported dtype %s", ndarray.ErrBackend, op, out.DType())
	}
	return nil
}

// Fill writes the scalar, converted to the buffer's dtype, to every element.
func (r *Backend) Fill(buf *ndarray.Buffer, scalar float64) error {
	switch buf.DType() {
	case ndarray.Float32:
		fill(buf.AsFloat32(), float32(scalar))
	case ndarray.Float64:
		fill(buf.AsFloat64(), scalar)
	case ndarray.Int32:
		fill(buf.AsInt32(), int32(scalar))
	case ndarray.Int64:
		fill(buf.AsInt64(), int64(scalar))
	case ndarray.Uint8:
		fill(buf.AsUint8(), uint8(scalar))
	default:
		return fmt.Errorf("%w: fill: unsupported dtype %s", ndarray.ErrBackend, buf.DType())
	}
	return nil
}

// Copy copies src into dst.
func (r *Backend) Copy(src, dst *ndarray.Buffer) error {
	if err := ndarray.ValidatePair(src, dst); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	copy(dst.Bytes(), src.Bytes())
	return nil
}
