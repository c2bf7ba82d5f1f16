package ndarray

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing the view algebra and
// dispatcher without importing a real backend package. It implements the
// kernel contract naively through float64 conversion, for every dtype.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

func applyBinOp(op BinOp, x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpMaximum:
		return math.Max(x, y)
	case OpEq:
		if x == y {
			return 1
		}
		return 0
	case OpGe:
		if x >= y {
			return 1
		}
		return 0
	default:
		panic("unknown binop")
	}
}

// EwiseBinop applies op elementwise over equal-length buffers.
func (m *MockBackend) EwiseBinop(op BinOp, a, b, out *Buffer) error {
	if a.Len() != out.Len() || b.Len() != out.Len() {
		return fmt.Errorf("%w: mock ewise %s: lengths %d, %d, %d", ErrShape, op, a.Len(), b.Len(), out.Len())
	}
	for i := 0; i < out.Len(); i++ {
		out.setFloat64(i, applyBinOp(op, a.float64At(i), b.float64At(i)))
	}
	return nil
}

// ScalarBinop applies op with a scalar right operand.
func (m *MockBackend) ScalarBinop(op BinOp, a *Buffer, scalar float64, out *Buffer) error {
	if a.Len() != out.Len() {
		return fmt.Errorf("%w: mock scalar %s: lengths %d, %d", ErrShape, op, a.Len(), out.Len())
	}
	for i := 0; i < out.Len(); i++ {
		out.setFloat64(i, applyBinOp(op, a.float64At(i), scalar))
	}
	return nil
}

// MatMul computes a naive dense product.
func (m *MockBackend) MatMul(a, b, out *Buffer, mm, k, n int) error {
	if a.Len() != mm*k || b.Len() != k*n || out.Len() != mm*n {
		return fmt.Errorf("%w: mock matmul: lengths %d, %d, %d for [%d,%d]@[%d,%d]",
			ErrShape, a.Len(), b.Len(), out.Len(), mm, k, k, n)
	}
	for i := 0; i < mm; i++ {
		for j := 0; j < n; j++ {
			acc := 0.0
			for p := 0; p < k; p++ {
				acc += a.float64At(i*k+p) * b.float64At(p*n+j)
			}
			out.setFloat64(i*n+j, acc)
		}
	}
	return nil
}

// Reduce collapses contiguous blocks of reduceSize elements.
func (m *MockBackend) Reduce(op ReduceOp, in, out *Buffer, reduceSize int) error {
	if reduceSize <= 0 || in.Len() != out.Len()*reduceSize {
		return fmt.Errorf("%w: mock reduce %s: %d elements into %d blocks of %d",
			ErrShape, op, in.Len(), out.Len(), reduceSize)
	}
	for o := 0; o < out.Len(); o++ {
		acc := in.float64At(o * reduceSize)
		for j := 1; j < reduceSize; j++ {
			x := in.float64At(o*reduceSize + j)
			switch op {
			case ReduceSum:
				acc += x
			case ReduceMax:
				acc = math.Max(acc, x)
			default:
				return fmt.Errorf("%w: mock reduce: unknown op", ErrBackend)
			}
		}
		out.setFloat64(o, acc)
	}
	return nil
}

// Fill writes the scalar to every element.
func (m *MockBackend) Fill(buf *Buffer, scalar float64) error {
	for i := 0; i < buf.Len(); i++ {
		buf.setFloat64(i, scalar)
	}
	return nil
}

// Copy copies src into dst.
func (m *MockBackend) Copy(src, dst *Buffer) error {
	if src.Len() != dst.Len() || src.DType() != dst.DType() {
		return fmt.Errorf("%w: mock copy: %d/%s into %d/%s",
			ErrShape, src.Len(), src.DType(), dst.Len(), dst.DType())
	}
	copy(dst.Bytes(), src.Bytes())
	return nil
}
