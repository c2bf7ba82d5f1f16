package ndarray

import "fmt"

// Buffer-level validation shared by kernel-contract implementations. The
// dispatcher already guarantees these hold, but backends are also callable
// directly and must refuse to corrupt memory on a violated contract.

// ValidatePair checks that an input and output buffer agree in length and
// dtype.
func ValidatePair(a, out *Buffer) error {
	if a.Len() != out.Len() {
		return fmt.Errorf("%w: buffer lengths %d vs %d", ErrShape, a.Len(), out.Len())
	}
	if a.DType() != out.DType() {
		return fmt.Errorf("%w: %s vs %s", ErrDType, a.DType(), out.DType())
	}
	return nil
}

// ValidateEwise checks a binary elementwise kernel's operands and output.
func ValidateEwise(a, b, out *Buffer) error {
	if err := ValidatePair(a, out); err != nil {
		return err
	}
	return ValidatePair(b, out)
}

// ValidateMatMul checks buffer extents against the M/K/N parameters.
func ValidateMatMul(a, b, out *Buffer, m, k, n int) error {
	if a.Len() != m*k || b.Len() != k*n || out.Len() != m*n {
		return fmt.Errorf("%w: matmul buffers %d, %d, %d for [%d,%d] @ [%d,%d]",
			ErrShape, a.Len(), b.Len(), out.Len(), m, k, k, n)
	}
	if a.DType() != out.DType() || b.DType() != out.DType() {
		return fmt.Errorf("%w: matmul dtypes %s, %s, %s", ErrDType, a.DType(), b.DType(), out.DType())
	}
	return nil
}

// ValidateReduce checks that the input divides into out.Len() blocks of
// reduceSize elements.
func ValidateReduce(in, out *Buffer, reduceSize int) error {
	if reduceSize <= 0 || in.Len() != out.Len()*reduceSize {
		return fmt.Errorf("%w: %d elements into %d blocks of %d",
			ErrShape, in.Len(), out.Len(), reduceSize)
	}
	if in.DType() != out.DType() {
		return fmt.Errorf("%w: %s vs %s", ErrDType, in.DType(), out.DType())
	}
	return nil
}
