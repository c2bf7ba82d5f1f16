package ndarray

// BinOp tags an elementwise binary operator for kernel dispatch.
type BinOp int

// Elementwise binary operators.
const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMaximum
	OpEq
	OpGe
)

// String returns the operator name.
func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMaximum:
		return "maximum"
	case OpEq:
		return "eq"
	case OpGe:
		return "ge"
	default:
		return "unknown"
	}
}

// ReduceOp tags a reduction operator for kernel dispatch.
type ReduceOp int

// Reduction operators.
const (
	ReduceSum ReduceOp = iota
	ReduceMax
)

// String returns the operator name.
func (op ReduceOp) String() string {
	switch op {
	case ReduceSum:
		return "sum"
	case ReduceMax:
		return "max"
	default:
		return "unknown"
	}
}

// Backend is the kernel contract every compute device must implement.
// Kernels operate only on contiguous flat buffers plus scalar shape
// parameters; they never see view metadata. The dispatcher guarantees that
// inputs are contiguous, outputs are freshly allocated, and all lengths and
// dtypes agree before a kernel is invoked, but implementations must still
// validate and report violations rather than corrupt memory.
//
// Implementations:
//   - backend/reference: straight loops over every dtype, the conformance
//     baseline
//   - backend/cpu: vectorized float32/float64 paths with parallel chunking
//   - backend/webgpu: WGSL compute pipelines, float32 only
//
// Each implementation must match the reference backend bit-identically for
// elementwise operations and within 1e-5 for matmul and reductions.
type Backend interface {
	// EwiseBinop applies op elementwise over equal-length buffers: out[i] = a[i] op b[i].
	EwiseBinop(op BinOp, a, b, out *Buffer) error

	// ScalarBinop applies op with a scalar right operand: out[i] = a[i] op scalar.
	ScalarBinop(op BinOp, a *Buffer, scalar float64, out *Buffer) error

	// MatMul computes the dense product of row-major flattened operands:
	// out is [M, N], a is [M, K], b is [K, N].
	MatMul(a, b, out *Buffer, m, k, n int) error

	// Reduce collapses each contiguous block of reduceSize input elements to
	// one output element. The caller has already permuted the reduced axis to
	// be the fastest-varying one and compacted.
	Reduce(op ReduceOp, in, out *Buffer, reduceSize int) error

	// Fill writes the scalar (converted to the buffer's dtype) to every element.
	Fill(buf *Buffer, scalar float64) error

	// Copy copies src into dst. Lengths and dtypes must match.
	Copy(src, dst *Buffer) error

	// Name returns the backend name.
	Name() string

	// Device returns the device this backend computes on.
	Device() Device
}
