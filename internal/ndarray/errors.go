package ndarray

import "errors"

// Sentinel errors for the view algebra and dispatcher. Every failure is
// detected before buffers are allocated or kernels invoked, so a non-nil
// error guarantees no partial mutation happened.
var (
	// ErrShape reports a rank or dimension mismatch (reshape with a
	// different element count, matmul with incompatible inner dimensions).
	ErrShape = errors.New("shape mismatch")

	// ErrBroadcast reports shapes whose non-1 dimensions disagree, or a
	// write attempted through a broadcast (zero-stride) dimension.
	ErrBroadcast = errors.New("broadcast incompatible")

	// ErrBounds reports a slice range or index outside [0, shape[k]).
	ErrBounds = errors.New("index out of bounds")

	// ErrInvalidAxes reports a malformed axis permutation or an axis
	// outside [0, rank).
	ErrInvalidAxes = errors.New("invalid axes")

	// ErrDeviceMismatch reports operands living on different devices, or a
	// device with no registered backend.
	ErrDeviceMismatch = errors.New("device mismatch")

	// ErrDType reports operands of different element types.
	ErrDType = errors.New("dtype mismatch")

	// ErrBackend wraps failures raised inside a kernel implementation
	// (unsupported dtype, device out of memory, lost GPU device). The core
	// never retries; that policy belongs to the caller.
	ErrBackend = errors.New("backend failure")
)
