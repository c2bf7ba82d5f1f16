package ndarray

import "fmt"

// The dispatcher orchestrates logical operations end to end: validate
// operands, resolve broadcasting, pay the view tax where layout demands it,
// run the kernel, and wrap the freshly written buffer in a new view. All
// validation happens before any buffer is allocated or kernel invoked, so a
// failed call has no observable side effects. Output buffers are always
// freshly allocated and unpublished until the kernel completes, which is what
// enforces the broadcast-write invariant: no kernel ever writes through a
// zero-stride view.

// kernelOperand returns a view whose buffer a kernel can consume directly,
// compacting when the layout is non-canonical, offset, aliased, or smaller
// than its buffer. The returned cleanup releases the temporary, if any.
func kernelOperand(v *View) (*View, func(), error) {
	if v.isKernelReady() {
		return v, func() {}, nil
	}
	c, err := v.Compact()
	if err != nil {
		return nil, nil, err
	}
	return c, func() { c.Release() }, nil
}

// checkOperands validates the device and dtype agreement required of every
// binary operation.
func checkOperands(a, b *View) error {
	if a.device != b.device {
		return fmt.Errorf("%w: %s vs %s", ErrDeviceMismatch, a.device, b.device)
	}
	if a.DType() != b.DType() {
		return fmt.Errorf("%w: %s vs %s", ErrDType, a.DType(), b.DType())
	}
	return nil
}

// EwiseBinop applies op elementwise over two views, broadcasting their
// shapes to a common result shape first.
func EwiseBinop(op BinOp, a, b *View) (*View, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	be, err := BackendFor(a.device)
	if err != nil {
		return nil, err
	}
	outShape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}

	ab, err := a.BroadcastTo(outShape)
	if err != nil {
		return nil, err
	}
	defer ab.Release()
	bb, err := b.BroadcastTo(outShape)
	if err != nil {
		return nil, err
	}
	defer bb.Release()

	ac, aDone, err := kernelOperand(ab)
	if err != nil {
		return nil, err
	}
	defer aDone()
	bc, bDone, err := kernelOperand(bb)
	if err != nil {
		return nil, err
	}
	defer bDone()

	out, err := Empty(outShape, a.DType(), a.device)
	if err != nil {
		return nil, err
	}
	if err := be.EwiseBinop(op, ac.buf, bc.buf, out.buf); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// ScalarBinop applies op with a scalar right operand over every element.
func ScalarBinop(op BinOp, a *View, scalar float64) (*View, error) {
	be, err := BackendFor(a.device)
	if err != nil {
		return nil, err
	}

	ac, done, err := kernelOperand(a)
	if err != nil {
		return nil, err
	}
	defer done()

	out, err := Empty(a.shape, a.DType(), a.device)
	if err != nil {
		return nil, err
	}
	if err := be.ScalarBinop(op, ac.buf, scalar, out.buf); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// ReduceAxis reduces the view along one axis.
//
// The target axis is permuted to be the fastest-varying one (zero-copy), the
// result compacted if its layout is non-canonical, and the kernel's Reduce
// invoked with block size shape[axis]. Negative axes index from the end.
func ReduceAxis(op ReduceOp, v *View, axis int, keepDim bool) (*View, error) {
	rank := len(v.shape)
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return nil, fmt.Errorf("%w: reduce axis %d out of range for rank %d", ErrInvalidAxes, axis, rank)
	}
	if v.shape[axis] == 0 {
		return nil, fmt.Errorf("%w: cannot reduce over empty axis %d", ErrShape, axis)
	}
	be, err := BackendFor(v.device)
	if err != nil {
		return nil, err
	}

	order := make([]int, 0, rank)
	for i := 0; i < rank; i++ {
		if i != axis {
			order = append(order, i)
		}
	}
	order = append(order, axis)

	p, err := v.Permute(order...)
	if err != nil {
		return nil, err
	}
	defer p.Release()

	pc, done, err := kernelOperand(p)
	if err != nil {
		return nil, err
	}
	defer done()

	var outShape Shape
	if keepDim {
		outShape = v.shape.Clone()
		outShape[axis] = 1
	} else {
		outShape = make(Shape, 0, rank-1)
		for i, dim := range v.shape {
			if i != axis {
				outShape = append(outShape, dim)
			}
		}
	}

	out, err := Empty(outShape, v.DType(), v.device)
	if err != nil {
		return nil, err
	}
	if err := be.Reduce(op, pc.buf, out.buf, v.shape[axis]); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// ReduceAll reduces every element of the view to a rank-0 scalar view.
func ReduceAll(op ReduceOp, v *View) (*View, error) {
	n := v.NumElements()
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot reduce an empty view", ErrShape)
	}
	be, err := BackendFor(v.device)
	if err != nil {
		return nil, err
	}

	vc, done, err := kernelOperand(v)
	if err != nil {
		return nil, err
	}
	defer done()

	out, err := Empty(Shape{}, v.DType(), v.device)
	if err != nil {
		return nil, err
	}
	if err := be.Reduce(op, vc.buf, out.buf, n); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// MatMul computes the dense matrix product of two rank-2 views:
// [M, K] @ [K, N] -> [M, N].
func MatMul(a, b *View) (*View, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	if len(a.shape) != 2 || len(b.shape) != 2 {
		return nil, fmt.Errorf("%w: matmul requires rank-2 views, got %v and %v", ErrShape, a.shape, b.shape)
	}
	m, k := a.shape[0], a.shape[1]
	if b.shape[0] != k {
		return nil, fmt.Errorf("%w: matmul inner dimensions: [%d,%d] @ [%d,%d]",
			ErrShape, m, k, b.shape[0], b.shape[1])
	}
	n := b.shape[1]
	be, err := BackendFor(a.device)
	if err != nil {
		return nil, err
	}

	ac, aDone, err := kernelOperand(a)
	if err != nil {
		return nil, err
	}
	defer aDone()
	bc, bDone, err := kernelOperand(b)
	if err != nil {
		return nil, err
	}
	defer bDone()

	out, err := Empty(Shape{m, n}, a.DType(), a.device)
	if err != nil {
		return nil, err
	}
	if err := be.MatMul(ac.buf, bc.buf, out.buf, m, k, n); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}
