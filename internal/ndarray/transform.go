package ndarray

import "fmt"

// Permute returns a view with axes reordered by the given permutation of
// [0, rank). Shape and strides are gathered through the permutation; offset
// and buffer are unchanged. O(rank), zero data movement.
func (v *View) Permute(order ...int) (*View, error) {
	rank := len(v.shape)
	if len(order) != rank {
		return nil, fmt.Errorf("%w: permutation has %d axes, view has %d", ErrInvalidAxes, len(order), rank)
	}

	seen := make([]bool, rank)
	for _, a := range order {
		if a < 0 || a >= rank {
			return nil, fmt.Errorf("%w: axis %d out of range for rank %d", ErrInvalidAxes, a, rank)
		}
		if seen[a] {
			return nil, fmt.Errorf("%w: axis %d repeated", ErrInvalidAxes, a)
		}
		seen[a] = true
	}

	shape := make(Shape, rank)
	strides := make([]int, rank)
	for i, a := range order {
		shape[i] = v.shape[a]
		strides[i] = v.strides[a]
	}
	return v.derive(shape, strides, v.offset), nil
}

// Transpose swaps the last two axes. Convenience wrapper over Permute for
// the common matrix case.
func (v *View) Transpose() (*View, error) {
	rank := len(v.shape)
	if rank < 2 {
		return nil, fmt.Errorf("%w: transpose requires rank >= 2, got %d", ErrInvalidAxes, rank)
	}
	order := make([]int, rank)
	for i := range order {
		order[i] = i
	}
	order[rank-2], order[rank-1] = order[rank-1], order[rank-2]
	return v.Permute(order...)
}

// Range is a half-open [Start, Stop) interval with a positive Step, one per
// axis of a Slice call.
type Range struct {
	Start int
	Stop  int
	Step  int
}

// All selects an entire axis: [0, stop) with step 1.
func All(stop int) Range {
	return Range{Start: 0, Stop: stop, Step: 1}
}

// Slice returns a sub-view selecting ranges[k] along each axis k:
//
//	shape'[k]   = ceil((Stop-Start)/Step)
//	strides'[k] = strides[k] * Step
//	offset'     = offset + Σ Start_k * strides[k]
//
// Zero data movement; the result aliases the same buffer.
func (v *View) Slice(ranges ...Range) (*View, error) {
	rank := len(v.shape)
	if len(ranges) != rank {
		return nil, fmt.Errorf("%w: %d ranges for rank %d", ErrShape, len(ranges), rank)
	}

	shape := make(Shape, rank)
	strides := make([]int, rank)
	offset := v.offset
	for k, r := range ranges {
		if r.Step < 1 {
			return nil, fmt.Errorf("%w: axis %d: step %d must be >= 1", ErrBounds, k, r.Step)
		}
		if r.Start < 0 || r.Stop < r.Start || r.Stop > v.shape[k] {
			return nil, fmt.Errorf("%w: axis %d: range [%d, %d) outside [0, %d)",
				ErrBounds, k, r.Start, r.Stop, v.shape[k])
		}
		shape[k] = (r.Stop - r.Start + r.Step - 1) / r.Step
		strides[k] = v.strides[k] * r.Step
		offset += r.Start * v.strides[k]
	}
	return v.derive(shape, strides, offset), nil
}

// BroadcastTo returns a view expanded to target, aligning shapes from the
// trailing axis. Axes of size 1 whose target differs become broadcast
// dimensions with stride 0; leading axes added by the target are likewise
// stride 0. Every element of a broadcast dimension aliases the same storage,
// so the result must never be a kernel write target.
func (v *View) BroadcastTo(target Shape) (*View, error) {
	rank := len(v.shape)
	if len(target) < rank {
		return nil, fmt.Errorf("%w: cannot broadcast %v to lower-rank %v", ErrBroadcast, v.shape, target)
	}

	shape := target.Clone()
	strides := make([]int, len(target))
	lead := len(target) - rank
	for k := range target {
		src := k - lead
		switch {
		case src < 0:
			strides[k] = 0
		case v.shape[src] == target[k]:
			strides[k] = v.strides[src]
		case v.shape[src] == 1:
			strides[k] = 0
		default:
			return nil, fmt.Errorf("%w: %v to %v (dimension %d: %d vs %d)",
				ErrBroadcast, v.shape, target, k, v.shape[src], target[k])
		}
	}
	return v.derive(shape, strides, v.offset), nil
}

// Reshape returns a view of the same elements under a new shape with
// canonical strides. On a contiguous view this is pure metadata; a
// non-contiguous view is compacted first, so the result may or may not
// share the buffer.
func (v *View) Reshape(newShape Shape) (*View, error) {
	if err := newShape.Validate(); err != nil {
		return nil, err
	}
	if newShape.NumElements() != v.NumElements() {
		return nil, fmt.Errorf("%w: cannot reshape %v (%d elements) to %v (%d elements)",
			ErrShape, v.shape, v.NumElements(), newShape, newShape.NumElements())
	}

	if v.IsContiguous() {
		return v.derive(newShape.Clone(), newShape.ComputeStrides(), v.offset), nil
	}

	c, err := v.Compact()
	if err != nil {
		return nil, err
	}
	out := c.derive(newShape.Clone(), newShape.ComputeStrides(), 0)
	c.Release()
	return out, nil
}
