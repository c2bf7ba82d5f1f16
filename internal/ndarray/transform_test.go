package ndarray

import (
	"errors"
	"testing"
)

func TestPermuteValidation(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	if _, err := v.Permute(0); !errors.Is(err, ErrInvalidAxes) {
		t.Errorf("Permute with too few axes = %v, want ErrInvalidAxes", err)
	}
	if _, err := v.Permute(0, 0); !errors.Is(err, ErrInvalidAxes) {
		t.Errorf("Permute with repeated axis = %v, want ErrInvalidAxes", err)
	}
	if _, err := v.Permute(0, 2); !errors.Is(err, ErrInvalidAxes) {
		t.Errorf("Permute with out-of-range axis = %v, want ErrInvalidAxes", err)
	}
}

func TestTranspose(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	tr, err := v.Transpose()
	if err != nil {
		t.Fatalf("Transpose failed: %v", err)
	}
	defer tr.Release()

	assertEqualShape(t, Shape{3, 2}, tr.Shape(), "transposed shape")
	assertEqualFloat64s(t, []float64{1, 4, 2, 5, 3, 6}, tr.Float64s(), "transposed values")

	vec := mustFromSlice(t, []float32{1, 2, 3}, Shape{3})
	defer vec.Release()
	if _, err := vec.Transpose(); !errors.Is(err, ErrInvalidAxes) {
		t.Errorf("Transpose of rank-1 = %v, want ErrInvalidAxes", err)
	}
}

func TestTranspose3D(t *testing.T) {
	v := mustFromSlice(t, []float32{
		1, 2,
		3, 4,

		5, 6,
		7, 8,
	}, Shape{2, 2, 2})
	defer v.Release()

	tr, err := v.Transpose()
	if err != nil {
		t.Fatalf("Transpose failed: %v", err)
	}
	defer tr.Release()

	// Only the last two axes swap.
	assertEqualShape(t, Shape{2, 2, 2}, tr.Shape(), "shape")
	assertEqualFloat64s(t, []float64{1, 3, 2, 4, 5, 7, 6, 8}, tr.Float64s(), "values")
}

func TestSliceValidation(t *testing.T) {
	v := mustFromSlice(t, []float32{0, 1, 2, 3, 4}, Shape{5})
	defer v.Release()

	if _, err := v.Slice(); !errors.Is(err, ErrShape) {
		t.Errorf("Slice with wrong arity = %v, want ErrShape", err)
	}
	if _, err := v.Slice(Range{Start: 0, Stop: 5, Step: 0}); !errors.Is(err, ErrBounds) {
		t.Errorf("Slice with step 0 = %v, want ErrBounds", err)
	}
	if _, err := v.Slice(Range{Start: 2, Stop: 6, Step: 1}); !errors.Is(err, ErrBounds) {
		t.Errorf("Slice past the end = %v, want ErrBounds", err)
	}
	if _, err := v.Slice(Range{Start: 3, Stop: 2, Step: 1}); !errors.Is(err, ErrBounds) {
		t.Errorf("Slice with stop < start = %v, want ErrBounds", err)
	}
	if _, err := v.Slice(Range{Start: -1, Stop: 2, Step: 1}); !errors.Is(err, ErrBounds) {
		t.Errorf("Slice with negative start = %v, want ErrBounds", err)
	}
}

func TestSliceEmptyRange(t *testing.T) {
	v := mustFromSlice(t, []float32{0, 1, 2, 3, 4}, Shape{5})
	defer v.Release()

	s, err := v.Slice(Range{Start: 2, Stop: 2, Step: 1})
	if err != nil {
		t.Fatalf("empty Slice failed: %v", err)
	}
	defer s.Release()
	if s.NumElements() != 0 {
		t.Errorf("elements = %d, want 0", s.NumElements())
	}
	if len(s.Float64s()) != 0 {
		t.Errorf("Float64s = %v, want empty", s.Float64s())
	}
}

func TestBroadcastToValidation(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	if _, err := v.BroadcastTo(Shape{2, 4}); !errors.Is(err, ErrBroadcast) {
		t.Errorf("BroadcastTo (2,3)->(2,4) = %v, want ErrBroadcast", err)
	}
	if _, err := v.BroadcastTo(Shape{3}); !errors.Is(err, ErrBroadcast) {
		t.Errorf("BroadcastTo to lower rank = %v, want ErrBroadcast", err)
	}
}

func TestBroadcastToLeadingAxes(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	b, err := v.BroadcastTo(Shape{4, 2, 3})
	if err != nil {
		t.Fatalf("BroadcastTo failed: %v", err)
	}
	defer b.Release()

	assertEqualInts(t, []int{0, 3, 1}, b.Strides(), "strides")
	if got := b.Float64At(3, 1, 2); got != 6 {
		t.Errorf("element (3, 1, 2) = %v, want 6", got)
	}
}

func TestReshapeContiguousIsZeroCopy(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	r, err := v.Reshape(Shape{3, 2})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	defer r.Release()

	if r.Buffer() != v.Buffer() {
		t.Error("reshape of a contiguous view must not copy")
	}
	assertEqualShape(t, Shape{3, 2}, r.Shape(), "shape")
	assertEqualInts(t, []int{2, 1}, r.Strides(), "strides")
	assertEqualFloat64s(t, []float64{1, 2, 3, 4, 5, 6}, r.Float64s(), "values")
}

func TestReshapeNonContiguousCopies(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	p, err := v.Permute(1, 0)
	if err != nil {
		t.Fatalf("Permute failed: %v", err)
	}
	defer p.Release()

	r, err := p.Reshape(Shape{6})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	defer r.Release()

	if r.Buffer() == v.Buffer() {
		t.Error("reshape of a non-contiguous view must copy")
	}
	// Logical (transposed) order, not source memory order.
	assertEqualFloat64s(t, []float64{1, 4, 2, 5, 3, 6}, r.Float64s(), "values")
	if !r.IsContiguous() || r.Offset() != 0 {
		t.Error("reshaped view should be compact")
	}
}

func TestReshapeCountMismatch(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	if _, err := v.Reshape(Shape{4, 2}); !errors.Is(err, ErrShape) {
		t.Errorf("Reshape to different element count = %v, want ErrShape", err)
	}
}
