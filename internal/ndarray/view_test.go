package ndarray

import (
	"errors"
	"testing"
)

func mustFromSlice[T DType](t *testing.T, data []T, shape Shape) *View {
	t.Helper()
	v, err := FromSlice(data, shape, CPU)
	if err != nil {
		t.Fatalf("FromSlice(%v, %v) failed: %v", data, shape, err)
	}
	return v
}

func TestMakeValidatesBounds(t *testing.T) {
	buf := newBuffer(6, Float32, CPU)
	defer buf.Release()

	v, err := Make(Shape{2, 3}, []int{3, 1}, CPU, buf, 0)
	if err != nil {
		t.Fatalf("Make over exact buffer failed: %v", err)
	}
	v.Release()

	// Max address 1*3 + 2*1 + 1 = 6, past the end.
	if _, err := Make(Shape{2, 3}, []int{3, 1}, CPU, buf, 1); !errors.Is(err, ErrBounds) {
		t.Errorf("Make with offset past extent = %v, want ErrBounds", err)
	}

	if _, err := Make(Shape{4, 3}, []int{3, 1}, CPU, buf, 0); !errors.Is(err, ErrBounds) {
		t.Errorf("Make over undersized buffer = %v, want ErrBounds", err)
	}

	// Negative strides reaching below zero.
	if _, err := Make(Shape{3}, []int{-1}, CPU, buf, 1); !errors.Is(err, ErrBounds) {
		t.Errorf("Make reaching below zero = %v, want ErrBounds", err)
	}

	// Negative stride with a high enough offset is fine.
	rv, err := Make(Shape{3}, []int{-1}, CPU, buf, 2)
	if err != nil {
		t.Fatalf("Make with in-bounds negative stride failed: %v", err)
	}
	rv.Release()

	if _, err := Make(Shape{2, 3}, []int{3}, CPU, buf, 0); !errors.Is(err, ErrShape) {
		t.Errorf("Make with mismatched strides = %v, want ErrShape", err)
	}
}

func TestEmptyCanonicalLayout(t *testing.T) {
	v, err := Empty(Shape{2, 3, 4}, Float32, CPU)
	if err != nil {
		t.Fatalf("Empty failed: %v", err)
	}
	defer v.Release()

	assertEqualShape(t, Shape{2, 3, 4}, v.Shape(), "shape")
	assertEqualInts(t, []int{12, 4, 1}, v.Strides(), "strides")
	if v.Offset() != 0 {
		t.Errorf("offset = %d, want 0", v.Offset())
	}
	if !v.IsContiguous() {
		t.Error("fresh view should be contiguous")
	}
	if v.Buffer().Len() != 24 {
		t.Errorf("buffer length = %d, want 24", v.Buffer().Len())
	}
	for _, x := range v.Float64s() {
		if x != 0 {
			t.Fatalf("fresh buffer not zeroed: %v", v.Float64s())
		}
	}
}

func TestFromSliceRoundTrip(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	assertEqualFloat64s(t, []float64{1, 2, 3, 4, 5, 6}, v.Float64s(), "values")
	if got := v.Float64At(1, 2); got != 6 {
		t.Errorf("Float64At(1, 2) = %v, want 6", got)
	}

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, CPU); !errors.Is(err, ErrShape) {
		t.Errorf("FromSlice with wrong element count = %v, want ErrShape", err)
	}
}

func TestFromSliceIntDTypes(t *testing.T) {
	vi := mustFromSlice(t, []int64{-1, 0, 7}, Shape{3})
	defer vi.Release()
	if vi.DType() != Int64 {
		t.Errorf("dtype = %s, want int64", vi.DType())
	}
	assertEqualFloat64s(t, []float64{-1, 0, 7}, vi.Float64s(), "int64 values")

	vb := mustFromSlice(t, []uint8{0, 128, 255}, Shape{3})
	defer vb.Release()
	if vb.DType() != Uint8 {
		t.Errorf("dtype = %s, want uint8", vb.DType())
	}
	assertEqualFloat64s(t, []float64{0, 128, 255}, vb.Float64s(), "uint8 values")
}

func TestSetFloat64WritesThrough(t *testing.T) {
	v := mustFromSlice(t, []float64{0, 0, 0, 0}, Shape{2, 2})
	defer v.Release()

	v.SetFloat64(3.5, 1, 0)
	if got := v.Float64At(1, 0); got != 3.5 {
		t.Errorf("Float64At(1, 0) = %v, want 3.5", got)
	}
	assertEqualFloat64s(t, []float64{0, 0, 3.5, 0}, v.Float64s(), "after write")
}

func TestIsContiguous(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()
	if !v.IsContiguous() {
		t.Error("row-major view should be contiguous")
	}

	p, err := v.Permute(1, 0)
	if err != nil {
		t.Fatalf("Permute failed: %v", err)
	}
	defer p.Release()
	if p.IsContiguous() {
		t.Error("transposed view should not be contiguous")
	}
}

func TestPermuteIsZeroCopy(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	defer v.Release()

	p, err := v.Permute(1, 0)
	if err != nil {
		t.Fatalf("Permute failed: %v", err)
	}
	defer p.Release()

	if p.Buffer() != v.Buffer() {
		t.Error("permute must not allocate a new buffer")
	}
	assertEqualShape(t, Shape{3, 2}, p.Shape(), "permuted shape")
	assertEqualInts(t, []int{1, 3}, p.Strides(), "permuted strides")
	assertEqualFloat64s(t, []float64{1, 4, 2, 5, 3, 6}, p.Float64s(), "permuted values")

	// A write through the source is visible through the permutation.
	v.SetFloat64(42, 0, 1)
	if got := p.Float64At(1, 0); got != 42 {
		t.Errorf("aliased read = %v, want 42", got)
	}
}

func TestBroadcastToAliasesRows(t *testing.T) {
	row := mustFromSlice(t, []float32{1, 2, 3}, Shape{3})
	defer row.Release()

	b, err := row.BroadcastTo(Shape{10, 3})
	if err != nil {
		t.Fatalf("BroadcastTo failed: %v", err)
	}
	defer b.Release()

	if b.Buffer() != row.Buffer() {
		t.Error("broadcast must not allocate a new buffer")
	}
	if b.Buffer().Len() != 3 {
		t.Errorf("buffer length = %d, want 3 (no materialization)", b.Buffer().Len())
	}
	assertEqualInts(t, []int{0, 1}, b.Strides(), "broadcast strides")

	for i := 0; i < 10; i++ {
		for j := 0; j < 3; j++ {
			if got := b.Float64At(i, j); got != float64(j+1) {
				t.Fatalf("element (%d, %d) = %v, want %v", i, j, got, j+1)
			}
		}
	}

	// Writing through the source changes every broadcast row.
	row.SetFloat64(9, 1)
	if got := b.Float64At(7, 1); got != 9 {
		t.Errorf("aliased broadcast read = %v, want 9", got)
	}
}

func TestSliceSharesBuffer(t *testing.T) {
	v := mustFromSlice(t, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, Shape{10})
	defer v.Release()

	s, err := v.Slice(Range{Start: 1, Stop: 9, Step: 2})
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	defer s.Release()

	if s.Buffer() != v.Buffer() {
		t.Error("slice must not allocate a new buffer")
	}
	assertEqualShape(t, Shape{4}, s.Shape(), "sliced shape")
	assertEqualInts(t, []int{2}, s.Strides(), "sliced strides")
	if s.Offset() != 1 {
		t.Errorf("offset = %d, want 1", s.Offset())
	}
	assertEqualFloat64s(t, []float64{1, 3, 5, 7}, s.Float64s(), "sliced values")
}

func TestSlice2D(t *testing.T) {
	// 3x4 matrix, take rows 1:3 and columns 0:4:2.
	v := mustFromSlice(t, []float32{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	}, Shape{3, 4})
	defer v.Release()

	s, err := v.Slice(Range{Start: 1, Stop: 3, Step: 1}, Range{Start: 0, Stop: 4, Step: 2})
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	defer s.Release()

	assertEqualShape(t, Shape{2, 2}, s.Shape(), "sliced shape")
	assertEqualFloat64s(t, []float64{4, 6, 8, 10}, s.Float64s(), "sliced values")
}

func TestViewRefcounting(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3, 4}, Shape{4})
	buf := v.Buffer()
	if !buf.IsUnique() {
		t.Fatal("fresh buffer should have a single reference")
	}

	s, err := v.Slice(Range{Start: 0, Stop: 2, Step: 1})
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if buf.IsUnique() {
		t.Error("derived view should add a reference")
	}

	v.Release()
	// The slice keeps the buffer alive.
	assertEqualFloat64s(t, []float64{1, 2}, s.Float64s(), "after source release")

	s.Release()
	if buf.Bytes() != nil {
		t.Error("buffer storage should be dropped after the last release")
	}
}

func TestRankZeroView(t *testing.T) {
	v, err := Empty(Shape{}, Float64, CPU)
	if err != nil {
		t.Fatalf("Empty scalar failed: %v", err)
	}
	defer v.Release()

	if v.Rank() != 0 || v.NumElements() != 1 {
		t.Fatalf("scalar rank/elements = %d/%d, want 0/1", v.Rank(), v.NumElements())
	}
	v.SetFloat64(2.5)
	if got := v.Float64At(); got != 2.5 {
		t.Errorf("scalar value = %v, want 2.5", got)
	}
}

func TestFloat64AtPanicsOutOfBounds(t *testing.T) {
	v := mustFromSlice(t, []float32{1, 2, 3}, Shape{3})
	defer v.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-bounds index")
		}
	}()
	v.Float64At(3)
}
