package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-ml/axon/internal/ndarray"
)

func bufFrom[T ndarray.DType](t *testing.T, data []T) *ndarray.Buffer {
	t.Helper()
	v, err := ndarray.FromSlice(data, ndarray.Shape{len(data)}, ndarray.CPU)
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return v.Buffer()
}

func outBuf(t *testing.T, n int, dtype ndarray.DataType) *ndarray.Buffer {
	t.Helper()
	v, err := ndarray.Empty(ndarray.Shape{n}, dtype, ndarray.CPU)
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return v.Buffer()
}

func TestEwiseBinopFloat32(t *testing.T) {
	be := New()
	a := bufFrom(t, []float32{1, 2, 3, 4})
	b := bufFrom(t, []float32{4, 3, 2, 8})

	tests := []struct {
		op   ndarray.BinOp
		want []float32
	}{
		{ndarray.OpAdd, []float32{5, 5, 5, 12}},
		{ndarray.OpSub, []float32{-3, -1, 1, -4}},
		{ndarray.OpMul, []float32{4, 6, 6, 32}},
		{ndarray.OpDiv, []float32{0.25, 2.0 / 3.0, 1.5, 0.5}},
		{ndarray.OpMaximum, []float32{4, 3, 3, 8}},
		{ndarray.OpEq, []float32{0, 0, 0, 0}},
		{ndarray.OpGe, []float32{0, 0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			out := outBuf(t, 4, ndarray.Float32)
			require.NoError(t, be.EwiseBinop(tt.op, a, b, out))
			assert.Equal(t, tt.want, ndarray.Data[float32](out))
		})
	}
}

func TestEwiseBinopInt32(t *testing.T) {
	be := New()
	a := bufFrom(t, []int32{10, -4, 7})
	b := bufFrom(t, []int32{3, -4, 9})

	out := outBuf(t, 3, ndarray.Int32)
	require.NoError(t, be.EwiseBinop(ndarray.OpAdd, a, b, out))
	assert.Equal(t, []int32{13, -8, 16}, ndarray.Data[int32](out))

	require.NoError(t, be.EwiseBinop(ndarray.OpEq, a, b, out))
	assert.Equal(t, []int32{0, 1, 0}, ndarray.Data[int32](out))

	require.NoError(t, be.EwiseBinop(ndarray.OpDiv, a, b, out))
	assert.Equal(t, []int32{3, 1, 0}, ndarray.Data[int32](out))
}

func TestEwiseBinopValidation(t *testing.T) {
	be := New()
	a := bufFrom(t, []float32{1, 2, 3})
	b := bufFrom(t, []float32{1, 2})
	out := outBuf(t, 3, ndarray.Float32)

	err := be.EwiseBinop(ndarray.OpAdd, a, b, out)
	assert.ErrorIs(t, err, ndarray.ErrShape)

	b64 := bufFrom(t, []float64{1, 2, 3})
	err = be.EwiseBinop(ndarray.OpAdd, a, b64, out)
	assert.ErrorIs(t, err, ndarray.ErrDType)
}

func TestScalarBinop(t *testing.T) {
	be := New()
	a := bufFrom(t, []float32{1, 2, 3, 4})

	out := outBuf(t, 4, ndarray.Float32)
	require.NoError(t, be.ScalarBinop(ndarray.OpMul, a, 2, out))
	assert.Equal(t, []float32{2, 4, 6, 8}, ndarray.Data[float32](out))

	require.NoError(t, be.ScalarBinop(ndarray.OpMaximum, a, 2.5, out))
	assert.Equal(t, []float32{2.5, 2.5, 3, 4}, ndarray.Data[float32](out))

	require.NoError(t, be.ScalarBinop(ndarray.OpGe, a, 3, out))
	assert.Equal(t, []float32{0, 0, 1, 1}, ndarray.Data[float32](out))
}

func TestScalarBinopIntTruncation(t *testing.T) {
	be := New()
	a := bufFrom(t, []int64{10, 20})
	out := outBuf(t, 2, ndarray.Int64)

	// The scalar converts to the buffer dtype before the loop.
	require.NoError(t, be.ScalarBinop(ndarray.OpAdd, a, 2.9, out))
	assert.Equal(t, []int64{12, 22}, ndarray.Data[int64](out))
}

func TestMatMul(t *testing.T) {
	be := New()
	a := bufFrom(t, []float32{1, 2, 3, 4, 5, 6})    // 2x3
	b := bufFrom(t, []float32{7, 8, 9, 10, 11, 12}) // 3x2
	out := outBuf(t, 4, ndarray.Float32)

	require.NoError(t, be.MatMul(a, b, out, 2, 3, 2))
	assert.Equal(t, []float32{58, 64, 139, 154}, ndarray.Data[float32](out))
}

func TestMatMulIdentity(t *testing.T) {
	be := New()
	a := bufFrom(t, []float64{1, 2, 3, 4})
	id := bufFrom(t, []float64{1, 0, 0, 1})
	out := outBuf(t, 4, ndarray.Float64)

	require.NoError(t, be.MatMul(a, id, out, 2, 2, 2))
	assert.Equal(t, []float64{1, 2, 3, 4}, ndarray.Data[float64](out))
}

func TestMatMulValidation(t *testing.T) {
	be := New()
	a := bufFrom(t, []float32{1, 2, 3, 4})
	b := bufFrom(t, []float32{1, 2, 3, 4})
	out := outBuf(t, 4, ndarray.Float32)

	err := be.MatMul(a, b, out, 2, 3, 2)
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

func TestReduce(t *testing.T) {
	be := New()
	in := bufFrom(t, []float32{1, 2, 3, 4, 5, 6})

	out := outBuf(t, 2, ndarray.Float32)
	require.NoError(t, be.Reduce(ndarray.ReduceSum, in, out, 3))
	assert.Equal(t, []float32{6, 15}, ndarray.Data[float32](out))

	require.NoError(t, be.Reduce(ndarray.ReduceMax, in, out, 3))
	assert.Equal(t, []float32{3, 6}, ndarray.Data[float32](out))

	all := outBuf(t, 1, ndarray.Float32)
	require.NoError(t, be.Reduce(ndarray.ReduceSum, in, all, 6))
	assert.Equal(t, []float32{21}, ndarray.Data[float32](all))
}

func TestReduceNegativeValues(t *testing.T) {
	be := New()
	// Max must start from the block's first element, not from zero.
	in := bufFrom(t, []float64{-5, -2, -9, -1, -4, -3})
	out := outBuf(t, 2, ndarray.Float64)

	require.NoError(t, be.Reduce(ndarray.ReduceMax, in, out, 3))
	assert.Equal(t, []float64{-2, -1}, ndarray.Data[float64](out))
}

func TestReduceValidation(t *testing.T) {
	be := New()
	in := bufFrom(t, []float32{1, 2, 3, 4, 5})
	out := outBuf(t, 2, ndarray.Float32)

	assert.ErrorIs(t, be.Reduce(ndarray.ReduceSum, in, out, 3), ndarray.ErrShape)
	assert.ErrorIs(t, be.Reduce(ndarray.ReduceSum, in, out, 0), ndarray.ErrShape)
}

func TestFill(t *testing.T) {
	be := New()

	out := outBuf(t, 3, ndarray.Float32)
	require.NoError(t, be.Fill(out, 2.5))
	assert.Equal(t, []float32{2.5, 2.5, 2.5}, ndarray.Data[float32](out))

	ints := outBuf(t, 3, ndarray.Uint8)
	require.NoError(t, be.Fill(ints, 200))
	assert.Equal(t, []uint8{200, 200, 200}, ndarray.Data[uint8](ints))
}

func TestCopy(t *testing.T) {
	be := New()
	src := bufFrom(t, []float32{1, 2, 3})
	dst := outBuf(t, 3, ndarray.Float32)

	require.NoError(t, be.Copy(src, dst))
	assert.Equal(t, []float32{1, 2, 3}, ndarray.Data[float32](dst))

	short := outBuf(t, 2, ndarray.Float32)
	assert.ErrorIs(t, be.Copy(src, short), ndarray.ErrShape)
}

func TestBackendIdentity(t *testing.T) {
	be := New()
	assert.Equal(t, "reference", be.Name())
	assert.Equal(t, ndarray.CPU, be.Device())
}
