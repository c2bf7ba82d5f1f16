package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-ml/axon/internal/backend/reference"
	"github.com/axon-ml/axon/internal/ndarray"
)

// newTestBackend skips the test when no adapter is available (CI machines
// and containers typically have none).
func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	be, err := New()
	if err != nil {
		t.Skipf("webgpu not available: %v", err)
	}
	t.Cleanup(be.Close)
	return be
}

func gpuBuf(t *testing.T, data []float32) *ndarray.Buffer {
	t.Helper()
	v, err := ndarray.FromSlice(data, ndarray.Shape{len(data)}, ndarray.WebGPU)
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return v.Buffer()
}

func gpuOut(t *testing.T, n int) *ndarray.Buffer {
	t.Helper()
	v, err := ndarray.Empty(ndarray.Shape{n}, ndarray.Float32, ndarray.WebGPU)
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return v.Buffer()
}

func TestEwiseBinop(t *testing.T) {
	be := newTestBackend(t)
	a := gpuBuf(t, []float32{1, 2, 3, 4})
	b := gpuBuf(t, []float32{4, 3, 2, 8})

	tests := []struct {
		op   ndarray.BinOp
		want []float32
	}{
		{ndarray.OpAdd, []float32{5, 5, 5, 12}},
		{ndarray.OpSub, []float32{-3, -1, 1, -4}},
		{ndarray.OpMul, []float32{4, 6, 6, 32}},
		{ndarray.OpMaximum, []float32{4, 3, 3, 8}},
		{ndarray.OpEq, []float32{0, 0, 0, 0}},
		{ndarray.OpGe, []float32{0, 0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			out := gpuOut(t, 4)
			require.NoError(t, be.EwiseBinop(tt.op, a, b, out))
			assert.Equal(t, tt.want, ndarray.Data[float32](out))
		})
	}
}

func TestEwiseBinopLarge(t *testing.T) {
	// More elements than one workgroup to exercise the dispatch grid.
	be := newTestBackend(t)
	ref := reference.New()

	const n = 10_000
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i%97) * 0.5
	}
	a := gpuBuf(t, data)

	got := gpuOut(t, n)
	want := gpuOut(t, n)
	require.NoError(t, be.EwiseBinop(ndarray.OpMul, a, a, got))
	require.NoError(t, ref.EwiseBinop(ndarray.OpMul, a, a, want))
	assert.Equal(t, ndarray.Data[float32](want), ndarray.Data[float32](got))
}

func TestScalarBinop(t *testing.T) {
	be := newTestBackend(t)
	a := gpuBuf(t, []float32{1, 2, 3, 4})

	out := gpuOut(t, 4)
	require.NoError(t, be.ScalarBinop(ndarray.OpMul, a, 2.5, out))
	assert.Equal(t, []float32{2.5, 5, 7.5, 10}, ndarray.Data[float32](out))

	require.NoError(t, be.ScalarBinop(ndarray.OpGe, a, 3, out))
	assert.Equal(t, []float32{0, 0, 1, 1}, ndarray.Data[float32](out))
}

func TestMatMul(t *testing.T) {
	be := newTestBackend(t)
	a := gpuBuf(t, []float32{1, 2, 3, 4, 5, 6})
	b := gpuBuf(t, []float32{7, 8, 9, 10, 11, 12})
	out := gpuOut(t, 4)

	require.NoError(t, be.MatMul(a, b, out, 2, 3, 2))
	assert.Equal(t, []float32{58, 64, 139, 154}, ndarray.Data[float32](out))
}

func TestMatMulAgainstReference(t *testing.T) {
	be := newTestBackend(t)
	ref := reference.New()

	m, k, n := 33, 47, 29
	a := make([]float32, m*k)
	b := make([]float32, k*n)
	for i := range a {
		a[i] = float32(i%13) - 6
	}
	for i := range b {
		b[i] = float32(i%7) - 3
	}
	ga, gb := gpuBuf(t, a), gpuBuf(t, b)

	got := gpuOut(t, m*n)
	want := gpuOut(t, m*n)
	require.NoError(t, be.MatMul(ga, gb, got, m, k, n))
	require.NoError(t, ref.MatMul(ga, gb, want, m, k, n))

	gotS, wantS := ndarray.Data[float32](got), ndarray.Data[float32](want)
	for i := range wantS {
		assert.InDelta(t, wantS[i], gotS[i], 1e-3, "element %d", i)
	}
}

func TestReduce(t *testing.T) {
	be := newTestBackend(t)
	in := gpuBuf(t, []float32{1, 2, 3, 4, 5, 6})

	out := gpuOut(t, 2)
	require.NoError(t, be.Reduce(ndarray.ReduceSum, in, out, 3))
	assert.Equal(t, []float32{6, 15}, ndarray.Data[float32](out))

	require.NoError(t, be.Reduce(ndarray.ReduceMax, in, out, 3))
	assert.Equal(t, []float32{3, 6}, ndarray.Data[float32](out))
}

func TestFill(t *testing.T) {
	be := newTestBackend(t)
	buf := gpuOut(t, 300)

	require.NoError(t, be.Fill(buf, 1.5))
	for _, x := range ndarray.Data[float32](buf) {
		if x != 1.5 {
			t.Fatal("fill left an element unwritten")
		}
	}
}

func TestUnsupportedDType(t *testing.T) {
	be := newTestBackend(t)

	v, err := ndarray.Empty(ndarray.Shape{4}, ndarray.Float64, ndarray.WebGPU)
	require.NoError(t, err)
	defer v.Release()

	err = be.EwiseBinop(ndarray.OpAdd, v.Buffer(), v.Buffer(), v.Buffer())
	assert.ErrorIs(t, err, ndarray.ErrBackend)
}

func TestBackendIdentity(t *testing.T) {
	be := newTestBackend(t)
	assert.Equal(t, "webgpu", be.Name())
	assert.Equal(t, ndarray.WebGPU, be.Device())
}
