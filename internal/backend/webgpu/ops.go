package webgpu

import (
	"fmt"

	"github.com/axon-ml/axon/internal/ndarray"
)

// checkFloat32 rejects the dtypes this backend has no shaders for.
func checkFloat32(bufs ...*ndarray.Buffer) error {
	for _, buf := range bufs {
		if buf.DType() != ndarray.Float32 {
			return fmt.Errorf("%w: webgpu supports float32 only, got %s", ndarray.ErrBackend, buf.DType())
		}
	}
	return nil
}

// ewiseShaders maps binary op tags to their WGSL sources.
var ewiseShaders = map[ndarray.BinOp]struct {
	name string
	code string
}{
	ndarray.OpAdd:     {"add", addShader},
	ndarray.OpSub:     {"sub", subShader},
	ndarray.OpMul:     {"mul", mulShader},
	ndarray.OpDiv:     {"div", divShader},
	ndarray.OpMaximum: {"maximum", maximumShader},
	ndarray.OpEq:      {"eq", eqShader},
	ndarray.OpGe:      {"ge", geShader},
}

// scalarShaders maps binary op tags to their scalar-operand WGSL sources.
var scalarShaders = map[ndarray.BinOp]struct {
	name string
	code string
}{
	ndarray.OpAdd:     {"scalar_add", scalarAddShader},
	ndarray.OpSub:     {"scalar_sub", scalarSubShader},
	ndarray.OpMul:     {"scalar_mul", scalarMulShader},
	ndarray.OpDiv:     {"scalar_div", scalarDivShader},
	ndarray.OpMaximum: {"scalar_maximum", scalarMaximumShader},
	ndarray.OpEq:      {"scalar_eq", scalarEqShader},
	ndarray.OpGe:      {"scalar_ge", scalarGeShader},
}

// EwiseBinop applies op elementwise on the GPU.
func (b *Backend) EwiseBinop(op ndarray.BinOp, a, other, out *ndarray.Buffer) error {
	if err := ndarray.ValidateEwise(a, other, out); err != nil {
		return fmt.Errorf("ewise %s: %w", op, err)
	}
	if err := checkFloat32(a, other, out); err != nil {
		return err
	}
	sh, ok := ewiseShaders[op]
	if !ok {
		return fmt.Errorf("%w: no shader for binop %s", ndarray.ErrBackend, op)
	}
	return b.runEwise(sh.name, sh.code, a, other, out)
}

// ScalarBinop applies op with a scalar right operand on the GPU.
func (b *Backend) ScalarBinop(op ndarray.BinOp, a *ndarray.Buffer, scalar float64, out *ndarray.Buffer) error {
	if err := ndarray.ValidatePair(a, out); err != nil {
		return fmt.Errorf("scalar %s: %w", op, err)
	}
	if err := checkFloat32(a, out); err != nil {
		return err
	}
	sh, ok := scalarShaders[op]
	if !ok {
		return fmt.Errorf("%w: no shader for binop %s", ndarray.ErrBackend, op)
	}
	return b.runScalar(sh.name, sh.code, a, float32(scalar), out)
}

// MatMul computes out = a @ b on the GPU.
func (b *Backend) MatMul(a, other, out *ndarray.Buffer, m, k, n int) error {
	if err := ndarray.ValidateMatMul(a, other, out, m, k, n); err != nil {
		return err
	}
	if err := checkFloat32(a, other, out); err != nil {
		return err
	}
	return b.runMatMul(a, other, out, m, k, n)
}

// Reduce collapses each contiguous block of reduceSize elements on the GPU.
func (b *Backend) Reduce(op ndarray.ReduceOp, in, out *ndarray.Buffer, reduceSize int) error {
	if err := ndarray.ValidateReduce(in, out, reduceSize); err != nil {
		return fmt.Errorf("reduce %s: %w", op, err)
	}
	if err := checkFloat32(in, out); err != nil {
		return err
	}
	switch op {
	case ndarray.ReduceSum:
		return b.runReduce("reduce_sum", reduceSumShader, in, out, reduceSize)
	case ndarray.ReduceMax:
		return b.runReduce("reduce_max", reduceMaxShader, in, out, reduceSize)
	default:
		return fmt.Errorf("%w: no shader for reduce op %s", ndarray.ErrBackend, op)
	}
}

// Fill writes the scalar to every element on the GPU.
func (b *Backend) Fill(buf *ndarray.Buffer, scalar float64) error {
	if err := checkFloat32(buf); err != nil {
		return err
	}
	return b.runFill(buf, float32(scalar))
}

// Copy copies src into dst. The storage is host-resident, so this is a plain
// memcpy; no device pass is needed.
func (b *Backend) Copy(src, dst *ndarray.Buffer) error {
	if err := ndarray.ValidatePair(src, dst); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	copy(dst.Bytes(), src.Bytes())
	return nil
}
