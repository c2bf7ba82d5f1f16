// Package cpu implements the kernel contract with float32/float64 loops
// chunked across goroutines for large buffers. Other dtypes delegate to the
// reference backend. Chunking never reorders per-element accumulation, so
// results are bit-identical to the reference backend.
package cpu

import (
	"fmt"

	"github.com/axon-ml/axon/internal/backend/reference"
	"github.com/axon-ml/axon/internal/ndarray"
	"github.com/axon-ml/axon/internal/parallel"
)

// Verify that Backend implements the kernel contract.
var _ ndarray.Backend = (*Backend)(nil)

// Backend computes on the CPU with parallel chunking.
type Backend struct {
	device   ndarray.Device
	cfg      parallel.Config
	fallback *reference.Backend
}

// New creates a CPU backend with the default parallel configuration.
func New() *Backend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *Backend {
	return &Backend{
		device:   ndarray.CPU,
		cfg:      cfg,
		fallback: reference.New(),
	}
}

// Name returns the backend name.
func (c *Backend) Name() string {
	return "cpu"
}

// Device returns the compute device.
func (c *Backend) Device() ndarray.Device {
	return c.device
}

// rowCfg derives a chunking config for loops whose unit of work is a row or
// block of unitSize elements rather than a single element.
func (c *Backend) rowCfg(unitSize int) parallel.Config {
	cfg := c.cfg
	if unitSize > 0 {
		cfg.MinChunkSize = max(1, cfg.MinChunkSize/unitSize)
	}
	return cfg
}

// EwiseBinop applies op elementwise: out[i] = a[i] op b[i].
func (c *Backend) EwiseBinop(op ndarray.BinOp, a, b, out *ndarray.Buffer) error {
	if err := ndarray.ValidateEwise(a, b, out); err != nil {
		return fmt.Errorf("ewise %s: %w", op, err)
	}

	switch out.DType() {
	case ndarray.Float32:
		av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		parallel.Ranges(out.Len(), func(s, e int) {
			ewiseChunkFloat32(op, av[s:e], bv[s:e], ov[s:e])
		}, c.cfg)
		return nil
	case ndarray.Float64:
		av, bv, ov := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
		parallel.Ranges(out.Len(), func(s, e int) {
			ewiseChunkFloat64(op, av[s:e], bv[s:e], ov[s:e])
		}, c.cfg)
		return nil
	default:
		return c.fallback.EwiseBinop(op, a, b, out)
	}
}

// ScalarBinop applies op with a scalar right operand: out[i] = a[i] op scalar.
func (c *Backend) ScalarBinop(op ndarray.BinOp, a *ndarray.Buffer, scalar float64, out *ndarray.Buffer) error {
	if err := ndarray.ValidatePair(a, out); err != nil {
		return fmt.Errorf("scalar %s: %w", op, err)
	}

	switch out.DType() {
	case ndarray.Float32:
		av, ov := a.AsFloat32(), out.AsFloat32()
		s32 := float32(scalar)
		parallel.Ranges(out.Len(), func(s, e int) {
			scalarChunkFloat32(op, av[s:e], s32, ov[s:e])
		}, c.cfg)
		return nil
	case ndarray.Float64:
		av, ov := a.AsFloat64(), out.AsFloat64()
		parallel.Ranges(out.Len(), func(s, e int) {
			scalarChunkFloat64(op, av[s:e], scalar, ov[s:e])
		}, c.cfg)
		return nil
	default:
		return c.fallback.ScalarBinop(op, a, scalar, out)
	}
}

// MatMul computes out = a @ b over row-major flattened operands, parallel
// over output rows.
func (c *Backend) MatMul(a, b, out *ndarray.Buffer, m, k, n int) error {
	if err := ndarray.ValidateMatMul(a, b, out, m, k, n); err != nil {
		return err
	}

	switch out.DType() {
	case ndarray.Float32:
		av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		parallel.Ranges(m, func(s, e int) {
			matmulRowsFloat32(ov, av, bv, s, e, k, n)
		}, c.rowCfg(k*n))
		return nil
	case ndarray.Float64:
		av, bv, ov := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
		parallel.Ranges(m, func(s, e int) {
			matmulRowsFloat64(ov, av, bv, s, e, k, n)
		}, c.rowCfg(k*n))
		return nil
	default:
		return c.fallback.MatMul(a, b, out, m, k, n)
	}
}

// Reduce collapses each contiguous block of reduceSize elements to one
// output element, parallel over blocks.
func (c *Backend) Reduce(op ndarray.ReduceOp, in, out *ndarray.Buffer, reduceSize int) error {
	if err := ndarray.ValidateReduce(in, out, reduceSize); err != nil {
		return fmt.Errorf("reduce %s: %w", op, err)
	}

	switch out.DType() {
	case ndarray.Float32:
		iv, ov := in.AsFloat32(), out.AsFloat32()
		parallel.Ranges(out.Len(), func(s, e int) {
			reduceBlocksFloat32(op, iv, ov, s, e, reduceSize)
		}, c.rowCfg(reduceSize))
		return nil
	case ndarray.Float64:
		iv, ov := in.AsFloat64(), out.AsFloat64()
		parallel.Ranges(out.Len(), func(s, e int) {
			reduceBlocksFloat64(op, iv, ov, s, e, reduceSize)
		}, c.rowCfg(reduceSize))
		return nil
	default:
		return c.fallback.Reduce(op, in, out, reduceSize)
	}
}

// Fill writes the scalar to every element.
func (c *Backend) Fill(buf *ndarray.Buffer, scalar float64) error {
	switch buf.DType() {
	case ndarray.Float32:
		bv := buf.AsFloat32()
		s32 := float32(scalar)
		parallel.Ranges(buf.Len(), func(s, e int) {
			for i := s; i < e; i++ {
				bv[i] = s32
			}
		}, c.cfg)
		return nil
	case ndarray.Float64:
		bv := buf.AsFloat64()
		parallel.Ranges(buf.Len(), func(s, e int) {
			for i := s; i < e; i++ {
				bv[i] = scalar
			}
		}, c.cfg)
		return nil
	default:
		return c.fallback.Fill(buf, scalar)
	}
}

// Copy copies src into dst.
func (c *Backend) Copy(src, dst *ndarray.Buffer) error {
	return c.fallback.Copy(src, dst)
}
