package cpu

import "github.com/axon-ml/axon/internal/ndarray"

// Float64 chunk kernels, mirrors of the float32 file.

func ewiseChunkFloat64(op ndarray.BinOp, a, b, dst []float64) {
	switch op {
	case ndarray.OpAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case ndarray.OpSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case ndarray.OpMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case ndarray.OpDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	case ndarray.OpMaximum:
		for i := range dst {
			if a[i] > b[i] {
				dst[i] = a[i]
			} else {
				dst[i] = b[i]
			}
		}
	case ndarray.OpEq:
		for i := range dst {
			if a[i] == b[i] {
				dst[i] = 1
			} else {
				dst[i] = 0
			}
		}
	case ndarray.OpGe:
		for i := range dst {
			if a[i] >= b[i] {
				dst[i] = 1
			} else {
				dst[i] = 0
			}
		}
	default:
		panic("unknown binop")
	}
}

func scalarChunkFloat64(op ndarray.BinOp, a []float64, c float64, dst []float64) {
	switch op {
	case ndarray.OpAdd:
		for i := range dst {
			dst[i] = a[i] + c
		}
	case ndarray.OpSub:
		for i := range dst {
			dst[i] = a[i] - c
		}
	case ndarray.OpMul:
		for i := range dst {
			dst[i] = a[i] * c
		}
	case ndarray.OpDiv:
		for i := range dst {
			dst[i] = a[i] / c
		}
	case ndarray.OpMaximum:
		for i := range dst {
			if a[i] > c {
				dst[i] = a[i]
			} else {
				dst[i] = c
			}
		}
	case ndarray.OpEq:
		for i := range dst {
			if a[i] == c {
				dst[i] = 1
			} else {
				dst[i] = 0
			}
		}
	case ndarray.OpGe:
		for i := range dst {
			if a[i] >= c {
				dst[i] = 1
			} else {
				dst[i] = 0
			}
		}
	default:
		panic("unknown binop")
	}
}

func matmulRowsFloat64(c, a, b []float64, rowStart, rowEnd, k, n int) {
	for i := rowStart; i < rowEnd; i++ {
		row := c[i*n : (i+1)*n]
		for j := range row {
			row[j] = 0
		}
		for p := 0; p < k; p++ {
			av := a[i*k+p]
			brow := b[p*n : (p+1)*n]
			for j := range row {
				row[j] += av * brow[j]
			}
		}
	}
}

func reduceBlocksFloat64(op ndarray.ReduceOp, in, out []float64, blockStart, blockEnd, blk int) {
	for o := blockStart; o < blockEnd; o++ {
		block := in[o*blk : (o+1)*blk]
		acc := block[0]
		switch op {
		case ndarray.ReduceSum:
			for _, x := range block[1:] {
				acc += x
			}
		case ndarray.ReduceMax:
			for _, x := range block[1:] {
				if x > acc {
					acc = x
				}
			}
		default:
			panic("unknown reduce op")
		}
		out[o] = acc
	}
}
