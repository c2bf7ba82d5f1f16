package reference

import "github.com/axon-ml/axon/internal/ndarray"

// scalar is the set of element types kernels loop over.
type scalar interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// ewise runs one operator loop per op tag. The per-op loops keep the switch
// out of the inner loop; other backends must reproduce these exact semantics
// (including comparisons yielding 0/1 in the operand dtype).
func ewise[T scalar](op ndarray.BinOp, a, b, dst []T) {
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

func scalarBinop[T scalar](op ndarray.BinOp, a []T, c T, dst []T) {
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

// matmul computes C[i,j] = sum_p A[i,p] * B[p,j] with the i-p-j loop order,
// accumulating row-wise for cache locality.
func matmul[T scalar](c, a, b []T, m, k, n int) {
	for i := range c {
		c[i] = 0
	}
	for i := 0; i < m; i++ {
		row := c[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := a[i*k+p]
			brow := b[p*n : (p+1)*n]
			for j := range row {
				row[j] += av * brow[j]
			}
		}
	}
}

// reduce collapses each block of blk input elements to one output element,
// accumulating left to right from the block's first element.
func reduce[T scalar](op ndarray.ReduceOp, in, out []T, blk int) {
	for o := range out {
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

func fill[T scalar](dst []T, c T) {
	for i := range dst {
		dst[i] = c
	}
}
