package rnet

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Weights is a read-only weight matrix behind a uniform mat-vec product.
// Dense and compressed-sparse storage are interchangeable: which one a
// build produces is a size decision, not a semantic one.
type Weights interface {
	// Dims returns the number of rows and columns.
	Dims() (rows, cols int)

	// MulVec computes dst = W * x, with len(dst) == rows, len(x) == cols.
	MulVec(dst, x []float64)

	// NNZ returns the number of nonzero entries.
	NNZ() int
}

// SparseThreshold is the rows*cols element count at which builds switch
// from a dense gonum matrix to compressed sparse rows.
const SparseThreshold = 256 * 256

// BuildRecurrent constructs the N x N recurrent weight matrix: each entry
// is standard normal, kept with probability Sp, and the kept entries are
// scaled by G/sqrt(N*Sp) so the variance of a unit's summed input is
// independent of N and sparsity. The same draws produce the same matrix
// regardless of storage form.
func (pr *Params) BuildRecurrent(rng *rand.Rand) Weights {
	return buildWts(pr.N, pr.N, pr.Sp, pr.G, rng)
}

// BuildInput constructs the N x NIn input weight matrix, same recipe as
// BuildRecurrent with (GIn, SpIn, NIn) in place of (G, Sp, N).
func (pr *Params) BuildInput(rng *rand.Rand) Weights {
	return buildWts(pr.N, pr.NIn, pr.SpIn, pr.GIn, rng)
}

func buildWts(rows, cols int, sp, gain float64, rng *rand.Rand) Weights {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	mask := distuv.Bernoulli{P: sp, Src: rng}
	var scale float64
	if sp > 0 {
		scale = gain / math.Sqrt(float64(cols)*sp)
	}
	if rows*cols < SparseThreshold {
		vals := make([]float64, rows*cols)
		nnz := 0
		for i := range vals {
			v := norm.Rand()
			if mask.Rand() == 1 {
				vals[i] = v * scale
				nnz++
			}
		}
		return &denseWts{m: mat.NewDense(rows, cols, vals), nnz: nnz}
	}
	sw := &sparseWts{rows: rows, cols: cols, rowOff: make([]int, rows+1)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := norm.Rand()
			if mask.Rand() == 1 {
				sw.col = append(sw.col, c)
				sw.val = append(sw.val, v*scale)
			}
		}
		sw.rowOff[r+1] = len(sw.col)
	}
	return sw
}

// denseWts wraps a gonum dense matrix.
type denseWts struct {
	m   *mat.Dense
	nnz int
}

func (dw *denseWts) Dims() (int, int) { return dw.m.Dims() }
func (dw *denseWts) NNZ() int         { return dw.nnz }

func (dw *denseWts) MulVec(dst, x []float64) {
	y := mat.NewVecDense(len(dst), dst)
	y.MulVec(dw.m, mat.NewVecDense(len(x), x))
}

// sparseWts is compressed sparse row storage. gonum's mat package is
// dense-only, so the CSR product is a direct loop.
type sparseWts struct {
	rows, cols int
	rowOff     []int
	col        []int
	val        []float64
}

func (sw *sparseWts) Dims() (int, int) { return sw.rows, sw.cols }
func (sw *sparseWts) NNZ() int         { return len(sw.val) }

func (sw *sparseWts) MulVec(dst, x []float64) {
	for r := 0; r < sw.rows; r++ {
		s := 0.0
		for k := sw.rowOff[r]; k < sw.rowOff[r+1]; k++ {
			s += sw.val[k] * x[sw.col[k]]
		}
		dst[r] = s
	}
}
