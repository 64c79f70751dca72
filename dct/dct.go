// Package dct implements the fixed 8x8 separable orthonormal DCT-II/DCT-III
// transform pair the watermark codec perturbs one coefficient of. It is
// deliberately a bare 8-point cosine-table transform rather than a general
// FFT-backed implementation: the watermark codec never needs any block size
// other than 8x8.
package dct

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// N is the fixed block dimension this package transforms.
const N = 8

// basis is the NxN orthonormal DCT-II basis matrix: basis[k][n] =
// alpha(k) * cos(pi/N * (n+0.5) * k). Its transpose is the orthonormal
// DCT-III (inverse) matrix, since an orthonormal DCT is its own adjoint
// inverse.
var basis *mat.Dense

func init() {
	basis = mat.NewDense(N, N, nil)
	for k := 0; k < N; k++ {
		alpha := math.Sqrt(2.0 / float64(N))
		if k == 0 {
			alpha = math.Sqrt(1.0 / float64(N))
		}
		for n := 0; n < N; n++ {
			basis.Set(k, n, alpha*math.Cos(math.Pi/float64(N)*(float64(n)+0.5)*float64(k)))
		}
	}
}

// Block is an 8x8 block of samples, row-major.
type Block [N][N]float64

// Forward8x8 applies the 2-D orthonormal DCT-II: C . X . C^T, equivalent to
// transforming rows then columns with norm='ortho' scaling.
func Forward8x8(block Block) Block {
	x := mat.NewDense(N, N, flatten(block))
	var tmp, z mat.Dense
	tmp.Mul(basis, x)
	z.Mul(&tmp, basis.T())
	return unflatten(&z)
}

// Inverse8x8 applies the 2-D orthonormal DCT-III: C^T . Z . C, the exact
// inverse of Forward8x8 in real arithmetic.
func Inverse8x8(block Block) Block {
	z := mat.NewDense(N, N, flatten(block))
	var tmp, x mat.Dense
	tmp.Mul(basis.T(), z)
	x.Mul(&tmp, basis)
	return unflatten(&x)
}

func flatten(b Block) []float64 {
	out := make([]float64, N*N)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			out[i*N+j] = b[i][j]
		}
	}
	return out
}

func unflatten(m *mat.Dense) Block {
	var out Block
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
