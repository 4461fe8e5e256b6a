// Package sample draws synthetic observations from the prior of a
// kernel over a discrete space. Draws are fully determined by the
// random source, so seeded runs reproduce bit for bit.
package sample

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/thomaspinder/GeometricKernels/kern"
	"github.com/thomaspinder/GeometricKernels/utils"
)

// ErrNumerical indicates the prior covariance could not be factorized
// even after jitter was added to its diagonal.
var ErrNumerical = errors.New("sample: covariance factorization failed")

// Kernel is the part of a kernel the sampler needs.
type Kernel interface {
	NumPoints() int
	GramSym(p kern.Params, x []int) (*mat.SymDense, error)
}

// Check that the Matérn kernel satisfies Kernel.
var _ Kernel = (*kern.MaternKL)(nil)

// Indices draws n point indices uniformly with replacement from
// [0, numPoints). numPoints must be positive.
func Indices(src rand.Source, n, numPoints int) []int {
	r := rand.New(src)
	x := make([]int, n)
	for i := range x {
		x[i] = r.IntN(numPoints)
	}
	return x
}

// FromPrior draws one response vector at the points x from the
// zero-mean prior of k: it factorizes Gram(x, x) + jitter*I = L*L^T
// and returns L*z for i.i.d. standard normal z. A factorization
// failure returns ErrNumerical; callers may retry with more jitter.
func FromPrior(k Kernel, p kern.Params, x []int, jitter float64, src rand.Source) ([]float64, error) {
	g, err := k.GramSym(p, x)
	if err != nil {
		return nil, err
	}
	utils.AddToDiag(g, jitter)

	var chol mat.Cholesky
	if ok := chol.Factorize(g); !ok {
		return nil, fmt.Errorf("%w: jitter %g too small for %d points", ErrNumerical, jitter, len(x))
	}
	var l mat.TriDense
	chol.LTo(&l)

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	z := mat.NewVecDense(len(x), nil)
	for i := 0; i < z.Len(); i++ {
		z.SetVec(i, normal.Rand())
	}
	var y mat.VecDense
	y.MulVec(&l, z)
	return y.RawVector().Data, nil
}

// Synthetic draws n observation indices and one correlated response
// vector from the prior of k, all from a PCG stream seeded with seed.
func Synthetic(k Kernel, p kern.Params, n int, jitter float64, seed uint64) (x []int, y []float64, err error) {
	src := rand.NewPCG(seed, seed)
	x = Indices(src, n, k.NumPoints())
	y, err = FromPrior(k, p, x, jitter, src)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}
