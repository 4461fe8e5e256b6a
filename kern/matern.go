package kern

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/thomaspinder/GeometricKernels/space"
)

// MaternKL is a Matérn kernel on a discrete-spectrum space, truncated
// to its leading Karhunen-Loève levels:
//
//	k(i, j) = sum_l w_l phi_l(i) phi_l(j)
//
// where phi_l are Laplacian eigenfunctions and the weights w_l follow
// the Matérn spectral density of the eigenvalues, normalized so the
// average of k(i, i) over all points of the space equals the variance
// parameter. MaternKL is immutable and cheap to share; parameters are
// passed per call.
type MaternKL struct {
	dim       int
	numPoints int
	vals      []float64
	phi       *mat.Dense
	colNormSq []float64
}

// NewMaternKL builds the kernel over the leading `levels` eigenpairs
// of sp. The eigensystem is fetched once here; Gram evaluations cost
// O(len(x)^2 * levels) afterwards.
func NewMaternKL(sp space.DiscreteSpectrum, levels int) (*MaternKL, error) {
	es, err := sp.Eigensystem(levels)
	if err != nil {
		return nil, err
	}
	colNormSq := make([]float64, levels)
	col := make([]float64, sp.NumPoints())
	for l := 0; l < levels; l++ {
		mat.Col(col, l, es.Vectors)
		colNormSq[l] = floats.Dot(col, col)
	}
	return &MaternKL{
		dim:       sp.Dimension(),
		numPoints: sp.NumPoints(),
		vals:      es.Values,
		phi:       es.Vectors,
		colNormSq: colNormSq,
	}, nil
}

// NumPoints returns the number of points of the underlying space.
func (k *MaternKL) NumPoints() int {
	return k.numPoints
}

// Levels returns the truncation level of the expansion.
func (k *MaternKL) Levels() int {
	return len(k.vals)
}

// weights returns the KL weights w_l = variance * S_l / c with the
// normalizer c = sum_l S_l * ||phi_l||^2 / N, which makes the average
// prior variance over the space equal p.Variance.
func (k *MaternKL) weights(p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := make([]float64, len(k.vals))
	for l, lambda := range k.vals {
		s[l] = maternSpectrum(lambda, p.Lengthscale, p.Nu, k.dim)
	}
	c := floats.Dot(s, k.colNormSq) / float64(k.numPoints)
	w := make([]float64, len(s))
	for l := range w {
		w[l] = p.Variance * s[l] / c
	}
	return w, nil
}

func (k *MaternKL) checkIndices(x []int) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: empty index list", ErrVertexIndex)
	}
	for _, i := range x {
		if i < 0 || i >= k.numPoints {
			return fmt.Errorf("%w: %d, space has %d points", ErrVertexIndex, i, k.numPoints)
		}
	}
	return nil
}

// features returns the rows of Phi * diag(sqrt(w)) at the given
// points, so that features(x1) * features(x2)^T is a Gram matrix.
func (k *MaternKL) features(w []float64, x []int) *mat.Dense {
	b := mat.NewDense(len(x), len(w), nil)
	for r, i := range x {
		for l, wl := range w {
			b.Set(r, l, k.phi.At(i, l)*math.Sqrt(wl))
		}
	}
	return b
}

// Gram returns the cross-covariance matrix between the points x1 and
// x2, with shape len(x1) x len(x2).
func (k *MaternKL) Gram(p Params, x1, x2 []int) (*mat.Dense, error) {
	w, err := k.weights(p)
	if err != nil {
		return nil, err
	}
	if err := k.checkIndices(x1); err != nil {
		return nil, err
	}
	if err := k.checkIndices(x2); err != nil {
		return nil, err
	}
	var g mat.Dense
	g.Mul(k.features(w, x1), k.features(w, x2).T())
	return &g, nil
}

// GramSym returns the covariance matrix of the points x. It is built
// as an outer product B*B^T, so it is symmetric positive semidefinite
// by construction.
func (k *MaternKL) GramSym(p Params, x []int) (*mat.SymDense, error) {
	w, err := k.weights(p)
	if err != nil {
		return nil, err
	}
	if err := k.checkIndices(x); err != nil {
		return nil, err
	}
	var s mat.SymDense
	s.SymOuterK(1, k.features(w, x))
	return &s, nil
}

// Diag returns the prior variances k(i, i) of the points x.
func (k *MaternKL) Diag(p Params, x []int) ([]float64, error) {
	w, err := k.weights(p)
	if err != nil {
		return nil, err
	}
	if err := k.checkIndices(x); err != nil {
		return nil, err
	}
	d := make([]float64, len(x))
	for r, i := range x {
		sum := 0.0
		for l, wl := range w {
			phi := k.phi.At(i, l)
			sum += wl * phi * phi
		}
		d[r] = sum
	}
	return d, nil
}

// GramGrads are the derivatives of GramSym with respect to each
// hyperparameter, evaluated on one vertex set.
type GramGrads struct {
	Variance    *mat.SymDense
	Lengthscale *mat.SymDense
	Nu          *mat.SymDense
}

// GramGrad returns the derivative Gram matrices at x. The weights
// depend on the parameters both through the spectral density and
// through its normalizer, so each derivative follows the quotient
// rule on w_l = variance * S_l / c.
func (k *MaternKL) GramGrad(p Params, x []int) (*GramGrads, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := k.checkIndices(x); err != nil {
		return nil, err
	}

	L := len(k.vals)
	s := make([]float64, L)
	sKappa := make([]float64, L)
	sNu := make([]float64, L)
	for l, lambda := range k.vals {
		s[l] = maternSpectrum(lambda, p.Lengthscale, p.Nu, k.dim)
		sKappa[l], sNu[l] = maternSpectrumGrad(lambda, p.Lengthscale, p.Nu, k.dim)
	}
	n := float64(k.numPoints)
	c := floats.Dot(s, k.colNormSq) / n
	cKappa := floats.Dot(sKappa, k.colNormSq) / n
	cNu := floats.Dot(sNu, k.colNormSq) / n

	dVar := make([]float64, L)
	dKappa := make([]float64, L)
	dNu := make([]float64, L)
	for l := range s {
		dVar[l] = s[l] / c
		dKappa[l] = p.Variance * (sKappa[l]*c - s[l]*cKappa) / (c * c)
		dNu[l] = p.Variance * (sNu[l]*c - s[l]*cNu) / (c * c)
	}
	return &GramGrads{
		Variance:    k.weightedGram(dVar, x),
		Lengthscale: k.weightedGram(dKappa, x),
		Nu:          k.weightedGram(dNu, x),
	}, nil
}

// weightedGram computes Phi_x * diag(w) * Phi_x^T for weights of any
// sign, copying the upper triangle so the result is exactly symmetric.
func (k *MaternKL) weightedGram(w []float64, x []int) *mat.SymDense {
	n := len(x)
	phiX := mat.NewDense(n, len(w), nil)
	phiW := mat.NewDense(n, len(w), nil)
	for r, i := range x {
		for l, wl := range w {
			phiX.Set(r, l, k.phi.At(i, l))
			phiW.Set(r, l, k.phi.At(i, l)*wl)
		}
	}
	var m mat.Dense
	m.Mul(phiW, phiX.T())
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}
	return sym
}
