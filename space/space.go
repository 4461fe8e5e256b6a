// Package space provides spaces with a known discrete spectrum: finite
// point sets together with the leading eigenpairs of their Laplacian.
// Mesh and Graph spaces diagonalize a combinatorial graph Laplacian,
// the Circle uses its analytic Fourier eigensystem. Geometric kernels
// are built from truncations of these eigensystems.
package space

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNumerical indicates the Laplacian eigendecomposition failed
	// to converge.
	ErrNumerical = errors.New("space: eigendecomposition failed")
	// ErrLevels indicates a requested truncation outside [1, NumPoints].
	ErrLevels = errors.New("space: invalid number of levels")
	// ErrEvenLevels indicates an even truncation on a space whose
	// eigenfunctions come in two-per-level pairs past the constant.
	ErrEvenLevels = errors.New("space: number of levels must be odd")
	// ErrPoints indicates a discretization with no points.
	ErrPoints = errors.New("space: invalid number of points")
)

// machEps is the double precision machine epsilon the zero eigenvalue
// is pinned to.
const machEps = 0x1p-52

// Eigensystem holds the leading eigenpairs of a space's Laplacian.
type Eigensystem struct {
	// Values are the eigenvalues in ascending order.
	Values []float64
	// Vectors is NumPoints x len(Values): column l holds the
	// eigenfunction of Values[l] evaluated at every point.
	Vectors *mat.Dense
}

// A DiscreteSpectrum is a space discretized to finitely many points
// with computable Laplacian eigenpairs. Implementations are not safe
// for concurrent use.
type DiscreteSpectrum interface {
	// NumPoints returns the number of points in the discretization.
	NumPoints() int
	// Dimension returns the dimension of the underlying space. It
	// enters the spectral exponent of Matérn kernels.
	Dimension() int
	// Eigensystem returns the eigenpairs of the `levels` smallest
	// Laplacian eigenvalues.
	Eigensystem(levels int) (*Eigensystem, error)
}

// spectrum caches the full eigendecomposition of a Laplacian, computed
// once at construction, and serves truncations of it.
type spectrum struct {
	vals []float64
	vecs *mat.Dense
}

func newSpectrum(laplacian *mat.SymDense) (spectrum, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(laplacian, true); !ok {
		return spectrum{}, ErrNumerical
	}
	vals := eig.Values(nil)
	// The lowest eigenvalue is zero up to roundoff and can come out
	// slightly negative; pin it.
	vals[0] = machEps
	vecs := new(mat.Dense)
	eig.VectorsTo(vecs)
	return spectrum{vals: vals, vecs: vecs}, nil
}

// NumPoints returns the number of points in the discretization.
func (s *spectrum) NumPoints() int {
	return len(s.vals)
}

// Eigensystem returns copies of the `levels` leading eigenpairs, so
// callers cannot corrupt the cache.
func (s *spectrum) Eigensystem(levels int) (*Eigensystem, error) {
	n := len(s.vals)
	if levels < 1 || levels > n {
		return nil, fmt.Errorf("%w: want 1 to %d, got %d", ErrLevels, n, levels)
	}
	vals := make([]float64, levels)
	copy(vals, s.vals)
	vecs := new(mat.Dense)
	vecs.CloneFrom(s.vecs.Slice(0, n, 0, levels))
	return &Eigensystem{Values: vals, Vectors: vecs}, nil
}
