package space

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Compile-time interface check.
var _ DiscreteSpectrum = (*Circle)(nil)

// Circle is the circle discretized to equally spaced angles. Its
// eigensystem is analytic: the Fourier basis 1, sqrt(2)*cos(l*theta),
// sqrt(2)*sin(l*theta) with eigenvalue l*l shared by the cos/sin pair
// of each level, so no matrix decomposition is involved.
type Circle struct {
	thetas []float64
}

// NewCircle discretizes the circle to n equally spaced angles starting
// at zero.
func NewCircle(n int) (*Circle, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: circle needs at least one point, got %d", ErrPoints, n)
	}
	thetas := make([]float64, n)
	for i := range thetas {
		thetas[i] = 2 * math.Pi * float64(i) / float64(n)
	}
	return &Circle{thetas: thetas}, nil
}

// NumPoints returns the number of angles in the discretization.
func (c *Circle) NumPoints() int {
	return len(c.thetas)
}

// Dimension returns 1.
func (c *Circle) Dimension() int {
	return 1
}

// Eigensystem evaluates the Fourier eigensystem at the discretization
// angles. Past the constant, eigenfunctions come in cos/sin pairs per
// level, so levels must be odd to close the last level; an even
// request returns ErrEvenLevels.
func (c *Circle) Eigensystem(levels int) (*Eigensystem, error) {
	n := len(c.thetas)
	if levels < 1 || levels > n {
		return nil, fmt.Errorf("%w: want 1 to %d, got %d", ErrLevels, n, levels)
	}
	if levels%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrEvenLevels, levels)
	}

	vals := make([]float64, levels)
	vecs := mat.NewDense(n, levels, nil)
	for i, theta := range c.thetas {
		vecs.Set(i, 0, 1)
		for level := 1; level <= levels/2; level++ {
			freq := float64(level)
			sin, cos := math.Sincos(freq * theta)
			vecs.Set(i, 2*level-1, math.Sqrt2*cos)
			vecs.Set(i, 2*level, math.Sqrt2*sin)
		}
	}
	for level := 1; level <= levels/2; level++ {
		vals[2*level-1] = float64(level) * float64(level)
		vals[2*level] = float64(level) * float64(level)
	}
	return &Eigensystem{Values: vals, Vectors: vecs}, nil
}
