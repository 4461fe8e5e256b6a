package space

import (
	"gonum.org/v1/gonum/mat"
)

// Compile-time interface check.
var _ DiscreteSpectrum = (*Graph)(nil)

// Graph is the node set of a weighted undirected graph. Its Laplacian
// is the combinatorial one, degree minus adjacency.
type Graph struct {
	spectrum
}

// NewGraph builds the node space of the graph with the given adjacency
// matrix and eagerly diagonalizes its Laplacian. Symmetry of the
// adjacency is guaranteed by the argument type.
func NewGraph(adjacency *mat.SymDense) (*Graph, error) {
	s, err := newSpectrum(Laplacian(adjacency))
	if err != nil {
		return nil, err
	}
	return &Graph{spectrum: s}, nil
}

// Dimension returns 0. Spectral kernel formulas reduce to the pure
// eigenvalue power on graphs.
func (g *Graph) Dimension() int {
	return 0
}

// Laplacian returns the combinatorial graph Laplacian D - A, where the
// degree of a node is the sum of its incident edge weights.
func Laplacian(adjacency *mat.SymDense) *mat.SymDense {
	n := adjacency.SymmetricDim()
	lap := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		degree := 0.0
		for j := 0; j < n; j++ {
			degree += adjacency.At(i, j)
		}
		for j := i + 1; j < n; j++ {
			lap.SetSym(i, j, -adjacency.At(i, j))
		}
		lap.SetSym(i, i, degree-adjacency.At(i, i))
	}
	return lap
}
