package space

import (
	"gonum.org/v1/gonum/mat"

	"github.com/thomaspinder/GeometricKernels/mesh"
)

// Compile-time interface check.
var _ DiscreteSpectrum = (*Mesh)(nil)

// Mesh is the vertex set of a triangle mesh. Its Laplacian is the
// combinatorial graph Laplacian of the mesh's edge graph with unit
// weights, so the eigensystem depends on connectivity only.
type Mesh struct {
	spectrum
}

// NewMesh builds the vertex space of m and eagerly diagonalizes its
// Laplacian. For a mesh with thousands of vertices this is the
// dominant cost of kernel construction.
func NewMesh(m *mesh.Mesh) (*Mesh, error) {
	n := m.NumVertices()
	adjacency := mat.NewSymDense(n, nil)
	for _, e := range m.Edges() {
		adjacency.SetSym(e[0], e[1], 1)
	}
	s, err := newSpectrum(Laplacian(adjacency))
	if err != nil {
		return nil, err
	}
	return &Mesh{spectrum: s}, nil
}

// Dimension returns 2, the dimension of the triangulated surface.
func (m *Mesh) Dimension() int {
	return 2
}
