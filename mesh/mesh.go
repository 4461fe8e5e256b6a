// Package mesh provides triangle meshes of discretized surfaces and
// generators for spheres at a chosen resolution. Meshes are the point
// sets that geometric kernels are defined over: only the vertex list
// and the face connectivity matter, there is no render state.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNoVertices indicates an attempt to build a mesh without vertices.
	ErrNoVertices = errors.New("mesh: mesh must have at least one vertex")
	// ErrFaceIndex indicates a face referencing a vertex outside [0, V).
	ErrFaceIndex = errors.New("mesh: face index out of range")
	// ErrResolution indicates a sphere resolution too small to triangulate.
	ErrResolution = errors.New("mesh: resolution too small")
)

// Mesh is a triangulated surface: an ordered sequence of 3D vertices and
// an ordered sequence of index triples into it. The vertex count is
// fixed at creation; every face index is checked to be a valid vertex
// index by New.
type Mesh struct {
	vertices []r3.Vec
	faces    [][3]int
}

// New builds a mesh from a vertex list and face index triples. It
// returns ErrFaceIndex if any face references a vertex outside the
// vertex list.
func New(vertices []r3.Vec, faces [][3]int) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	for f, face := range faces {
		for _, v := range face {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d, have %d vertices",
					ErrFaceIndex, f, v, len(vertices))
			}
		}
	}
	return &Mesh{vertices: vertices, faces: faces}, nil
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int {
	return len(m.vertices)
}

// NumFaces returns the number of triangles.
func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) r3.Vec {
	return m.vertices[i]
}

// Vertices returns the vertex positions, in index order.
func (m *Mesh) Vertices() []r3.Vec {
	return m.vertices
}

// Faces returns the face index triples.
func (m *Mesh) Faces() [][3]int {
	return m.faces
}

// Edges returns the unique undirected edges of the mesh, each as an
// ordered pair {lo, hi}, sorted lexicographically. The edge set is what
// the mesh contributes to its graph Laplacian.
func (m *Mesh) Edges() [][2]int {
	seen := make(map[[2]int]struct{}, 3*len(m.faces)/2)
	for _, face := range m.faces {
		for i := 0; i < 3; i++ {
			a, b := face[i], face[(i+1)%3]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			seen[[2]int{a, b}] = struct{}{}
		}
	}
	edges := make([][2]int, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}
