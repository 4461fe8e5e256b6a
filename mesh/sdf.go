package mesh

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// weldScale quantizes marching cubes output for vertex welding. Cell
// corners are lattice points, so shared corners agree to far better
// than this resolution.
const weldScale = 1e8

// FromSDF3 polygonizes a signed distance field with marching cubes at
// the given cell count and welds the resulting triangle soup into an
// indexed mesh. Triangles that collapse under welding are dropped.
func FromSDF3(s sdf.SDF3, cells int) (*Mesh, error) {
	if cells < 2 {
		return nil, fmt.Errorf("%w: marching cubes needs cells >= 2, got %d", ErrResolution, cells)
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%w: surface not found within the bounding box", ErrNoVertices)
	}

	vertices := make([]r3.Vec, 0, len(triangles))
	faces := make([][3]int, 0, len(triangles))
	index := make(map[[3]int64]int, len(triangles))
	for _, tri := range triangles {
		var face [3]int
		for j := 0; j < 3; j++ {
			v := tri[j]
			key := [3]int64{
				int64(math.Round(v.X * weldScale)),
				int64(math.Round(v.Y * weldScale)),
				int64(math.Round(v.Z * weldScale)),
			}
			i, ok := index[key]
			if !ok {
				i = len(vertices)
				vertices = append(vertices, r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
				index[key] = i
			}
			face[j] = i
		}
		if face[0] == face[1] || face[1] == face[2] || face[2] == face[0] {
			continue
		}
		faces = append(faces, face)
	}
	return New(vertices, faces)
}

// Sphere polygonizes a sphere of the given radius via its signed
// distance field. Unlike UVSphere and IcoSphere the vertex layout
// follows the marching cubes grid, which is the layout a mesh loaded
// from a CAD pipeline would have.
func Sphere(radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("mesh: sphere sdf: %w", err)
	}
	return FromSDF3(s, cells)
}
