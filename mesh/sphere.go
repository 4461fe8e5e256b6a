package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// UVSphere triangulates the unit sphere with `resolution` longitudinal
// segments and resolution-1 latitude rings between the poles, giving
// resolution*(resolution-1)+2 vertices and 2*resolution*(resolution-1)
// triangles. The resolution must be at least 3.
func UVSphere(resolution int) (*Mesh, error) {
	if resolution < 3 {
		return nil, fmt.Errorf("%w: uv sphere needs resolution >= 3, got %d", ErrResolution, resolution)
	}
	cols := resolution
	rings := resolution - 1

	vertices := make([]r3.Vec, 0, cols*rings+2)
	vertices = append(vertices, r3.Vec{X: 0, Y: 0, Z: 1}) // north pole
	for i := 1; i <= rings; i++ {
		polar := math.Pi * float64(i) / float64(resolution)
		sin, cos := math.Sincos(polar)
		for j := 0; j < cols; j++ {
			azimuth := 2 * math.Pi * float64(j) / float64(cols)
			sinA, cosA := math.Sincos(azimuth)
			vertices = append(vertices, r3.Vec{X: sin * cosA, Y: sin * sinA, Z: cos})
		}
	}
	vertices = append(vertices, r3.Vec{X: 0, Y: 0, Z: -1}) // south pole
	south := len(vertices) - 1

	// ring i in [0, rings), column j in [0, cols).
	idx := func(i, j int) int { return 1 + i*cols + j%cols }

	faces := make([][3]int, 0, 2*cols*rings)
	for j := 0; j < cols; j++ { // north cap
		faces = append(faces, [3]int{0, idx(0, j), idx(0, j+1)})
	}
	for i := 0; i < rings-1; i++ { // quads split into two triangles
		for j := 0; j < cols; j++ {
			a, b := idx(i, j), idx(i, j+1)
			c, d := idx(i+1, j), idx(i+1, j+1)
			faces = append(faces, [3]int{a, c, d}, [3]int{a, d, b})
		}
	}
	for j := 0; j < cols; j++ { // south cap
		faces = append(faces, [3]int{south, idx(rings-1, j+1), idx(rings-1, j)})
	}
	return New(vertices, faces)
}

// Icosahedron layout: 12 vertices on three orthogonal golden rectangles,
// 20 counterclockwise (outward) faces.
var (
	icoVertices = func() []r3.Vec {
		t := (1 + math.Sqrt(5)) / 2
		return []r3.Vec{
			{X: -1, Y: t, Z: 0}, {X: 1, Y: t, Z: 0}, {X: -1, Y: -t, Z: 0}, {X: 1, Y: -t, Z: 0},
			{X: 0, Y: -1, Z: t}, {X: 0, Y: 1, Z: t}, {X: 0, Y: -1, Z: -t}, {X: 0, Y: 1, Z: -t},
			{X: t, Y: 0, Z: -1}, {X: t, Y: 0, Z: 1}, {X: -t, Y: 0, Z: -1}, {X: -t, Y: 0, Z: 1},
		}
	}()
	icoFaces = [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// IcoSphere triangulates the unit sphere by splitting every icosahedron
// face into frequency^2 triangles on a barycentric lattice and projecting
// the lattice onto the sphere, giving 10*frequency^2+2 vertices and
// 20*frequency^2 triangles. Vertices shared between faces are indexed
// once, so the resulting mesh is watertight. The frequency must be at
// least 1; frequency 1 is the icosahedron itself.
func IcoSphere(frequency int) (*Mesh, error) {
	if frequency < 1 {
		return nil, fmt.Errorf("%w: ico sphere needs frequency >= 1, got %d", ErrResolution, frequency)
	}
	f := frequency

	vertices := make([]r3.Vec, 0, 10*f*f+2)
	for _, v := range icoVertices {
		vertices = append(vertices, r3.Unit(v))
	}

	// Interior points of each icosahedron edge, indexed once and shared
	// by the two incident faces. Keyed by the edge {lo, hi}; points run
	// from lo to hi.
	edgePoints := make(map[[2]int][]int, 30)
	edgeKey := func(a, b int) ([2]int, bool) {
		if a < b {
			return [2]int{a, b}, false
		}
		return [2]int{b, a}, true
	}
	lattice := func(a, b int, s int) r3.Vec {
		// Point s/f of the way from corner a to corner b, on the sphere.
		p := r3.Add(r3.Scale(float64(f-s), icoVertices[a]), r3.Scale(float64(s), icoVertices[b]))
		return r3.Unit(p)
	}
	for _, face := range icoFaces {
		for i := 0; i < 3; i++ {
			a, b := face[i], face[(i+1)%3]
			key, _ := edgeKey(a, b)
			if _, ok := edgePoints[key]; ok {
				continue
			}
			pts := make([]int, 0, f-1)
			for s := 1; s < f; s++ {
				vertices = append(vertices, lattice(key[0], key[1], s))
				pts = append(pts, len(vertices)-1)
			}
			edgePoints[key] = pts
		}
	}

	faces := make([][3]int, 0, 20*f*f)
	for _, face := range icoFaces {
		a, b, c := face[0], face[1], face[2]

		// Index grid over the barycentric lattice of this face:
		// local(i, j) has weights (f-i-j, i, j) on corners (a, b, c).
		local := make([][]int, f+1)
		for i := range local {
			local[i] = make([]int, f+1-i)
		}
		local[0][0] = a
		local[f][0] = b
		local[0][f] = c
		edge := func(u, v, s int) int {
			key, flipped := edgeKey(u, v)
			if flipped {
				s = f - s
			}
			return edgePoints[key][s-1]
		}
		for s := 1; s < f; s++ {
			local[s][0] = edge(a, b, s)   // edge a->b
			local[0][s] = edge(a, c, s)   // edge a->c
			local[f-s][s] = edge(b, c, s) // edge b->c
		}
		for i := 1; i < f; i++ { // interior points belong to this face only
			for j := 1; j < f-i; j++ {
				p := r3.Add(r3.Add(
					r3.Scale(float64(f-i-j), icoVertices[a]),
					r3.Scale(float64(i), icoVertices[b])),
					r3.Scale(float64(j), icoVertices[c]))
				vertices = append(vertices, r3.Unit(p))
				local[i][j] = len(vertices) - 1
			}
		}

		for i := 0; i < f; i++ {
			for j := 0; j < f-i; j++ {
				faces = append(faces, [3]int{local[i][j], local[i+1][j], local[i][j+1]})
				if i+j < f-1 {
					faces = append(faces, [3]int{local[i+1][j], local[i+1][j+1], local[i][j+1]})
				}
			}
		}
	}
	return New(vertices, faces)
}
