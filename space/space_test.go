package space

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/thomaspinder/GeometricKernels/mesh"
)

func completeAdjacency(n int) *mat.SymDense {
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a.SetSym(i, j, 1)
		}
	}
	return a
}

func cycleAdjacency(n int) *mat.SymDense {
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		a.SetSym(i, (i+1)%n, 1)
	}
	return a
}

func TestLaplacian(t *testing.T) {
	lap := Laplacian(completeAdjacency(3))
	want := mat.NewSymDense(3, []float64{
		2, -1, -1,
		-1, 2, -1,
		-1, -1, 2,
	})
	require.True(t, mat.EqualApprox(lap, want, 1e-15))

	// Rows of a Laplacian sum to zero whatever the weights.
	a := mat.NewSymDense(3, []float64{0, 2, 0.5, 2, 0, 1, 0.5, 1, 0})
	lap = Laplacian(a)
	for i := 0; i < 3; i++ {
		sum := 0.0
		for j := 0; j < 3; j++ {
			sum += lap.At(i, j)
		}
		require.InDelta(t, 0, sum, 1e-15)
	}
}

func TestGraphCompleteSpectrum(t *testing.T) {
	// The complete graph K_n has Laplacian spectrum {0, n, ..., n}.
	g, err := NewGraph(completeAdjacency(4))
	require.NoError(t, err)
	require.Equal(t, 4, g.NumPoints())
	require.Equal(t, 0, g.Dimension())

	es, err := g.Eigensystem(4)
	require.NoError(t, err)
	require.Equal(t, machEps, es.Values[0], "zero mode pinned to machine epsilon")
	if diff := cmp.Diff([]float64{0, 4, 4, 4}, es.Values, cmpopts.EquateApprox(0, 1e-10)); diff != "" {
		t.Errorf("K4 spectrum mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphCycleSpectrum(t *testing.T) {
	// The cycle C_n has eigenvalues 2 - 2cos(2 pi k / n).
	const n = 6
	g, err := NewGraph(cycleAdjacency(n))
	require.NoError(t, err)

	es, err := g.Eigensystem(n)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0, 1, 1, 3, 3, 4}, es.Values, cmpopts.EquateApprox(0, 1e-10)); diff != "" {
		t.Errorf("C6 spectrum mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphEigenpairsSolveLaplacian(t *testing.T) {
	a := cycleAdjacency(5)
	g, err := NewGraph(a)
	require.NoError(t, err)

	const levels = 3
	es, err := g.Eigensystem(levels)
	require.NoError(t, err)

	lap := Laplacian(a)
	var lv mat.Dense
	lv.Mul(lap, es.Vectors)
	for l := 0; l < levels; l++ {
		lambda := es.Values[l]
		if l == 0 {
			lambda = 0 // the pinned value is not the numerical eigenvalue
		}
		for i := 0; i < 5; i++ {
			require.InDelta(t, lambda*es.Vectors.At(i, l), lv.At(i, l), 1e-10)
		}
	}

	// Eigenvectors are orthonormal.
	var gram mat.Dense
	gram.Mul(es.Vectors.T(), es.Vectors)
	for i := 0; i < levels; i++ {
		for j := 0; j < levels; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			require.InDelta(t, want, gram.At(i, j), 1e-10)
		}
	}
}

func TestEigensystemLevelBounds(t *testing.T) {
	g, err := NewGraph(completeAdjacency(4))
	require.NoError(t, err)

	for _, levels := range []int{0, -1, 5} {
		_, err := g.Eigensystem(levels)
		require.ErrorIs(t, err, ErrLevels, "levels %d", levels)
	}
}

func TestEigensystemCopiesAreIsolated(t *testing.T) {
	g, err := NewGraph(completeAdjacency(4))
	require.NoError(t, err)

	es, err := g.Eigensystem(3)
	require.NoError(t, err)
	es.Values[1] = -99
	es.Vectors.Set(0, 0, 42)

	again, err := g.Eigensystem(3)
	require.NoError(t, err)
	require.NotEqual(t, -99.0, again.Values[1])
	require.NotEqual(t, 42.0, again.Vectors.At(0, 0))
}

func TestMeshSpaceTetrahedron(t *testing.T) {
	// The tetrahedron's edge graph is K_4, so the vertex space must
	// reproduce the K_4 spectrum.
	verts := []r3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	m, err := mesh.New(verts, [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}})
	require.NoError(t, err)

	s, err := NewMesh(m)
	require.NoError(t, err)
	require.Equal(t, 4, s.NumPoints())
	require.Equal(t, 2, s.Dimension())

	es, err := s.Eigensystem(4)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 4, 4, 4}, es.Values, 1e-10)
}

func TestMeshSpaceSphereConnected(t *testing.T) {
	m, err := mesh.UVSphere(6)
	require.NoError(t, err)

	s, err := NewMesh(m)
	require.NoError(t, err)
	require.Equal(t, m.NumVertices(), s.NumPoints())

	es, err := s.Eigensystem(5)
	require.NoError(t, err)
	require.Equal(t, machEps, es.Values[0])
	// A connected mesh has a simple zero eigenvalue.
	require.Greater(t, es.Values[1], 1e-8)
	for l := 1; l < len(es.Values); l++ {
		require.GreaterOrEqual(t, es.Values[l], es.Values[l-1])
	}
}

func TestCircleEigensystem(t *testing.T) {
	const n = 16
	c, err := NewCircle(n)
	require.NoError(t, err)
	require.Equal(t, n, c.NumPoints())
	require.Equal(t, 1, c.Dimension())

	es, err := c.Eigensystem(5)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 1, 4, 4}, es.Values)

	// Columns are orthogonal with squared norm n on the uniform grid.
	var gram mat.Dense
	gram.Mul(es.Vectors.T(), es.Vectors)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			want := 0.0
			if i == j {
				want = float64(n)
			}
			require.InDelta(t, want, gram.At(i, j), 1e-10, "gram(%d,%d)", i, j)
		}
	}

	// First point is theta=0: constant 1, cos terms sqrt(2), sin terms 0.
	require.InDelta(t, 1, es.Vectors.At(0, 0), 1e-15)
	require.InDelta(t, math.Sqrt2, es.Vectors.At(0, 1), 1e-15)
	require.InDelta(t, 0, es.Vectors.At(0, 2), 1e-15)
}

func TestCircleEvenLevels(t *testing.T) {
	c, err := NewCircle(16)
	require.NoError(t, err)

	_, err = c.Eigensystem(4)
	require.ErrorIs(t, err, ErrEvenLevels)
	_, err = c.Eigensystem(0)
	require.ErrorIs(t, err, ErrLevels)
	_, err = c.Eigensystem(17)
	require.ErrorIs(t, err, ErrLevels)
}

func TestCircleNeedsPoints(t *testing.T) {
	_, err := NewCircle(0)
	require.ErrorIs(t, err, ErrPoints)
}
