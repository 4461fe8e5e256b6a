package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/thomaspinder/GeometricKernels/kern"
)

// indefKernel reports an indefinite covariance, which no jitter in use
// here can repair.
type indefKernel struct{ n int }

func (k indefKernel) NumPoints() int { return k.n }

func (k indefKernel) GramSym(_ kern.Params, x []int) (*mat.SymDense, error) {
	g := mat.NewSymDense(len(x), nil)
	for i := 0; i+1 < len(x); i++ {
		g.SetSym(i, i+1, 2)
	}
	return g, nil
}

func (k indefKernel) Gram(_ kern.Params, x1, x2 []int) (*mat.Dense, error) {
	return mat.NewDense(len(x1), len(x2), nil), nil
}

func (k indefKernel) Diag(_ kern.Params, x []int) ([]float64, error) {
	return make([]float64, len(x)), nil
}

func (k indefKernel) GramGrad(_ kern.Params, x []int) (*kern.GramGrads, error) {
	n := len(x)
	return &kern.GramGrads{
		Variance:    mat.NewSymDense(n, nil),
		Lengthscale: mat.NewSymDense(n, nil),
		Nu:          mat.NewSymDense(n, nil),
	}, nil
}

func testParams() Params {
	return Params{
		Variance:    MustPositive(1.3),
		Lengthscale: MustPositive(0.7),
		Nu:          MustPositive(1.5),
		Noise:       MustPositive(0.2),
		Mean:        0.4,
	}
}

func TestLogMarginalLikelihoodMatchesDenseAlgebra(t *testing.T) {
	k, data := sphereSetup(t)
	post := posteriorOver(t, k, ConstantMean, DefaultConfig())
	p := testParams()

	mll, err := post.LogMarginalLikelihood(p, data)
	require.NoError(t, err)
	require.True(t, mll < 0)

	// Recompute with plain LU algebra, independent of the Cholesky path.
	g, err := k.GramSym(p.Kernel(), data.X)
	require.NoError(t, err)
	n := data.NumData()
	kmat := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			kmat.Set(i, j, g.At(i, j))
		}
		kmat.Set(i, i, kmat.At(i, i)+p.Noise.Value()+post.Config().Jitter)
	}
	r := mat.NewVecDense(n, nil)
	for i, y := range data.Y {
		r.SetVec(i, y-p.Mean)
	}
	var lu mat.LU
	lu.Factorize(kmat)
	logdet, sign := lu.LogDet()
	require.Equal(t, 1.0, sign)
	var sol mat.VecDense
	require.NoError(t, lu.SolveVecTo(&sol, false, r))
	want := -0.5*mat.Dot(r, &sol) - 0.5*logdet - 0.5*float64(n)*math.Log(2*math.Pi)

	require.InDelta(t, want, mll, 1e-9)
}

func TestLogMarginalLikelihoodDeterministic(t *testing.T) {
	k, data := sphereSetup(t)
	post := posteriorOver(t, k, ConstantMean, DefaultConfig())
	p := testParams()

	mll1, g1, err := post.LogMarginalLikelihoodGrad(p, data)
	require.NoError(t, err)
	mll2, g2, err := post.LogMarginalLikelihoodGrad(p, data)
	require.NoError(t, err)

	require.Equal(t, mll1, mll2)
	require.Equal(t, g1, g2)
}

func TestGradMatchesFiniteDifferences(t *testing.T) {
	k, data := sphereSetup(t)
	cases := []struct {
		name string
		mean Mean
		tr   Transform
	}{
		{"zero-softplus", ZeroMean, Softplus{}},
		{"constant-softplus", ConstantMean, Softplus{}},
		{"constant-exp", ConstantMean, Exp{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post := posteriorOver(t, k, tc.mean, Config{Jitter: 1e-6, Transform: tc.tr})
			p := testParams()

			mll, g, err := post.LogMarginalLikelihoodGrad(p, data)
			require.NoError(t, err)
			direct, err := post.LogMarginalLikelihood(p, data)
			require.NoError(t, err)
			require.InDelta(t, direct, mll, 1e-12)

			raw := p.raw(tc.tr)
			want := fd.Gradient(nil, func(x []float64) float64 {
				v, err := post.LogMarginalLikelihood(fromRaw(x, tc.tr), data)
				require.NoError(t, err)
				return v
			}, raw, central)

			got := g.raw()
			require.Len(t, got, len(want))
			for i := range want {
				require.InDelta(t, want[i], got[i], 1e-5, "raw coordinate %d", i)
			}
			if tc.mean == ZeroMean {
				require.Zero(t, g.Mean)
			} else {
				require.NotZero(t, g.Mean)
			}
		})
	}
}

func TestObjectiveNegation(t *testing.T) {
	k, data := sphereSetup(t)
	post := posteriorOver(t, k, ConstantMean, DefaultConfig())
	p := testParams()

	plain := post.Objective(data, false)
	negated := post.Objective(data, true)

	v1, g1, err := plain(p)
	require.NoError(t, err)
	v2, g2, err := negated(p)
	require.NoError(t, err)

	require.Equal(t, v1, -v2)
	require.Equal(t, g1.raw(), g2.scale(-1).raw())
}

func TestIndefiniteCovarianceIsNumericalError(t *testing.T) {
	post := posteriorOver(t, indefKernel{n: 10}, ZeroMean, DefaultConfig())
	data, err := NewDataset([]int{0, 1, 2}, []float64{1, -1, 0.5})
	require.NoError(t, err)

	_, err = post.LogMarginalLikelihood(testParams(), data)
	require.ErrorIs(t, err, ErrNumerical)
	_, _, err = post.LogMarginalLikelihoodGrad(testParams(), data)
	require.ErrorIs(t, err, ErrNumerical)
	_, _, err = post.Predict(testParams(), data, []int{3})
	require.ErrorIs(t, err, ErrNumerical)
}

func TestInvalidParametersSurface(t *testing.T) {
	k, data := sphereSetup(t)
	post := posteriorOver(t, k, ZeroMean, DefaultConfig())

	// An underflowed transform output is an invalid kernel parameter.
	p := fromRaw([]float64{-1e9, 0, 0, 0, 0}, Softplus{})
	_, err := post.LogMarginalLikelihood(p, data)
	require.ErrorIs(t, err, kern.ErrInvalidParameter)

	// A zero-valued Positive never passed through a constructor.
	q := testParams()
	q.Noise = Positive{}
	_, err = post.LogMarginalLikelihood(q, data)
	require.ErrorIs(t, err, ErrInvalidParameter)
}
