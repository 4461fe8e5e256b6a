package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/thomaspinder/GeometricKernels/kern"
	"github.com/thomaspinder/GeometricKernels/utils"
)

// Kernel is the covariance surface the model consumes.
type Kernel interface {
	NumPoints() int
	Gram(p kern.Params, x1, x2 []int) (*mat.Dense, error)
	GramSym(p kern.Params, x []int) (*mat.SymDense, error)
	Diag(p kern.Params, x []int) ([]float64, error)
	GramGrad(p kern.Params, x []int) (*kern.GramGrads, error)
}

// Check that the Matérn kernel satisfies Kernel.
var _ Kernel = (*kern.MaternKL)(nil)

// Prior couples a kernel with a mean function.
type Prior struct {
	Kernel Kernel
	Mean   Mean
}

// GaussianLikelihood is the homoscedastic Gaussian observation model.
// Its noise variance lives in Params.Noise.
type GaussianLikelihood struct{}

// Posterior is the conjugate composition of a prior and a Gaussian
// likelihood. It holds no state besides its configuration; parameters
// and data are arguments to every operation.
type Posterior struct {
	prior Prior
	lik   GaussianLikelihood
	cfg   Config
}

// NewPosterior composes a prior and a Gaussian likelihood under the
// given configuration.
func NewPosterior(prior Prior, lik GaussianLikelihood, cfg Config) (*Posterior, error) {
	if prior.Kernel == nil {
		return nil, fmt.Errorf("%w: prior has no kernel", ErrInvalidParameter)
	}
	if cfg.Transform == nil {
		return nil, fmt.Errorf("%w: config has no transform", ErrInvalidParameter)
	}
	if !(cfg.Jitter >= 0) || math.IsInf(cfg.Jitter, 1) {
		return nil, fmt.Errorf("%w: jitter = %v, want finite and non-negative", ErrInvalidParameter, cfg.Jitter)
	}
	return &Posterior{prior: prior, lik: lik, cfg: cfg}, nil
}

// Config returns the posterior's configuration.
func (post *Posterior) Config() Config { return post.cfg }

func (post *Posterior) meanValue(p Params) float64 {
	if post.prior.Mean == ConstantMean {
		return p.Mean
	}
	return 0
}

// residual returns y minus the prior mean at the observation points.
func (post *Posterior) residual(p Params, data Dataset) *mat.VecDense {
	r := mat.NewVecDense(data.NumData(), nil)
	m := post.meanValue(p)
	for i, y := range data.Y {
		r.SetVec(i, y-m)
	}
	return r
}

// trainingFactors factorizes K = Gram(X, X) + (noise + jitter) I and
// returns the factorization, alpha = K^-1 (y - m), and the residual.
func (post *Posterior) trainingFactors(p Params, data Dataset) (*mat.Cholesky, *mat.VecDense, *mat.VecDense, error) {
	g, err := post.prior.Kernel.GramSym(p.Kernel(), data.X)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := validateNoise(p.Noise.Value()); err != nil {
		return nil, nil, nil, err
	}
	utils.AddToDiag(g, p.Noise.Value()+post.cfg.Jitter)

	chol := new(mat.Cholesky)
	if ok := chol.Factorize(g); !ok {
		return nil, nil, nil, fmt.Errorf("%w: training covariance not positive definite", ErrNumerical)
	}
	r := post.residual(p, data)
	alpha := new(mat.VecDense)
	if err := chol.SolveVecTo(alpha, r); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: training covariance solve: %v", ErrNumerical, err)
	}
	return chol, alpha, r, nil
}

func validateNoise(noise float64) error {
	if !(noise > 0) || math.IsInf(noise, 1) {
		return fmt.Errorf("%w: noise = %v, want positive and finite", ErrInvalidParameter, noise)
	}
	return nil
}

// LogMarginalLikelihood evaluates the closed-form Gaussian marginal
// log likelihood of data under the parameters:
//
//	-1/2 r^T K^-1 r - 1/2 log|K| - n/2 log(2 pi)
//
// with r = y - m and K the noisy training covariance.
func (post *Posterior) LogMarginalLikelihood(p Params, data Dataset) (float64, error) {
	chol, alpha, r, err := post.trainingFactors(p, data)
	if err != nil {
		return 0, err
	}
	n := float64(data.NumData())
	return -0.5*mat.Dot(r, alpha) - 0.5*chol.LogDet() - 0.5*n*math.Log(2*math.Pi), nil
}

// LogMarginalLikelihoodGrad evaluates the marginal log likelihood and
// its gradient with respect to every parameter. The gradient is
// reported in the unconstrained coordinates of the configured
// transform, which is what fitting operates in. For each covariance
// parameter theta it uses
//
//	d mll / d theta = 1/2 tr((alpha alpha^T - K^-1) dK/dtheta)
//
// and the chain rule through the transform.
func (post *Posterior) LogMarginalLikelihoodGrad(p Params, data Dataset) (float64, Grad, error) {
	chol, alpha, r, err := post.trainingFactors(p, data)
	if err != nil {
		return 0, Grad{}, err
	}
	n := float64(data.NumData())
	mll := -0.5*mat.Dot(r, alpha) - 0.5*chol.LogDet() - 0.5*n*math.Log(2*math.Pi)

	grads, err := post.prior.Kernel.GramGrad(p.Kernel(), data.X)
	if err != nil {
		return 0, Grad{}, err
	}
	kinv := new(mat.SymDense)
	if err := chol.InverseTo(kinv); err != nil {
		return 0, Grad{}, fmt.Errorf("%w: training covariance inverse: %v", ErrNumerical, err)
	}

	quad := func(dk *mat.SymDense) float64 {
		var tmp mat.VecDense
		tmp.MulVec(dk, alpha)
		return 0.5 * (mat.Dot(alpha, &tmp) - utils.TraceProd(kinv, dk))
	}
	g := Grad{
		Variance:    quad(grads.Variance),
		Lengthscale: quad(grads.Lengthscale),
		Nu:          quad(grads.Nu),
		// dK/dnoise = I.
		Noise: 0.5 * (mat.Dot(alpha, alpha) - mat.Trace(kinv)),
	}
	if post.prior.Mean == ConstantMean {
		// d mll / d m = sum_i alpha_i.
		g.Mean = mat.Sum(alpha)
	}

	tr := post.cfg.Transform
	g.Variance *= tr.Deriv(tr.Inverse(p.Variance.Value()))
	g.Lengthscale *= tr.Deriv(tr.Inverse(p.Lengthscale.Value()))
	g.Nu *= tr.Deriv(tr.Inverse(p.Nu.Value()))
	g.Noise *= tr.Deriv(tr.Inverse(p.Noise.Value()))
	return mll, g, nil
}

// Objective returns the marginal log likelihood of data as a function
// of the parameters alone, negated when negate is true so minimizers
// can consume it directly.
func (post *Posterior) Objective(data Dataset, negate bool) func(Params) (float64, Grad, error) {
	sign := 1.0
	if negate {
		sign = -1
	}
	return func(p Params) (float64, Grad, error) {
		mll, g, err := post.LogMarginalLikelihoodGrad(p, data)
		if err != nil {
			return 0, Grad{}, err
		}
		return sign * mll, g.scale(sign), nil
	}
}
