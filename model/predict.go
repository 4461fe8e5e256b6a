package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Predict returns the posterior predictive mean and variance of the
// latent function at the query points, by Gaussian conditioning on the
// training data:
//
//	mean_i = m + Kxq[:,i]^T K^-1 (y - m)
//	var_i  = k(q_i, q_i) - Kxq[:,i]^T K^-1 Kxq[:,i]
//
// Observation noise is not added to the returned variances. Truncated
// expansions and roundoff can push a variance marginally below zero;
// such values are clamped to zero.
func (post *Posterior) Predict(p Params, data Dataset, query []int) (mean, variance []float64, err error) {
	chol, alpha, _, err := post.trainingFactors(p, data)
	if err != nil {
		return nil, nil, err
	}
	kp := p.Kernel()
	kxq, err := post.prior.Kernel.Gram(kp, data.X, query)
	if err != nil {
		return nil, nil, err
	}
	priorVar, err := post.prior.Kernel.Diag(kp, query)
	if err != nil {
		return nil, nil, err
	}

	var mu mat.VecDense
	mu.MulVec(kxq.T(), alpha)
	m := post.meanValue(p)
	mean = make([]float64, len(query))
	for i := range mean {
		mean[i] = m + mu.AtVec(i)
	}

	var solved mat.Dense
	if err := chol.SolveTo(&solved, kxq); err != nil {
		return nil, nil, fmt.Errorf("%w: predictive solve: %v", ErrNumerical, err)
	}
	variance = make([]float64, len(query))
	for i := range variance {
		reduction := 0.0
		for j := 0; j < data.NumData(); j++ {
			reduction += kxq.At(j, i) * solved.At(j, i)
		}
		variance[i] = math.Max(0, priorVar[i]-reduction)
	}
	return mean, variance, nil
}
