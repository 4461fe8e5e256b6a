package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// FitOptions control Fit.
type FitOptions struct {
	// MaxIters caps the optimizer's major iterations. Zero means no
	// cap beyond the optimizer's own convergence tests.
	MaxIters int
}

// Fit maximizes the marginal log likelihood of data starting from p0,
// running L-BFGS in the transform's unconstrained coordinates. A
// numerical failure inside the objective surfaces as +Inf, which the
// line search treats as a barrier and backs away from.
func (post *Posterior) Fit(p0 Params, data Dataset, opts FitOptions) (Params, error) {
	tr := post.cfg.Transform
	obj := post.Objective(data, true)

	problem := optimize.Problem{
		Func: func(raw []float64) float64 {
			v, _, err := obj(fromRaw(raw, tr))
			if err != nil {
				return math.Inf(1)
			}
			return v
		},
		Grad: func(grad, raw []float64) {
			_, g, err := obj(fromRaw(raw, tr))
			if err != nil {
				for i := range grad {
					grad[i] = 0
				}
				return
			}
			copy(grad, g.raw())
		},
	}

	settings := &optimize.Settings{}
	if opts.MaxIters > 0 {
		settings.MajorIterations = opts.MaxIters
	}
	result, err := optimize.Minimize(problem, p0.raw(tr), settings, &optimize.LBFGS{})
	if result != nil && result.Status == optimize.IterationLimit {
		// A capped run keeps its best point.
		return fromRaw(result.X, tr), nil
	}
	if err != nil {
		return Params{}, fmt.Errorf("model: fit: %w", err)
	}
	if err := result.Status.Err(); err != nil {
		return Params{}, fmt.Errorf("model: fit: %w", err)
	}
	return fromRaw(result.X, tr), nil
}
