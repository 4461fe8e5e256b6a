package model

import "math"

// A Transform is a smooth strictly increasing bijection from the reals
// onto the positive reals. Positive parameters are optimized in the
// transform's unconstrained domain, so no optimizer step can produce
// an invalid covariance.
type Transform interface {
	// Name identifies the transform in logs and config files.
	Name() string
	// Forward maps an unconstrained value to a positive one.
	Forward(x float64) float64
	// Inverse is the inverse of Forward on the positive reals.
	Inverse(v float64) float64
	// Deriv is the derivative of Forward at x.
	Deriv(x float64) float64
}

// Compile-time interface checks.
var (
	_ Transform = Softplus{}
	_ Transform = Exp{}
)

// Softplus is the transform x -> log(1+e^x). Near-linear for large x,
// it keeps optimizer steps in raw coordinates comparable to steps in
// parameter values, which makes it the default.
type Softplus struct{}

// Name returns "softplus".
func (Softplus) Name() string { return "softplus" }

// Forward computes log(1+e^x), evaluated as x + log1p(e^-x) for
// positive x so large values do not overflow.
func (Softplus) Forward(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

// Inverse computes log(e^v - 1) as v + log(1 - e^-v), which stays
// accurate for small and large v alike.
func (Softplus) Inverse(v float64) float64 {
	return v + math.Log(-math.Expm1(-v))
}

// Deriv is the logistic sigmoid.
func (Softplus) Deriv(x float64) float64 {
	if x > 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Exp is the transform x -> e^x. Steps in raw coordinates are
// multiplicative in parameter values.
type Exp struct{}

// Name returns "exp".
func (Exp) Name() string { return "exp" }

func (Exp) Forward(x float64) float64 { return math.Exp(x) }

func (Exp) Inverse(v float64) float64 { return math.Log(v) }

func (Exp) Deriv(x float64) float64 { return math.Exp(x) }
