package model

import (
	"fmt"
	"math"

	"github.com/thomaspinder/GeometricKernels/kern"
)

// Positive holds a strictly positive finite parameter value. The only
// ways to obtain one are the validated constructors and a Transform's
// forward map, so a Params value built from them cannot carry an
// invalid entry.
type Positive struct {
	value float64
}

// NewPositive validates v and wraps it.
func NewPositive(v float64) (Positive, error) {
	if !(v > 0) || math.IsInf(v, 1) {
		return Positive{}, fmt.Errorf("%w: %v, want positive and finite", ErrInvalidParameter, v)
	}
	return Positive{value: v}, nil
}

// MustPositive is NewPositive for literals; it panics on invalid v.
func MustPositive(v float64) Positive {
	p, err := NewPositive(v)
	if err != nil {
		panic(err)
	}
	return p
}

// Value returns the wrapped value.
func (p Positive) Value() float64 { return p.value }

// Params are the trainable parameters of a posterior: the kernel
// hyperparameters, the observation noise variance, and the constant
// prior mean.
type Params struct {
	Variance    Positive
	Lengthscale Positive
	Nu          Positive
	Noise       Positive
	Mean        float64
}

// DefaultParams returns the standard initialization: unit variance,
// lengthscale and noise, smoothness 1.5, zero mean.
func DefaultParams() Params {
	return Params{
		Variance:    MustPositive(1),
		Lengthscale: MustPositive(1),
		Nu:          MustPositive(1.5),
		Noise:       MustPositive(1),
		Mean:        0,
	}
}

// Kernel returns the kernel block of the parameters.
func (p Params) Kernel() kern.Params {
	return kern.Params{
		Variance:    p.Variance.Value(),
		Lengthscale: p.Lengthscale.Value(),
		Nu:          p.Nu.Value(),
	}
}

// raw returns the parameters in the transform's unconstrained
// coordinates, in the fixed order shared with Grad.
func (p Params) raw(tr Transform) []float64 {
	return []float64{
		tr.Inverse(p.Variance.Value()),
		tr.Inverse(p.Lengthscale.Value()),
		tr.Inverse(p.Nu.Value()),
		tr.Inverse(p.Noise.Value()),
		p.Mean,
	}
}

// fromRaw rebuilds parameters from unconstrained coordinates. The
// forward map lands on the positive reals, so no validation is needed
// beyond underflow to zero, which surfaces later as an invalid
// parameter.
func fromRaw(raw []float64, tr Transform) Params {
	return Params{
		Variance:    Positive{value: tr.Forward(raw[0])},
		Lengthscale: Positive{value: tr.Forward(raw[1])},
		Nu:          Positive{value: tr.Forward(raw[2])},
		Noise:       Positive{value: tr.Forward(raw[3])},
		Mean:        raw[4],
	}
}

// Grad is the gradient of the marginal log likelihood with respect to
// each parameter, in the same unconstrained coordinates raw uses.
type Grad struct {
	Variance    float64
	Lengthscale float64
	Nu          float64
	Noise       float64
	Mean        float64
}

func (g Grad) raw() []float64 {
	return []float64{g.Variance, g.Lengthscale, g.Nu, g.Noise, g.Mean}
}

func (g Grad) scale(s float64) Grad {
	return Grad{
		Variance:    s * g.Variance,
		Lengthscale: s * g.Lengthscale,
		Nu:          s * g.Nu,
		Noise:       s * g.Noise,
		Mean:        s * g.Mean,
	}
}
