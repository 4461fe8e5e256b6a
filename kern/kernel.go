// Package kern implements Matérn kernels on discrete-spectrum spaces
// via their truncated Karhunen-Loève expansion. A kernel is built once
// per space and truncation; every Gram evaluation takes the
// hyperparameters explicitly, so fitting loops need no kernel
// reconstruction.
package kern

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter indicates a hyperparameter outside its domain.
	ErrInvalidParameter = errors.New("kern: invalid parameter")
	// ErrVertexIndex indicates a point index outside [0, NumPoints).
	ErrVertexIndex = errors.New("kern: vertex index out of range")
)

// Params are the Matérn hyperparameters. All fields must be strictly
// positive and finite.
type Params struct {
	// Variance is the average prior variance over the space's points.
	Variance float64
	// Lengthscale is the kernel lengthscale :math:`\kappa`.
	Lengthscale float64
	// Nu is the smoothness :math:`\nu`. The kernel converges to the
	// squared exponential as :math:`\nu \to \infty`.
	Nu float64
}

// Validate returns ErrInvalidParameter unless every field is strictly
// positive and finite.
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"variance", p.Variance},
		{"lengthscale", p.Lengthscale},
		{"nu", p.Nu},
	} {
		if !(f.value > 0) || math.IsInf(f.value, 1) {
			return fmt.Errorf("%w: %s = %v, want positive and finite", ErrInvalidParameter, f.name, f.value)
		}
	}
	return nil
}
