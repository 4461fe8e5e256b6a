// Package model builds conjugate Gaussian process models over discrete
// spaces: a prior (kernel plus mean function) combined with a Gaussian
// likelihood into a posterior that exposes the marginal log likelihood,
// its gradient, and predictive moments. All methods are pure functions
// of the parameters passed in, so optimizers can probe them freely.
package model

import "errors"

var (
	// ErrNumerical indicates a factorization or solve failed; typically
	// the training covariance was not positive definite despite jitter.
	ErrNumerical = errors.New("model: numerical failure")
	// ErrShapeMismatch indicates observation vectors of unequal length.
	ErrShapeMismatch = errors.New("model: shape mismatch")
	// ErrInvalidParameter indicates a parameter or configuration value
	// outside its domain.
	ErrInvalidParameter = errors.New("model: invalid parameter")
)
