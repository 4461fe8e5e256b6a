package model

// Config fixes the numerical choices of a posterior. It is immutable
// once passed to NewPosterior; there is no process-wide registry of
// transforms or jitters.
type Config struct {
	// Jitter is added to the diagonal of every training covariance
	// before factorization.
	Jitter float64
	// Transform maps positive parameters to the unconstrained
	// coordinates used by gradients and fitting.
	Transform Transform
}

// DefaultConfig returns the standard configuration: 1e-6 jitter and
// the softplus transform.
func DefaultConfig() Config {
	return Config{Jitter: 1e-6, Transform: Softplus{}}
}
