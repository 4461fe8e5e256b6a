package model

// Mean selects the prior mean function.
type Mean int

const (
	// ZeroMean fixes the prior mean at zero. Params.Mean is ignored
	// and its gradient is zero.
	ZeroMean Mean = iota
	// ConstantMean uses the trainable constant Params.Mean.
	ConstantMean
)

// String returns the mean function's name.
func (m Mean) String() string {
	switch m {
	case ZeroMean:
		return "zero"
	case ConstantMean:
		return "constant"
	}
	return "unknown"
}
