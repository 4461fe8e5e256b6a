package model

import "fmt"

// Dataset pairs observation point indices with scalar responses.
type Dataset struct {
	X []int
	Y []float64
}

// NewDataset validates that x and y have equal nonzero length.
func NewDataset(x []int, y []float64) (Dataset, error) {
	if len(x) == 0 || len(x) != len(y) {
		return Dataset{}, fmt.Errorf("%w: %d indices, %d responses", ErrShapeMismatch, len(x), len(y))
	}
	return Dataset{X: x, Y: y}, nil
}

// NumData returns the number of observations.
func (d Dataset) NumData() int { return len(d.X) }
