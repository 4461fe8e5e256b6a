package utils

import (
	"gonum.org/v1/gonum/mat"
)

// Range returns the indices 0, 1, ..., n-1.
func Range(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// AddToDiag adds v to every diagonal entry of s, in place.
func AddToDiag(s *mat.SymDense, v float64) {
	n := s.SymmetricDim()
	for i := 0; i < n; i++ {
		s.SetSym(i, i, s.At(i, i)+v)
	}
}

// TraceProd computes tr(a*b) for symmetric a and b of the same dimension.
func TraceProd(a, b mat.Symmetric) float64 {
	n := a.SymmetricDim()
	sum := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum += a.At(i, j) * b.At(i, j)
		}
	}
	return sum
}
