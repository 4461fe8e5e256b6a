package kern

import "math"

// maternSpectrum evaluates the unnormalized Matérn spectral density at
// Laplacian eigenvalue lambda on a space of dimension dim:
//
//	S(lambda) = (2*nu/kappa^2 + lambda)^(-nu - dim/2)
func maternSpectrum(lambda, kappa, nu float64, dim int) float64 {
	base := 2*nu/(kappa*kappa) + lambda
	return math.Pow(base, -nu-float64(dim)/2)
}

// maternSpectrumGrad returns the partial derivatives of maternSpectrum
// with respect to kappa and nu. With a = -nu - dim/2 and
// b = 2*nu/kappa^2 + lambda:
//
//	dS/dkappa = a * b^(a-1) * (-4*nu/kappa^3)
//	dS/dnu    = b^a * (-log b + 2*a/(kappa^2 * b))
func maternSpectrumGrad(lambda, kappa, nu float64, dim int) (dKappa, dNu float64) {
	b := 2*nu/(kappa*kappa) + lambda
	a := -nu - float64(dim)/2
	dKappa = a * math.Pow(b, a-1) * (-4 * nu / (kappa * kappa * kappa))
	dNu = math.Pow(b, a) * (-math.Log(b) + 2*a/(kappa*kappa*b))
	return dKappa, dNu
}
