package random

import "math"

// Source is the set of draws the generators make. Stream is the seeded
// implementation; tests can substitute a scripted one.
type Source interface {
	// Normal draws from N(mean, sd).
	Normal(mean, sd float64) float64
	// Uniform draws from [lo, hi).
	Uniform(lo, hi float64) float64
	// IntRange draws an integer uniformly from [lo, hi].
	IntRange(lo, hi int) int
	// Bernoulli reports true with probability p.
	Bernoulli(p float64) bool
	// Choice picks an index with probability proportional to weights.
	Choice(weights []float64) int
	// Dirichlet draws one point from Dirichlet(alpha); it sums to one.
	Dirichlet(alpha []float64) []float64
}

// SymmetricDirichlet draws from Dirichlet with n equal concentrations.
func SymmetricDirichlet(src Source, concentration float64, n int) []float64 {
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = concentration
	}
	return src.Dirichlet(alpha)
}

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
