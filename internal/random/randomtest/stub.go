// Package randomtest provides scripted random sources for tests.
package randomtest

// Stub is a random.Source returning fixed values. With Norm at zero every
// normal draw collapses to its mean.
type Stub struct {
	Unit float64 // unit-interval value behind Uniform, Bernoulli and Choice
	Norm float64 // standard normal value behind Normal
	Int  int     // offset from lo returned by IntRange
}

func (s *Stub) Normal(mean, sd float64) float64 {
	return mean + sd*s.Norm
}

func (s *Stub) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Unit
}

// IntRange returns lo+Int clamped to [lo, hi].
func (s *Stub) IntRange(lo, hi int) int {
	return min(hi, max(lo, lo+s.Int))
}

func (s *Stub) Bernoulli(p float64) bool {
	return s.Unit < p
}

// Choice walks the cumulative weights with the fixed uniform value.
func (s *Stub) Choice(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	u := s.Unit * total
	for i, w := range weights {
		if u < w {
			return i
		}
		u -= w
	}
	return len(weights) - 1
}

// Dirichlet returns the distribution mean, alpha normalised to one.
func (s *Stub) Dirichlet(alpha []float64) []float64 {
	var total float64
	for _, a := range alpha {
		total += a
	}
	out := make([]float64, len(alpha))
	for i, a := range alpha {
		out[i] = a / total
	}
	return out
}
