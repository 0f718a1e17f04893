package random

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// pcgStream selects the PCG sequence; the seed picks the position.
const pcgStream = 0x61766669676874

// Stream is a seeded PCG generator shared by every gonum distribution it
// samples, so all draws advance one sequence.
type Stream struct {
	src rand.Source
	rng *rand.Rand
}

var _ Source = (*Stream)(nil)

// NewSeeded returns a stream seeded with seed.
func NewSeeded(seed int64) *Stream {
	pcg := rand.NewPCG(uint64(seed), pcgStream)
	return &Stream{src: pcg, rng: rand.New(pcg)}
}

func (s *Stream) Normal(mean, sd float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: sd, Src: s.src}.Rand()
}

func (s *Stream) Uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: s.src}.Rand()
}

// IntRange returns lo without drawing when the range is empty.
func (s *Stream) IntRange(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Stream) Bernoulli(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

func (s *Stream) Choice(weights []float64) int {
	return int(distuv.NewCategorical(weights, s.src).Rand())
}

func (s *Stream) Dirichlet(alpha []float64) []float64 {
	return distmv.NewDirichlet(alpha, s.src).Rand(nil)
}
