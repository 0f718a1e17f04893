// Package methods derives per-method ultimate estimates, current and one
// quarter prior, from the shared true ultimates.
package methods

import (
	"github.com/louisbranch/avflight/internal/random"
	"github.com/louisbranch/avflight/internal/reserving/development"
	"github.com/louisbranch/avflight/internal/reserving/domain"
)

// Drift parameters for the prior-quarter estimate. Immature cohorts swing
// more between valuations.
const (
	driftImmature = 0.04
	driftFloor    = 0.005
)

// Estimate is one method's ultimate for a (class, cohort) pair.
type Estimate struct {
	domain.Key
	Method   domain.MethodKey
	Ultimate float64
}

// Result holds the current and prior estimate tables. Both have the same
// keys in the same order.
type Result struct {
	Current []Estimate
	Prior   []Estimate
}

// Generate enumerates every method for every started pair. Each method draws
// its current noise followed by its prior drift.
func Generate(src random.Source, grid domain.AssumptionGrid, ultimates development.TrueUltimates) Result {
	methods := grid.Methods()
	res := Result{
		Current: make([]Estimate, 0, ultimates.Len()*len(methods)),
		Prior:   make([]Estimate, 0, ultimates.Len()*len(methods)),
	}
	ultimates.Each(func(e development.Exposure) {
		sigma := DriftSigma(e.Maturity)
		for _, m := range methods {
			current := e.TrueUltimate * grid.CombinedBias(m) * src.Normal(1, grid.CombinedNoise(m))
			prior := current * (1 + src.Normal(0, sigma))
			res.Current = append(res.Current, Estimate{Key: e.Key, Method: m, Ultimate: current})
			res.Prior = append(res.Prior, Estimate{Key: e.Key, Method: m, Ultimate: prior})
		}
	})
	return res
}

// DriftSigma is the standard deviation of the quarter-on-quarter change.
func DriftSigma(maturity float64) float64 {
	return driftImmature*(1-maturity) + driftFloor
}
