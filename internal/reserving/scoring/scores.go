// Package scoring generates method quality scores and their attribution
// across the three assumption dimensions.
package scoring

import (
	"github.com/louisbranch/avflight/internal/random"
	"github.com/louisbranch/avflight/internal/reserving/domain"
)

const (
	classOffsetSD  = 0.03
	methodNoiseSD  = 0.02
	priorDriftSD   = 0.04
	negativeChance = 0.25
)

// attributionAlpha is the Dirichlet concentration per dimension, in
// domain.Dimensions order.
var attributionAlpha = []float64{3.0, 2.0, 2.5}

// Score is the quality assessment of one method on one class.
type Score struct {
	Class           string
	Method          domain.MethodKey
	ReserveDet      float64
	PriorReserveDet float64
	ProjQuality     float64
	// Attribution splits ReserveDet by dimension name. Components may be
	// negative; their magnitudes sum to ReserveDet.
	Attribution map[string]float64
}

// Generate scores every method for every class. The two class offsets are
// drawn once per class and shared by its methods.
func Generate(src random.Source, classes []domain.ClassParams, grid domain.AssumptionGrid) []Score {
	methods := grid.Methods()
	out := make([]Score, 0, len(classes)*len(methods))
	for _, cls := range classes {
		reserveOffset := src.Normal(0, classOffsetSD)
		qualityOffset := src.Normal(0, classOffsetSD)

		for _, m := range methods {
			var reserveBase, qualityBase float64
			for _, d := range domain.Dimensions {
				c := grid.Contribution(d, m)
				reserveBase += c.ReserveDet
				qualityBase += c.ProjQuality
			}
			reserve := random.Clip(reserveBase+reserveOffset+src.Normal(0, methodNoiseSD), 0, 1)
			quality := random.Clip(qualityBase+qualityOffset+src.Normal(0, methodNoiseSD), 0, 1)
			attribution := attribute(src, reserve)
			prior := random.Clip(reserve+src.Normal(0, priorDriftSD), 0, 1)

			out = append(out, Score{
				Class:           cls.Name,
				Method:          m,
				ReserveDet:      reserve,
				PriorReserveDet: prior,
				ProjQuality:     quality,
				Attribution:     attribution,
			})
		}
	}
	return out
}

// attribute splits score over the dimensions with random signs.
func attribute(src random.Source, score float64) map[string]float64 {
	weights := src.Dirichlet(attributionAlpha)
	out := make(map[string]float64, len(weights))
	for i, d := range domain.Dimensions {
		v := weights[i] * score
		if src.Bernoulli(negativeChance) {
			v = -v
		}
		out[d.String()] = v
	}
	return out
}
