package ancillary

import (
	"github.com/louisbranch/avflight/internal/random"
	"github.com/louisbranch/avflight/internal/reserving/development"
	"github.com/louisbranch/avflight/internal/reserving/domain"
)

const (
	lossRatioMean = 0.70
	lossRatioSD   = 0.04
	lossRatioMin  = 0.55
	lossRatioMax  = 0.85

	writtenLoadMax  = 1.08
	priorEarnedDrop = 0.03
)

// Premium is the premium position of a (class, cohort).
type Premium struct {
	domain.Key
	Written     float64
	Earned      float64
	PriorEarned float64
}

// Premiums backs a premium out of each true ultimate through a loss ratio.
func Premiums(src random.Source, ultimates development.TrueUltimates) []Premium {
	out := make([]Premium, 0, ultimates.Len())
	ultimates.Each(func(e development.Exposure) {
		lossRatio := random.Clip(src.Normal(lossRatioMean, lossRatioSD), lossRatioMin, lossRatioMax)
		earned := e.TrueUltimate / lossRatio
		written := earned * src.Uniform(1.00, writtenLoadMax)
		prior := earned * (1 - src.Uniform(0, priorEarnedDrop))
		out = append(out, Premium{
			Key:         e.Key,
			Written:     written,
			Earned:      earned,
			PriorEarned: prior,
		})
	})
	return out
}
