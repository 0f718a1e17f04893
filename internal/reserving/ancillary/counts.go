package ancillary

import (
	"github.com/louisbranch/avflight/internal/random"
	"github.com/louisbranch/avflight/internal/reserving/development"
	"github.com/louisbranch/avflight/internal/reserving/domain"
)

const maxCountDelta = 2

// ClaimCount is the number of claims on a cohort now and one quarter ago.
type ClaimCount struct {
	domain.Key
	Current int
	Prior   int
}

// ClaimCounts tallies claims per pair in true-ultimate order and perturbs the
// tally by a small signed delta for the prior quarter.
func ClaimCounts(src random.Source, ultimates development.TrueUltimates, claims []Claim) []ClaimCount {
	tally := make(map[domain.Key]int, ultimates.Len())
	for _, c := range claims {
		tally[c.Key]++
	}
	out := make([]ClaimCount, 0, ultimates.Len())
	ultimates.Each(func(e development.Exposure) {
		current, ok := tally[e.Key]
		if !ok {
			return
		}
		prior := max(0, current+src.IntRange(-maxCountDelta, maxCountDelta))
		out = append(out, ClaimCount{Key: e.Key, Current: current, Prior: prior})
	})
	return out
}
