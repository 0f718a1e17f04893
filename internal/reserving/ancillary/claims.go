package ancillary

import (
	"fmt"
	"math"

	"github.com/louisbranch/avflight/internal/random"
	"github.com/louisbranch/avflight/internal/reserving/development"
	"github.com/louisbranch/avflight/internal/reserving/domain"
)

// Status is the lifecycle state of a claim.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusClosed   Status = "Closed"
	StatusReopened Status = "Reopened"
)

var (
	statuses      = []Status{StatusOpen, StatusClosed, StatusReopened}
	statusWeights = []float64{0.35, 0.55, 0.10}
)

const (
	claimIDPrefix = "CLM-"
	claimIDDigits = 6

	minClaims  = 5
	maxClaims  = 12
	shareAlpha = 1.5

	totalScaleMin = 0.85
	totalScaleMax = 1.05

	largeMoverRate = 0.15
	largeMoveMin   = 0.20
	largeMoveMax   = 0.60
	smallMoveSD    = 0.05

	reopenedPriorMin = 0.02
	reopenedPriorMax = 0.15
)

// Claim is one individual claim with current and prior incurred.
type Claim struct {
	domain.Key
	ID              string
	Status          Status
	IncurredCurrent float64
	IncurredPrior   float64
}

// ClaimIDs hands out globally unique, increasing claim ids.
type ClaimIDs struct {
	next int
}

// NewClaimIDs starts numbering at 1.
func NewClaimIDs() *ClaimIDs {
	return &ClaimIDs{next: 1}
}

// Next returns the next id, e.g. CLM-000001.
func (c *ClaimIDs) Next() string {
	id := fmt.Sprintf("%s%0*d", claimIDPrefix, claimIDDigits, c.next)
	c.next++
	return id
}

// Claims splits each cohort's developed incurred across a handful of claims.
// Draw order per cohort: claim count, total scale, shares, then per claim
// status, mover test, drift and (for reopened claims) the prior override.
func Claims(src random.Source, ultimates development.TrueUltimates, ids *ClaimIDs) []Claim {
	var out []Claim
	ultimates.Each(func(e development.Exposure) {
		n := src.IntRange(minClaims, maxClaims)
		total := e.TrueUltimate * e.Maturity * src.Uniform(totalScaleMin, totalScaleMax)
		shares := random.SymmetricDirichlet(src, shareAlpha, n)

		for _, share := range shares {
			current := total * share
			status := statuses[src.Choice(statusWeights)]
			prior := math.Max(0, current*(1+priorDrift(src)))
			if status == StatusReopened {
				prior = current * src.Uniform(reopenedPriorMin, reopenedPriorMax)
			}
			out = append(out, Claim{
				Key:             e.Key,
				ID:              ids.Next(),
				Status:          status,
				IncurredCurrent: current,
				IncurredPrior:   prior,
			})
		}
	})
	return out
}

// priorDrift is the relative change from prior to current valuation.
func priorDrift(src random.Source) float64 {
	if src.Bernoulli(largeMoverRate) {
		magnitude := src.Uniform(largeMoveMin, largeMoveMax)
		if src.Bernoulli(0.5) {
			return -magnitude
		}
		return magnitude
	}
	return src.Normal(0, smallMoveSD)
}
