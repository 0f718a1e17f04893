package domain

import (
	"fmt"
	"math"
)

// Assumption is one value of an assumption dimension.
type Assumption string

const (
	AssumptionLow  Assumption = "Low"
	AssumptionMid  Assumption = "Mid"
	AssumptionHigh Assumption = "High"
)

// Dimension names one axis of the method grid.
type Dimension int

const (
	DimensionPattern Dimension = iota
	DimensionIE
	DimensionApproach

	numDimensions = 3
)

// Dimensions lists the grid axes in enumeration order.
var Dimensions = [numDimensions]Dimension{DimensionPattern, DimensionIE, DimensionApproach}

func (d Dimension) String() string {
	switch d {
	case DimensionPattern:
		return "Pattern"
	case DimensionIE:
		return "IE"
	case DimensionApproach:
		return "Approach"
	default:
		return "Unknown"
	}
}

// Method types derived from the Approach dimension.
const (
	MethodTypeBase        = "Base"
	MethodTypeSensitivity = "Sensitivity"
)

// MethodKey is one estimation method: a choice per dimension.
type MethodKey struct {
	Pattern  Assumption
	IE       Assumption
	Approach Assumption
}

// String returns the "Pattern / IE / Approach" form used as the method id.
func (k MethodKey) String() string {
	return fmt.Sprintf("%s / %s / %s", k.Pattern, k.IE, k.Approach)
}

// Value returns the assumption chosen for dimension d.
func (k MethodKey) Value(d Dimension) Assumption {
	switch d {
	case DimensionPattern:
		return k.Pattern
	case DimensionIE:
		return k.IE
	default:
		return k.Approach
	}
}

// MethodType classifies the method by its Approach: the mid approach is the
// base method, everything else a sensitivity.
func (k MethodKey) MethodType() string {
	if k.Approach == AssumptionMid {
		return MethodTypeBase
	}
	return MethodTypeSensitivity
}

// DimensionEffect is how one assumption value moves an ultimate estimate.
type DimensionEffect struct {
	Bias  float64 `yaml:"bias"`
	Noise float64 `yaml:"noise"`
}

// ScoreContribution is the additive share one assumption value contributes
// to each method quality score.
type ScoreContribution struct {
	ReserveDet  float64 `yaml:"reserve_det"`
	ProjQuality float64 `yaml:"proj_quality"`
}

// AssumptionGrid holds the assumption values and their coefficients per
// dimension. Every dimension shares the same value set.
type AssumptionGrid struct {
	Values        []Assumption
	Effects       [numDimensions]map[Assumption]DimensionEffect
	Contributions [numDimensions]map[Assumption]ScoreContribution
}

// Methods enumerates the full Cartesian product, Pattern-major.
func (g AssumptionGrid) Methods() []MethodKey {
	out := make([]MethodKey, 0, len(g.Values)*len(g.Values)*len(g.Values))
	for _, p := range g.Values {
		for _, ie := range g.Values {
			for _, a := range g.Values {
				out = append(out, MethodKey{Pattern: p, IE: ie, Approach: a})
			}
		}
	}
	return out
}

// CombinedBias is the product of the three per-dimension biases.
func (g AssumptionGrid) CombinedBias(k MethodKey) float64 {
	bias := 1.0
	for _, d := range Dimensions {
		bias *= g.Effects[d][k.Value(d)].Bias
	}
	return bias
}

// CombinedNoise is the Euclidean norm of the three per-dimension noises.
func (g AssumptionGrid) CombinedNoise(k MethodKey) float64 {
	var sum float64
	for _, d := range Dimensions {
		n := g.Effects[d][k.Value(d)].Noise
		sum += n * n
	}
	return math.Sqrt(sum)
}

// Contribution returns the score contribution of k along dimension d.
func (g AssumptionGrid) Contribution(d Dimension, k MethodKey) ScoreContribution {
	return g.Contributions[d][k.Value(d)]
}
