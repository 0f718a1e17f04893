// Package development generates cumulative claims development per class and
// cohort, and the true-ultimate table the other generators join on.
package development

import (
	"math"

	"github.com/louisbranch/avflight/internal/random"
	"github.com/louisbranch/avflight/internal/reserving/domain"
)

// RecordType distinguishes the observed curve from the at-origin estimate.
type RecordType string

const (
	TypeActual   RecordType = "Actual"
	TypeExpected RecordType = "Expected"
)

// Record is one point of a development trajectory.
type Record struct {
	domain.Key
	Period int
	Type   RecordType
	Value  float64
}

// perturbationScale is the share of volatility × ultimate used as the
// per-period noise standard deviation.
const perturbationScale = 0.02

// Result is the output of Generate.
type Result struct {
	Records   []Record
	Ultimates TrueUltimates
}

// Generate draws every development trajectory. Per cohort it draws one
// ultimate noise factor then one perturbation per observed period, so the
// draw count depends only on the configuration.
func Generate(src random.Source, cfg domain.Config) Result {
	valuation := cfg.ValuationOffset()
	var records []Record
	var exposures []Exposure

	for _, cls := range cfg.Classes {
		for _, cohort := range cfg.Cohorts {
			offset := cfg.CohortOffset(cohort)
			observed, started := ObservedPeriods(valuation, offset, cfg.MaxDevelopmentPeriods)
			if !started {
				continue
			}
			key := domain.Key{Class: cls.Name, Cohort: cohort}

			ultimate := CohortUltimate(src, cls, offset)
			expected := RoundToThousand(ultimate)
			actuals := ActualCurve(src, cls, offset, ultimate, observed)

			for t, v := range actuals {
				records = append(records, Record{Key: key, Period: t, Type: TypeActual, Value: v})
			}
			for t := 0; t <= observed; t++ {
				records = append(records, Record{Key: key, Period: t, Type: TypeExpected, Value: expected})
			}

			exposures = append(exposures, Exposure{
				Key:          key,
				Offset:       offset,
				Observed:     observed,
				TrueUltimate: ultimate,
				Maturity:     Maturity(observed, cfg.MaxDevelopmentPeriods),
			})
		}
	}
	return Result{Records: records, Ultimates: newTrueUltimates(exposures)}
}

// ObservedPeriods returns how many development periods a cohort has at the
// valuation date. started is false when the cohort incepts after valuation.
func ObservedPeriods(valuationOffset, cohortOffset, maxPeriods int) (observed int, started bool) {
	elapsed := valuationOffset - cohortOffset
	if elapsed < 0 {
		return 0, false
	}
	return min(elapsed, maxPeriods), true
}

// Maturity is the observed share of the development window.
func Maturity(observed, maxPeriods int) float64 {
	if maxPeriods <= 0 {
		return 1
	}
	return math.Min(float64(observed)/float64(maxPeriods), 1)
}

// CohortUltimate draws base × (1+growth)^(offset/4) × N(1, volatility).
func CohortUltimate(src random.Source, cls domain.ClassParams, offset int) float64 {
	growth := math.Pow(1+cls.GrowthRate, float64(offset)/4)
	return cls.BaseUltimate * growth * src.Normal(1, cls.Volatility)
}

// RoundToThousand rounds half-to-even to the nearest 1000.
func RoundToThousand(v float64) float64 {
	return math.RoundToEven(v/1000) * 1000
}

// Speed is the development speed of a cohort; later cohorts develop faster.
func Speed(cls domain.ClassParams, offset int) float64 {
	return cls.DevSpeed * (1 + cls.TrendAcceleration*float64(offset))
}

// DevelopedFraction is 1 − exp(−speed·t).
func DevelopedFraction(speed float64, period int) float64 {
	return 1 - math.Exp(-speed*float64(period))
}

// ActualCurve returns cumulative values for periods 0..observed. A noise walk
// is added to the smooth curve, floored at zero and made non-decreasing.
func ActualCurve(src random.Source, cls domain.ClassParams, offset int, ultimate float64, observed int) []float64 {
	speed := Speed(cls, offset)
	scale := cls.Volatility * ultimate * perturbationScale

	perturbation := make([]float64, observed+1)
	for t := range perturbation {
		perturbation[t] = src.Normal(0, scale)
	}
	perturbation[0] = 0

	out := make([]float64, observed+1)
	var walk, peak float64
	for t := range out {
		walk += perturbation[t]
		v := math.Max(0, ultimate*DevelopedFraction(speed, t)+walk)
		peak = math.Max(peak, v)
		out[t] = peak
	}
	return out
}
