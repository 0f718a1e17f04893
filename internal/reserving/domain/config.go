// Package domain holds the static parameter tables of the mock reserving
// dataset: business classes, origin cohorts, the valuation horizon and the
// method assumption grid.
package domain

import (
	"math"
	"strconv"

	apperrors "github.com/louisbranch/avflight/internal/platform/errors"
)

// ClassParams describes one line of business.
type ClassParams struct {
	Name               string  `yaml:"name"`
	BaseUltimate       float64 `yaml:"base_ultimate"`
	GrowthRate         float64 `yaml:"growth_rate"`        // annual
	DevSpeed           float64 `yaml:"dev_speed"`          // higher develops faster
	Volatility         float64 `yaml:"volatility"`         // coefficient of variation
	TrendAcceleration  float64 `yaml:"trend_acceleration"` // speed growth per quarter of offset
	LargeLossThreshold float64 `yaml:"large_loss_threshold"`
}

// Config is the full set of domain parameters for one run.
type Config struct {
	Epoch                 Cohort
	Valuation             Cohort
	MaxDevelopmentPeriods int
	Classes               []ClassParams
	Cohorts               []Cohort
	Grid                  AssumptionGrid
}

// CohortOffset returns the quarter offset of c from the epoch.
func (c Config) CohortOffset(cohort Cohort) int {
	return cohort.Offset(c.Epoch)
}

// ValuationOffset returns the quarter offset of the valuation date.
func (c Config) ValuationOffset() int {
	return c.Valuation.Offset(c.Epoch)
}

// Class returns the parameters for name.
func (c Config) Class(name string) (ClassParams, bool) {
	for _, cls := range c.Classes {
		if cls.Name == name {
			return cls, true
		}
	}
	return ClassParams{}, false
}

// Validate checks the tables for shapes the generators cannot use.
func (c Config) Validate() error {
	if len(c.Classes) == 0 {
		return apperrors.New(apperrors.CodeConfigNoClasses, "at least one class is required")
	}
	seen := make(map[string]bool, len(c.Classes))
	for _, cls := range c.Classes {
		if cls.Name == "" {
			return apperrors.New(apperrors.CodeConfigInvalidClassParams, "class name is required")
		}
		if seen[cls.Name] {
			return apperrors.WithMetadata(apperrors.CodeConfigDuplicateClass,
				"class declared twice", map[string]string{"class": cls.Name})
		}
		seen[cls.Name] = true
		if field := invalidClassField(cls); field != "" {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalidClassParams,
				"class parameter out of range", map[string]string{"class": cls.Name, "field": field})
		}
	}

	if len(c.Cohorts) == 0 {
		return apperrors.New(apperrors.CodeConfigNoCohorts, "at least one cohort is required")
	}
	seenCohort := make(map[Cohort]bool, len(c.Cohorts))
	for i, cohort := range c.Cohorts {
		if cohort.Quarter < 1 || cohort.Quarter > 4 {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalidCohort,
				"cohort quarter must be 1-4", map[string]string{"cohort": cohort.Label()})
		}
		if seenCohort[cohort] {
			return apperrors.WithMetadata(apperrors.CodeConfigDuplicateCohort,
				"cohort declared twice", map[string]string{"cohort": cohort.Label()})
		}
		seenCohort[cohort] = true
		if i > 0 && !c.Cohorts[i-1].Before(cohort) {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalidCohort,
				"cohorts must be listed in ascending order", map[string]string{"cohort": cohort.Label()})
		}
		if cohort.Before(c.Epoch) {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalidCohort,
				"cohort precedes epoch", map[string]string{"cohort": cohort.Label(), "epoch": c.Epoch.Label()})
		}
	}

	if c.Valuation.Before(c.Epoch) {
		return apperrors.WithMetadata(apperrors.CodeConfigInvalidValuation,
			"valuation precedes epoch", map[string]string{"valuation": c.Valuation.Label()})
	}
	if c.MaxDevelopmentPeriods <= 0 {
		return apperrors.WithMetadata(apperrors.CodeConfigInvalidDevelopment,
			"max development periods must be positive",
			map[string]string{"max_development_periods": strconv.Itoa(c.MaxDevelopmentPeriods)})
	}
	return c.Grid.validate()
}

func invalidClassField(cls ClassParams) string {
	switch {
	case !(cls.BaseUltimate > 0):
		return "base_ultimate"
	case cls.GrowthRate <= -1 || math.IsNaN(cls.GrowthRate):
		return "growth_rate"
	case !(cls.DevSpeed > 0):
		return "dev_speed"
	case !(cls.Volatility >= 0):
		return "volatility"
	case cls.TrendAcceleration < 0 || math.IsNaN(cls.TrendAcceleration):
		return "trend_acceleration"
	case !(cls.LargeLossThreshold >= 0):
		return "large_loss_threshold"
	}
	return ""
}

func (g AssumptionGrid) validate() error {
	if len(g.Values) == 0 {
		return apperrors.New(apperrors.CodeConfigInvalidAssumptions, "assumption values are required")
	}
	for _, d := range Dimensions {
		for _, v := range g.Values {
			effect, ok := g.Effects[d][v]
			if !ok || !(effect.Bias > 0) || !(effect.Noise >= 0) {
				return apperrors.WithMetadata(apperrors.CodeConfigInvalidAssumptions,
					"missing or invalid dimension effect",
					map[string]string{"dimension": d.String(), "assumption": string(v)})
			}
			if _, ok := g.Contributions[d][v]; !ok {
				return apperrors.WithMetadata(apperrors.CodeConfigInvalidAssumptions,
					"missing score contribution",
					map[string]string{"dimension": d.String(), "assumption": string(v)})
			}
		}
	}
	return nil
}
