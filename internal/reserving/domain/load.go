package domain

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	apperrors "github.com/louisbranch/avflight/internal/platform/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk override format. Omitted sections keep the
// compiled-in defaults.
type fileConfig struct {
	Epoch                 string        `yaml:"epoch"`
	Valuation             string        `yaml:"valuation"`
	MaxDevelopmentPeriods int           `yaml:"max_development_periods"`
	Cohorts               []string      `yaml:"cohorts"`
	Classes               []ClassParams `yaml:"classes"`
	Assumptions           *fileGrid     `yaml:"assumptions"`
}

type fileGrid struct {
	Pattern  map[Assumption]fileAssumption `yaml:"pattern"`
	IE       map[Assumption]fileAssumption `yaml:"ie"`
	Approach map[Assumption]fileAssumption `yaml:"approach"`
}

// fileAssumption leaves a coefficient nil when the file does not name it.
type fileAssumption struct {
	Bias        *float64 `yaml:"bias"`
	Noise       *float64 `yaml:"noise"`
	ReserveDet  *float64 `yaml:"reserve_det"`
	ProjQuality *float64 `yaml:"proj_quality"`
}

// LoadFile reads a YAML override file on top of Default and validates it.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.CodeConfigUnreadable,
			fmt.Sprintf("read domain file %s", path), err)
	}
	return Load(bytes.NewReader(data))
}

// Load decodes YAML overrides from r on top of Default and validates the
// result.
func Load(r io.Reader) (Config, error) {
	var file fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return Config{}, apperrors.Wrap(apperrors.CodeConfigUnreadable, "decode domain file", err)
	}

	cfg := Default()
	if file.Epoch != "" {
		epoch, err := ParseCohort(file.Epoch)
		if err != nil {
			return Config{}, err
		}
		cfg.Epoch = epoch
	}
	if file.Valuation != "" {
		valuation, err := ParseCohort(file.Valuation)
		if err != nil {
			return Config{}, err
		}
		cfg.Valuation = valuation
	}
	if file.MaxDevelopmentPeriods != 0 {
		cfg.MaxDevelopmentPeriods = file.MaxDevelopmentPeriods
	}
	if len(file.Cohorts) > 0 {
		cohorts := make([]Cohort, 0, len(file.Cohorts))
		for _, label := range file.Cohorts {
			c, err := ParseCohort(label)
			if err != nil {
				return Config{}, err
			}
			cohorts = append(cohorts, c)
		}
		cfg.Cohorts = cohorts
	}
	if len(file.Classes) > 0 {
		cfg.Classes = file.Classes
	}
	if file.Assumptions != nil {
		if err := file.Assumptions.apply(&cfg.Grid); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// apply merges the named coefficients into grid. Coefficients the file
// omits keep their current value; assumption values outside grid.Values are
// rejected.
func (f fileGrid) apply(grid *AssumptionGrid) error {
	byDim := [numDimensions]map[Assumption]fileAssumption{
		DimensionPattern:  f.Pattern,
		DimensionIE:       f.IE,
		DimensionApproach: f.Approach,
	}
	for _, d := range Dimensions {
		if len(byDim[d]) == 0 {
			continue
		}
		effects := make(map[Assumption]DimensionEffect, len(grid.Effects[d]))
		contributions := make(map[Assumption]ScoreContribution, len(grid.Contributions[d]))
		for k, v := range grid.Effects[d] {
			effects[k] = v
		}
		for k, v := range grid.Contributions[d] {
			contributions[k] = v
		}
		for value, override := range byDim[d] {
			if !slices.Contains(grid.Values, value) {
				return apperrors.WithMetadata(apperrors.CodeConfigInvalidAssumptions,
					"unknown assumption value",
					map[string]string{"dimension": d.String(), "assumption": string(value)})
			}
			effect := effects[value]
			setIfNamed(&effect.Bias, override.Bias)
			setIfNamed(&effect.Noise, override.Noise)
			effects[value] = effect

			contribution := contributions[value]
			setIfNamed(&contribution.ReserveDet, override.ReserveDet)
			setIfNamed(&contribution.ProjQuality, override.ProjQuality)
			contributions[value] = contribution
		}
		grid.Effects[d] = effects
		grid.Contributions[d] = contributions
	}
	return nil
}

func setIfNamed(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
