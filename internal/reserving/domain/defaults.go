package domain

// MaxDevelopmentPeriods is the number of quarters of development tracked.
const MaxDevelopmentPeriods = 12

// Default returns the compiled-in parameter tables.
func Default() Config {
	return Config{
		Epoch:                 MustParseCohort("2022Q1"),
		Valuation:             MustParseCohort("2026Q1"),
		MaxDevelopmentPeriods: MaxDevelopmentPeriods,
		Classes:               DefaultClasses(),
		Cohorts:               CohortRange(MustParseCohort("2022Q1"), MustParseCohort("2025Q4")),
		Grid:                  DefaultGrid(),
	}
}

// DefaultClasses returns the three business lines in generation order.
func DefaultClasses() []ClassParams {
	return []ClassParams{
		{
			Name:               "Motor",
			BaseUltimate:       1_200_000,
			GrowthRate:         0.04,
			DevSpeed:           0.22,
			Volatility:         0.03,
			TrendAcceleration:  0.010,
			LargeLossThreshold: 50_000,
		},
		{
			Name:               "Property",
			BaseUltimate:       900_000,
			GrowthRate:         0.06,
			DevSpeed:           0.30,
			Volatility:         0.04,
			TrendAcceleration:  0.015,
			LargeLossThreshold: 100_000,
		},
		{
			// long tail
			Name:               "Liability",
			BaseUltimate:       1_500_000,
			GrowthRate:         0.03,
			DevSpeed:           0.15,
			Volatility:         0.05,
			TrendAcceleration:  0.005,
			LargeLossThreshold: 250_000,
		},
	}
}

// DefaultGrid returns the Low/Mid/High assumption grid.
func DefaultGrid() AssumptionGrid {
	return AssumptionGrid{
		Values: []Assumption{AssumptionLow, AssumptionMid, AssumptionHigh},
		Effects: [numDimensions]map[Assumption]DimensionEffect{
			DimensionPattern: {
				AssumptionLow:  {Bias: 0.97, Noise: 0.030},
				AssumptionMid:  {Bias: 1.00, Noise: 0.015},
				AssumptionHigh: {Bias: 1.04, Noise: 0.025},
			},
			DimensionIE: {
				AssumptionLow:  {Bias: 0.98, Noise: 0.020},
				AssumptionMid:  {Bias: 1.00, Noise: 0.010},
				AssumptionHigh: {Bias: 1.02, Noise: 0.020},
			},
			DimensionApproach: {
				AssumptionLow:  {Bias: 0.99, Noise: 0.035},
				AssumptionMid:  {Bias: 1.00, Noise: 0.020},
				AssumptionHigh: {Bias: 1.01, Noise: 0.030},
			},
		},
		Contributions: [numDimensions]map[Assumption]ScoreContribution{
			DimensionPattern: {
				AssumptionLow:  {ReserveDet: 0.22, ProjQuality: 0.20},
				AssumptionMid:  {ReserveDet: 0.32, ProjQuality: 0.30},
				AssumptionHigh: {ReserveDet: 0.26, ProjQuality: 0.24},
			},
			DimensionIE: {
				AssumptionLow:  {ReserveDet: 0.20, ProjQuality: 0.24},
				AssumptionMid:  {ReserveDet: 0.28, ProjQuality: 0.30},
				AssumptionHigh: {ReserveDet: 0.24, ProjQuality: 0.22},
			},
			DimensionApproach: {
				AssumptionLow:  {ReserveDet: 0.16, ProjQuality: 0.18},
				AssumptionMid:  {ReserveDet: 0.22, ProjQuality: 0.24},
				AssumptionHigh: {ReserveDet: 0.18, ProjQuality: 0.20},
			},
		},
	}
}

// CohortRange lists every quarter from first to last inclusive.
func CohortRange(first, last Cohort) []Cohort {
	var out []Cohort
	for c := first; !last.Before(c); c = c.Next() {
		out = append(out, c)
	}
	return out
}

// Next returns the following quarter.
func (c Cohort) Next() Cohort {
	if c.Quarter == 4 {
		return Cohort{Year: c.Year + 1, Quarter: 1}
	}
	return Cohort{Year: c.Year, Quarter: c.Quarter + 1}
}
