package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/avflight/internal/platform/errors"
)

// Cohort is an origin quarter such as 2022Q1.
type Cohort struct {
	Year    int
	Quarter int
}

// ParseCohort parses a "YYYYQn" label.
func ParseCohort(label string) (Cohort, error) {
	value := strings.ToUpper(strings.TrimSpace(label))
	invalid := func() error {
		return apperrors.WithMetadata(apperrors.CodeConfigInvalidCohort,
			"cohort must look like 2022Q1", map[string]string{"cohort": label})
	}
	if len(value) != 6 || value[4] != 'Q' {
		return Cohort{}, invalid()
	}
	year := 0
	for _, r := range value[:4] {
		if r < '0' || r > '9' {
			return Cohort{}, invalid()
		}
		year = year*10 + int(r-'0')
	}
	quarter := int(value[5] - '0')
	if quarter < 1 || quarter > 4 {
		return Cohort{}, invalid()
	}
	return Cohort{Year: year, Quarter: quarter}, nil
}

// MustParseCohort is ParseCohort for compiled-in tables.
func MustParseCohort(label string) Cohort {
	c, err := ParseCohort(label)
	if err != nil {
		panic(err)
	}
	return c
}

// Label returns the "YYYYQn" form.
func (c Cohort) Label() string {
	return fmt.Sprintf("%04dQ%d", c.Year, c.Quarter)
}

// String implements fmt.Stringer.
func (c Cohort) String() string {
	return c.Label()
}

// Offset returns the number of quarters between epoch and c. Cohorts before
// the epoch have negative offsets.
func (c Cohort) Offset(epoch Cohort) int {
	return (c.Year-epoch.Year)*4 + (c.Quarter - 1) - (epoch.Quarter - 1)
}

// Before reports whether c is an earlier quarter than other.
func (c Cohort) Before(other Cohort) bool {
	return c.Offset(other) < 0
}

// Key identifies a (class, cohort) pair across every generated table.
type Key struct {
	Class  string
	Cohort Cohort
}
