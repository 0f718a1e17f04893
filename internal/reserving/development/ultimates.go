package development

import "github.com/louisbranch/avflight/internal/reserving/domain"

// Exposure is one started (class, cohort) pair with its true ultimate.
type Exposure struct {
	domain.Key
	Offset       int
	Observed     int // development periods observed at valuation
	TrueUltimate float64
	Maturity     float64 // Observed / max periods, capped at 1
}

// TrueUltimates is the read-only join table every downstream generator
// uses. Entries keep generation order.
type TrueUltimates struct {
	entries []Exposure
	index   map[domain.Key]int
}

func newTrueUltimates(entries []Exposure) TrueUltimates {
	index := make(map[domain.Key]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	return TrueUltimates{entries: entries, index: index}
}

// Lookup returns the exposure for key.
func (t TrueUltimates) Lookup(key domain.Key) (Exposure, bool) {
	i, ok := t.index[key]
	if !ok {
		return Exposure{}, false
	}
	return t.entries[i], true
}

// Value returns the true ultimate for key.
func (t TrueUltimates) Value(key domain.Key) (float64, bool) {
	e, ok := t.Lookup(key)
	return e.TrueUltimate, ok
}

// Len returns the number of started pairs.
func (t TrueUltimates) Len() int {
	return len(t.entries)
}

// Each calls fn for every entry in generation order.
func (t TrueUltimates) Each(fn func(Exposure)) {
	for _, e := range t.entries {
		fn(e)
	}
}
