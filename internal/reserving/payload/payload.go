// Package payload assembles the generated tables into the JSON document the
// dashboard reads.
package payload

import (
	"math"
	"sort"
	"time"

	"github.com/louisbranch/avflight/internal/reserving/ancillary"
	"github.com/louisbranch/avflight/internal/reserving/development"
	"github.com/louisbranch/avflight/internal/reserving/domain"
	"github.com/louisbranch/avflight/internal/reserving/methods"
	"github.com/louisbranch/avflight/internal/reserving/scoring"
)

const (
	Title    = "Insurance Analytics Dashboard"
	Subtitle = "A vs E Flight Path — Actual vs Expected to Ultimate"

	// TimestampLayout formats last_updated.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Payload is the top-level JSON document.
type Payload struct {
	Title               string             `json:"title"`
	Subtitle            string             `json:"subtitle"`
	LastUpdated         string             `json:"last_updated"`
	Classes             []string           `json:"classes"`
	Methods             []string           `json:"methods"`
	LargeLossThresholds map[string]float64 `json:"large_loss_thresholds"`
	Records             []Record           `json:"records"`
	Ultimates           []Ultimate         `json:"ultimates"`
	PriorUltimates      []PriorUltimate    `json:"prior_ultimates"`
	MethodScores        []MethodScore      `json:"method_scores"`
	Claims              []Claim            `json:"claims"`
	Premiums            []Premium          `json:"premiums"`
	CohortClaimCounts   []ClaimCount       `json:"cohort_claim_counts"`
}

// Record is one development point.
type Record struct {
	Class             string  `json:"Class"`
	Cohort            string  `json:"Cohort"`
	DevelopmentPeriod int     `json:"Development_Period"`
	Type              string  `json:"Type"`
	Value             float64 `json:"Value"`
}

// Ultimate is one method's current estimate.
type Ultimate struct {
	Class      string  `json:"Class"`
	Cohort     string  `json:"Cohort"`
	Method     string  `json:"Method"`
	Pattern    string  `json:"Pattern"`
	IE         string  `json:"IE"`
	Approach   string  `json:"Approach"`
	MethodType string  `json:"Method_Type"`
	Ultimate   float64 `json:"Ultimate"`
}

// PriorUltimate is one method's estimate a quarter earlier.
type PriorUltimate struct {
	Class    string  `json:"Class"`
	Cohort   string  `json:"Cohort"`
	Method   string  `json:"Method"`
	Ultimate float64 `json:"Ultimate"`
}

// MethodScore is one method's quality on one class.
type MethodScore struct {
	Class           string             `json:"Class"`
	Method          string             `json:"Method"`
	Pattern         string             `json:"Pattern"`
	IE              string             `json:"IE"`
	Approach        string             `json:"Approach"`
	ReserveDet      float64            `json:"Reserve_Det"`
	PriorReserveDet float64            `json:"Prior_Reserve_Det"`
	ProjQuality     float64            `json:"Proj_Quality"`
	SHAP            map[string]float64 `json:"SHAP"`
}

// Claim is one individual claim.
type Claim struct {
	Class           string  `json:"Class"`
	Cohort          string  `json:"Cohort"`
	ClaimID         string  `json:"Claim_ID"`
	Status          string  `json:"Status"`
	IncurredCurrent float64 `json:"Incurred_Current"`
	IncurredPrior   float64 `json:"Incurred_Prior"`
}

// Premium is one cohort's premium.
type Premium struct {
	Class       string  `json:"Class"`
	Cohort      string  `json:"Cohort"`
	Written     float64 `json:"Written"`
	Earned      float64 `json:"Earned"`
	PriorEarned float64 `json:"Prior_Earned"`
}

// ClaimCount is one cohort's claim count.
type ClaimCount struct {
	Class        string `json:"Class"`
	Cohort       string `json:"Cohort"`
	CountCurrent int    `json:"Count_Current"`
	CountPrior   int    `json:"Count_Prior"`
}

// Tables is every generated table of one run.
type Tables struct {
	Records     []development.Record
	Ultimates   []methods.Estimate
	Priors      []methods.Estimate
	Scores      []scoring.Score
	Claims      []ancillary.Claim
	Premiums    []ancillary.Premium
	ClaimCounts []ancillary.ClaimCount
	ClassParams []domain.ClassParams
	GeneratedAt time.Time
}

// Build converts the tables into the serialized form, rounding money to 2
// decimals, scores to 3 and attributions to 4.
func Build(t Tables) Payload {
	p := Payload{
		Title:               Title,
		Subtitle:            Subtitle,
		LastUpdated:         t.GeneratedAt.Format(TimestampLayout),
		Classes:             classNames(t.Records),
		Methods:             methodNames(t.Ultimates),
		LargeLossThresholds: make(map[string]float64, len(t.ClassParams)),
		Records:             make([]Record, 0, len(t.Records)),
		Ultimates:           make([]Ultimate, 0, len(t.Ultimates)),
		PriorUltimates:      make([]PriorUltimate, 0, len(t.Priors)),
		MethodScores:        make([]MethodScore, 0, len(t.Scores)),
		Claims:              make([]Claim, 0, len(t.Claims)),
		Premiums:            make([]Premium, 0, len(t.Premiums)),
		CohortClaimCounts:   make([]ClaimCount, 0, len(t.ClaimCounts)),
	}
	for _, cls := range t.ClassParams {
		p.LargeLossThresholds[cls.Name] = Round(cls.LargeLossThreshold, 2)
	}
	for _, r := range t.Records {
		p.Records = append(p.Records, Record{
			Class:             r.Class,
			Cohort:            r.Cohort.Label(),
			DevelopmentPeriod: r.Period,
			Type:              string(r.Type),
			Value:             Round(r.Value, 2),
		})
	}
	for _, u := range t.Ultimates {
		p.Ultimates = append(p.Ultimates, Ultimate{
			Class:      u.Class,
			Cohort:     u.Cohort.Label(),
			Method:     u.Method.String(),
			Pattern:    string(u.Method.Pattern),
			IE:         string(u.Method.IE),
			Approach:   string(u.Method.Approach),
			MethodType: u.Method.MethodType(),
			Ultimate:   Round(u.Ultimate, 2),
		})
	}
	for _, u := range t.Priors {
		p.PriorUltimates = append(p.PriorUltimates, PriorUltimate{
			Class:    u.Class,
			Cohort:   u.Cohort.Label(),
			Method:   u.Method.String(),
			Ultimate: Round(u.Ultimate, 2),
		})
	}
	for _, s := range t.Scores {
		shap := make(map[string]float64, len(s.Attribution))
		for k, v := range s.Attribution {
			shap[k] = Round(v, 4)
		}
		p.MethodScores = append(p.MethodScores, MethodScore{
			Class:           s.Class,
			Method:          s.Method.String(),
			Pattern:         string(s.Method.Pattern),
			IE:              string(s.Method.IE),
			Approach:        string(s.Method.Approach),
			ReserveDet:      Round(s.ReserveDet, 3),
			PriorReserveDet: Round(s.PriorReserveDet, 3),
			ProjQuality:     Round(s.ProjQuality, 3),
			SHAP:            shap,
		})
	}
	for _, c := range t.Claims {
		p.Claims = append(p.Claims, Claim{
			Class:           c.Class,
			Cohort:          c.Cohort.Label(),
			ClaimID:         c.ID,
			Status:          string(c.Status),
			IncurredCurrent: Round(c.IncurredCurrent, 2),
			IncurredPrior:   Round(c.IncurredPrior, 2),
		})
	}
	for _, pr := range t.Premiums {
		p.Premiums = append(p.Premiums, Premium{
			Class:       pr.Class,
			Cohort:      pr.Cohort.Label(),
			Written:     Round(pr.Written, 2),
			Earned:      Round(pr.Earned, 2),
			PriorEarned: Round(pr.PriorEarned, 2),
		})
	}
	for _, c := range t.ClaimCounts {
		p.CohortClaimCounts = append(p.CohortClaimCounts, ClaimCount{
			Class:        c.Class,
			Cohort:       c.Cohort.Label(),
			CountCurrent: c.Current,
			CountPrior:   c.Prior,
		})
	}
	return p
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// Avoid encoding -0.
		return 0
	}
	return r
}

func classNames(records []development.Record) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range records {
		if !seen[r.Class] {
			seen[r.Class] = true
			out = append(out, r.Class)
		}
	}
	sort.Strings(out)
	return out
}

func methodNames(estimates []methods.Estimate) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range estimates {
		name := e.Method.String()
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
