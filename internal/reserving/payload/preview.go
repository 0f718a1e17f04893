package payload

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WritePreview prints the first n development records and a summary of
// every table, with grouped thousands.
func WritePreview(w io.Writer, p Payload, n int) error {
	printer := message.NewPrinter(language.English)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Class\tCohort\tDevelopment_Period\tType\tValue\t")
	for i, r := range p.Records {
		if i >= n {
			break
		}
		printer.Fprintf(tw, "%s\t%s\t%d\t%s\t%.2f\t\n", r.Class, r.Cohort, r.DevelopmentPeriod, r.Type, r.Value)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush preview: %w", err)
	}

	cohorts, types := distinctCohortsAndTypes(p.Records)
	lines := []struct {
		label string
		value string
	}{
		{"Total rows", printer.Sprintf("%d", len(p.Records))},
		{"Classes", strings.Join(p.Classes, ", ")},
		{"Cohorts", strings.Join(cohorts, ", ")},
		{"Types", strings.Join(types, ", ")},
		{"Methods", printer.Sprintf("%d", len(p.Methods))},
		{"Ultimates", printer.Sprintf("%d", len(p.Ultimates))},
		{"Prior ultimates", printer.Sprintf("%d", len(p.PriorUltimates))},
		{"Method scores", printer.Sprintf("%d", len(p.MethodScores))},
		{"Claims", printer.Sprintf("%d", len(p.Claims))},
		{"Premiums", printer.Sprintf("%d", len(p.Premiums))},
		{"Claim counts", printer.Sprintf("%d", len(p.CohortClaimCounts))},
	}
	fmt.Fprintln(w)
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-15s: %s\n", l.label, l.value); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}
	return nil
}

func distinctCohortsAndTypes(records []Record) (cohorts, types []string) {
	seenCohort := map[string]bool{}
	seenType := map[string]bool{}
	for _, r := range records {
		if !seenCohort[r.Cohort] {
			seenCohort[r.Cohort] = true
			cohorts = append(cohorts, r.Cohort)
		}
		if !seenType[r.Type] {
			seenType[r.Type] = true
			types = append(types, r.Type)
		}
	}
	return cohorts, types
}
