package continuity

import (
	"fmt"
	"math"
	"time"
)

// Report summarises a continuity check.
type Report struct {
	Period          string        `json:"period"`           // YYYY-MM searched
	ReferencePeriod string        `json:"reference_period"` // YYYY-MM of the references
	Found           []MatchResult `json:"found"`
	Missing         []MatchResult `json:"missing"`
	FoundCount      int           `json:"found_count"`
	MissingCount    int           `json:"missing_count"`
	Total           int           `json:"total"`
	CoveragePercent int           `json:"coverage_percent"`
}

// Aggregate splits results into found and missing and computes coverage.
// An empty input yields zero counts, 0% coverage and empty lists.
func Aggregate(results []MatchResult) Report {
	report := Report{
		Found:   []MatchResult{},
		Missing: []MatchResult{},
	}

	for _, r := range results {
		if r.Kind == KindFound {
			report.Found = append(report.Found, r)
		} else {
			report.Missing = append(report.Missing, r)
		}
	}

	report.FoundCount = len(report.Found)
	report.MissingCount = len(report.Missing)
	report.Total = report.FoundCount + report.MissingCount
	report.CoveragePercent = int(math.Round(float64(report.FoundCount) / float64(max(report.Total, 1)) * 100))

	return report
}

// Check runs a full continuity query: last year's events in month are
// matched against this year's window around month.
//
// Check is a pure function of its arguments; identical inputs give
// identical reports.
func Check(events []Event, year int, month time.Month) Report {
	refs := References(events, year, month)
	pool := BuildPool(events, year, month)

	report := Aggregate(Match(refs, pool))
	report.Period = period(year, month)
	report.ReferencePeriod = period(year-1, month)
	return report
}

func period(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
