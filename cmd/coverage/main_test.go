package main

import (
	"testing"

	"github.com/zapponejosh/verbenas-api/internal/continuity"
)

func TestAnalyzeResults(t *testing.T) {
	results := []MonthResult{
		{Period: "2024-05", Year: 2024, Found: 3, Total: 4, Missing: []continuity.Event{{Municipality: "Arona"}}},
		{Period: "2024-06", Year: 2024, Found: 5, Total: 8, Missing: []continuity.Event{
			{Municipality: "Adeje"}, {Municipality: "Arona"}, {Municipality: "Arona"},
		}},
		{Period: "2025-06", Year: 2025, Found: 0, Total: 0},
		{Period: "2025-07", Year: 2025, Error: "HTTP 500"},
	}

	a := analyzeResults(results)

	if a.Months != 4 || a.Errors != 1 {
		t.Errorf("months/errors = %d/%d, want 4/1", a.Months, a.Errors)
	}
	if a.Found != 8 || a.Total != 12 || a.Coverage != 67 {
		t.Errorf("overall = %d/%d (%d%%), want 8/12 (67%%)", a.Found, a.Total, a.Coverage)
	}
	if got := a.ByYear[2024]; got == nil || got.Coverage != 67 {
		t.Errorf("2024 stats = %+v", got)
	}
	if got := a.ByYear[2025]; got == nil || got.Total != 0 || got.Coverage != 0 {
		t.Errorf("2025 stats = %+v", got)
	}
	if a.ByMunicipality["Arona"] != 3 || a.ByMunicipality["Adeje"] != 1 {
		t.Errorf("missing by municipality = %v", a.ByMunicipality)
	}
	if len(a.AllMissing) != 4 {
		t.Errorf("all missing = %d, want 4", len(a.AllMissing))
	}
}

func TestPercent(t *testing.T) {
	tests := []struct{ found, total, want int }{
		{0, 0, 0},
		{1, 8, 13},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := percent(tt.found, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %d, want %d", tt.found, tt.total, got, tt.want)
		}
	}
}
