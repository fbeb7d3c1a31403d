// Command coverage reports continuity coverage for every month of a range of
// years by querying a running Verbenas API.
//
// Usage:
//
//	go run ./cmd/coverage -url http://localhost:8080 -start 2023 -years 3 -min 70
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/verbenas-api/internal/calendar"
	"github.com/zapponejosh/verbenas-api/internal/continuity"
)

// APIResponse matches the API response envelope
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MonthResult holds the continuity result for a single month
type MonthResult struct {
	Period   string             `json:"period"`
	Year     int                `json:"year"`
	Found    int                `json:"found"`
	Total    int                `json:"total"`
	Coverage int                `json:"coverage_percent"`
	Missing  []continuity.Event `json:"missing,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", time.Now().Year()-1, "Start year")
	years := flag.Int("years", 2, "Number of years to report")
	municipio := flag.String("municipio", "", "Only events in this municipality")
	minCoverage := flag.Int("min", 0, "Exit non-zero when overall coverage is below this percentage")
	verbose := flag.Bool("v", false, "Verbose output (list every missing event)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Verbenas API - Continuity Coverage")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Seasons:     %d to %d\n", *startYear, endYear)
	if *municipio != "" {
		fmt.Printf("Municipio:   %s\n", *municipio)
	}
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	var results []MonthResult
	for year := *startYear; year <= endYear; year++ {
		for month := time.January; month <= time.December; month++ {
			r := fetchMonth(client, *baseURL, year, month, *municipio)
			results = append(results, r)

			if *verbose {
				printMonth(r)
			}
		}
	}

	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printMissingByMunicipality(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, results, analysis)
	}

	if analysis.Errors > 0 {
		os.Exit(1)
	}
	if analysis.Coverage < *minCoverage {
		fmt.Printf("Coverage %d%% is below the required %d%%\n", analysis.Coverage, *minCoverage)
		os.Exit(1)
	}
}

func fetchMonth(client *http.Client, baseURL string, year int, month time.Month, municipio string) MonthResult {
	result := MonthResult{
		Period: fmt.Sprintf("%04d-%02d", year, int(month)),
		Year:   year,
	}

	q := url.Values{}
	q.Set("month", fmt.Sprint(int(month)-1))
	q.Set("year", fmt.Sprint(year))
	if municipio != "" {
		q.Set("municipio", municipio)
	}

	resp, err := client.Get(baseURL + "/api/v1/continuity?" + q.Encode())
	if err != nil {
		result.Error = fmt.Sprintf("Connection error: %v", err)
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("Read error: %v", err)
		return result
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		result.Error = fmt.Sprintf("Parse error: %v", err)
		return result
	}

	if !apiResp.Success {
		errMsg := "Unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		result.Error = errMsg
		return result
	}

	var report continuity.Report
	if err := json.Unmarshal(apiResp.Data, &report); err != nil {
		result.Error = fmt.Sprintf("Data parse error: %v", err)
		return result
	}

	result.Found = report.FoundCount
	result.Total = report.Total
	result.Coverage = report.CoveragePercent
	for _, m := range report.Missing {
		result.Missing = append(result.Missing, m.Reference)
	}

	return result
}

// Analysis holds the analyzed results
type Analysis struct {
	Months         int
	Errors         int
	Found          int
	Total          int
	Coverage       int
	ByYear         map[int]*YearStats
	ByMunicipality map[string]int // missing references per municipality
	AllMissing     []continuity.Event
	Failures       []MonthResult
}

type YearStats struct {
	Year     int `json:"year"`
	Found    int `json:"found"`
	Total    int `json:"total"`
	Coverage int `json:"coverage_percent"`
}

func analyzeResults(results []MonthResult) *Analysis {
	analysis := &Analysis{
		ByYear:         make(map[int]*YearStats),
		ByMunicipality: make(map[string]int),
	}

	for _, r := range results {
		analysis.Months++

		if r.Error != "" {
			analysis.Errors++
			analysis.Failures = append(analysis.Failures, r)
			continue
		}

		if _, ok := analysis.ByYear[r.Year]; !ok {
			analysis.ByYear[r.Year] = &YearStats{Year: r.Year}
		}
		analysis.ByYear[r.Year].Found += r.Found
		analysis.ByYear[r.Year].Total += r.Total

		analysis.Found += r.Found
		analysis.Total += r.Total

		for _, e := range r.Missing {
			analysis.ByMunicipality[e.Municipality]++
			analysis.AllMissing = append(analysis.AllMissing, e)
		}
	}

	for _, stats := range analysis.ByYear {
		stats.Coverage = percent(stats.Found, stats.Total)
	}
	analysis.Coverage = percent(analysis.Found, analysis.Total)

	return analysis
}

// percent matches the rounding of continuity reports.
func percent(found, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(found) / float64(total) * 100))
}

func printMonth(r MonthResult) {
	if r.Error != "" {
		fmt.Printf("  ✗ %s: %s\n", r.Period, r.Error)
		return
	}

	status := "✓"
	if r.Found < r.Total {
		status = "✗"
	}
	fmt.Printf("  %s %s: %d/%d (%d%%)\n", status, r.Period, r.Found, r.Total, r.Coverage)
	for _, e := range r.Missing {
		fmt.Printf("      - %s %s %s\n", calendar.FormatDay(e.Date), e.Municipality, e.Venue)
	}
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Months Checked:    %d\n", analysis.Months)
	fmt.Printf("Request Errors:    %d\n", analysis.Errors)
	fmt.Printf("References:        %d\n", analysis.Total)
	fmt.Printf("Booked Again:      %d (%d%%)\n", analysis.Found, analysis.Coverage)
	fmt.Printf("Missing:           %d\n", analysis.Total-analysis.Found)
	fmt.Println()

	fmt.Println("By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			fmt.Printf("  %d: %d/%d references (%d%%)\n",
				year, stats.Found, stats.Total, stats.Coverage)
		}
	}
	fmt.Println()

	for _, f := range analysis.Failures {
		fmt.Printf("  ✗ %s: %s\n", f.Period, f.Error)
	}
}

func printMissingByMunicipality(analysis *Analysis) {
	if len(analysis.AllMissing) == 0 {
		fmt.Println("Nothing missing! 🎉")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("MISSING BY MUNICIPALITY")
	fmt.Println("================================================================")

	names := make([]string, 0, len(analysis.ByMunicipality))
	for name := range analysis.ByMunicipality {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := analysis.ByMunicipality[names[i]], analysis.ByMunicipality[names[j]]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		fmt.Printf("  %-30s %d\n", name, analysis.ByMunicipality[name])
	}
	fmt.Println()
}

func saveResults(filename string, results []MonthResult, analysis *Analysis) {
	output := struct {
		GeneratedAt    string             `json:"generated_at"`
		Summary        map[string]any     `json:"summary"`
		ByYear         map[int]*YearStats `json:"by_year"`
		ByMunicipality map[string]int     `json:"missing_by_municipality"`
		Months         []MonthResult      `json:"months"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"months":           analysis.Months,
			"errors":           analysis.Errors,
			"references":       analysis.Total,
			"found":            analysis.Found,
			"coverage_percent": analysis.Coverage,
		},
		ByYear:         analysis.ByYear,
		ByMunicipality: analysis.ByMunicipality,
		Months:         results,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
