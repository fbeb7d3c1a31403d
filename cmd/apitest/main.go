// Command apitest runs a smoke test suite against a running Verbenas API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -key $API_KEY
//
// Without -key the write round trip is skipped unless the server runs in
// development mode with no key configured.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/verbenas-api/internal/continuity"
	"github.com/zapponejosh/verbenas-api/internal/database"
)

// APIResponse matches the API response envelope.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// CarnivalResponse is the response for /carnival/{year}
type CarnivalResponse struct {
	Year             int    `json:"year"`
	EasterSunday     string `json:"easter_sunday"`
	CarnivalSaturday string `json:"carnival_saturday"`
	CarnivalTuesday  string `json:"carnival_tuesday"`
	AshWednesday     string `json:"ash_wednesday"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Verbenas API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testCarnival()
	tr.testReadEndpoints()
	tr.testEdgeCases()
	tr.testContinuityRoundTrip()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testCarnival() {
	tr.printSection("Carnival Dates")

	testCases := []struct {
		year    int
		tuesday string
		easter  string
	}{
		{2023, "2023-02-21", "2023-04-09"},
		{2024, "2024-02-13", "2024-03-31"},
		{2025, "2025-03-04", "2025-04-20"},
		{2038, "2038-03-09", "2038-04-25"},
	}

	for _, tc := range testCases {
		var data CarnivalResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/carnival/%d", tc.year), &data); err != nil {
			tr.recordError(fmt.Sprint(tc.year), err.Error())
			continue
		}

		if data.CarnivalTuesday == tc.tuesday && data.EasterSunday == tc.easter {
			tr.recordSuccess(fmt.Sprintf("%d: Carnival Tuesday %s, Easter %s",
				tc.year, data.CarnivalTuesday, data.EasterSunday))
		} else {
			tr.recordError(fmt.Sprint(tc.year), fmt.Sprintf("Expected %s / %s, got %s / %s",
				tc.tuesday, tc.easter, data.CarnivalTuesday, data.EasterSunday))
		}
	}
}

func (tr *TestRunner) testReadEndpoints() {
	tr.printSection("Read Endpoints")

	var names []string
	if err := tr.getData("/api/v1/municipalities", &names); err != nil {
		tr.recordError("Municipalities", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Municipalities: %d", len(names)))
		if tr.verbose {
			fmt.Printf("    %s\n", strings.Join(names, ", "))
		}
	}

	var stats database.EventStats
	if err := tr.getData("/api/v1/stats", &stats); err != nil {
		tr.recordError("Stats", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Stats: %d events, %s..%s",
			stats.TotalEvents, stats.EarliestDay, stats.LatestDay))
	}

	var list struct {
		Count int `json:"count"`
	}
	if err := tr.getData("/api/v1/events?limit=5", &list); err != nil {
		tr.recordError("Events", err.Error())
	} else if list.Count > 5 {
		tr.recordError("Events", fmt.Sprintf("limit=5 returned %d events", list.Count))
	} else {
		tr.recordSuccess(fmt.Sprintf("Events page: %d", list.Count))
	}

	var report continuity.Report
	if err := tr.getData("/api/v1/continuity?month=5", &report); err != nil {
		tr.recordError("Continuity", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Continuity %s: %d/%d (%d%%)",
			report.Period, report.FoundCount, report.Total, report.CoveragePercent))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	for _, path := range []string{
		"/api/v1/continuity",
		"/api/v1/continuity?month=12",
		"/api/v1/continuity?month=-1",
		"/api/v1/carnival/1200",
		"/api/v1/events/abc",
		"/api/v1/events?from=2025/01/01",
	} {
		tr.expectStatus(path, http.MethodGet, path, nil, http.StatusBadRequest)
	}

	tr.expectStatus("Unknown event", http.MethodGet, "/api/v1/events/999999999", nil, http.StatusNotFound)
	tr.expectStatus("Unknown route", http.MethodGet, "/api/v1/nope", nil, http.StatusNotFound)
}

// testContinuityRoundTrip books an event in two consecutive years under a
// throwaway municipality, checks that continuity finds it, then deletes both.
func (tr *TestRunner) testContinuityRoundTrip() {
	tr.printSection("Continuity Round Trip")

	municipio := "Smoke " + uuid.NewString()[:8]
	events := []database.EventRecord{
		{Day: "2098-06-14", Municipio: municipio, Lugar: "Plaza", Tipo: "Baile Normal", Hora: "23:00"},
		{Day: "2099-06-13", Municipio: municipio, Lugar: "Plaza", Tipo: "Baile Normal", Hora: "23:00"},
	}

	var created []int64
	defer func() {
		for _, id := range created {
			tr.expectStatus(fmt.Sprintf("Delete %d", id), http.MethodDelete,
				fmt.Sprintf("/api/v1/events/%d", id), nil, http.StatusNoContent)
		}
	}()

	for _, e := range events {
		resp, err := tr.do(http.MethodPost, "/api/v1/events", e)
		if err != nil {
			tr.recordError("Create", err.Error())
			return
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			fmt.Println("  - skipped: write endpoints need -key")
			return
		}

		var record database.EventRecord
		if err := tr.decode(resp, http.StatusCreated, &record); err != nil {
			tr.recordError("Create", err.Error())
			return
		}
		created = append(created, record.ID)
		tr.recordSuccess(fmt.Sprintf("Created event %d on %s", record.ID, record.Day))
	}

	tr.expectStatus("Duplicate slot", http.MethodPost, "/api/v1/events", events[0], http.StatusConflict)

	var report continuity.Report
	path := "/api/v1/continuity?month=5&year=2099&municipio=" + strings.ReplaceAll(municipio, " ", "%20")
	if err := tr.getData(path, &report); err != nil {
		tr.recordError("Continuity", err.Error())
		return
	}

	if report.Total == 1 && report.FoundCount == 1 && report.CoveragePercent == 100 {
		tr.recordSuccess("Rebooked event found at distance 0")
	} else {
		tr.recordError("Continuity", fmt.Sprintf("Expected 1/1 found, got %d/%d", report.FoundCount, report.Total))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) do(method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}

	return tr.client.Do(req)
}

// decode reads an envelope with the wanted status and unmarshals its data.
func (tr *TestRunner) decode(resp *http.Response, want int, target any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if resp.StatusCode != want || !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return tr.decode(resp, http.StatusOK, target)
}

func (tr *TestRunner) expectStatus(name, method, path string, body any, want int) {
	resp, err := tr.do(method, path, body)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == want {
		tr.recordSuccess(fmt.Sprintf("%s -> %d", name, want))
	} else {
		tr.recordError(name, fmt.Sprintf("Expected HTTP %d, got %d", want, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}

	fmt.Println("All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for write endpoints")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
