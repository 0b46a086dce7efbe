// Command apitest runs smoke checks against a running bazi API.
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

	"github.com/tidwall/gjson"
)

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("BaZi API Smoke Test")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testKnownCharts()
	tr.testBatch()
	tr.testInvalidInput()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	data, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if status := data.Get("status").String(); status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (calendar: %s)", data.Get("calendar").String()))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", status))
	}
}

func (tr *TestRunner) testKnownCharts() {
	tr.printSection("Known Charts")

	testCases := []struct {
		date, clock string
		want        []string
		description string
	}{
		{"2000-01-01", "", []string{"己卯", "丙子", "戊午", "戊午"}, "Date only, noon default"},
		{"2024-02-10", "12:00", []string{"甲辰", "丙寅", "甲辰", "庚午"}, "Lunar New Year 2024"},
		{"2021-01-01", "23:30", nil, "Late rat hour"},
	}

	for _, tc := range testCases {
		path := "/api/v1/charts?date=" + tc.date
		if tc.clock != "" {
			path += "&time=" + tc.clock
		}

		data, err := tr.get(path)
		if err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}

		got := pillarNames(data)
		if len(got) != 4 {
			tr.recordError(tc.description, fmt.Sprintf("expected 4 pillars, got %d", len(got)))
			continue
		}
		if tc.want != nil && strings.Join(got, " ") != strings.Join(tc.want, " ") {
			tr.recordError(tc.description, fmt.Sprintf("got %v, want %v", got, tc.want))
			continue
		}

		tr.recordSuccess(fmt.Sprintf("%s %s: %s", tc.date, tc.clock, strings.Join(got, " ")))
		if tr.verbose {
			tr.printReadingDetail(data)
		}
	}
}

func (tr *TestRunner) testBatch() {
	tr.printSection("Batch")

	body := map[string]any{
		"births": []map[string]string{
			{"date": "1990-06-15", "time": "08:30", "gender": "female"},
			{"date": "2000-01-01"},
		},
	}
	data, err := tr.post("/api/v1/charts/batch", body)
	if err != nil {
		tr.recordError("Batch", err.Error())
		return
	}

	readings := data.Array()
	if len(readings) != 2 {
		tr.recordError("Batch", fmt.Sprintf("expected 2 readings, got %d", len(readings)))
		return
	}
	if day := readings[1].Get("chart.pillars.2.name").String(); day != "戊午" {
		tr.recordError("Batch", fmt.Sprintf("second reading out of order: day pillar %s", day))
		return
	}
	tr.recordSuccess("Batch of 2 returned in order")
}

func (tr *TestRunner) testInvalidInput() {
	tr.printSection("Invalid Input")

	paths := []string{
		"/api/v1/charts",
		"/api/v1/charts?date=2024-13-01",
		"/api/v1/charts?date=2024-01-01&time=25:00",
		"/api/v1/charts?date=2024-01-01&gender=unknown",
	}

	for _, path := range paths {
		resp, err := tr.client.Get(tr.baseURL + path)
		if err != nil {
			tr.recordError(path, err.Error())
			continue
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		code := gjson.GetBytes(raw, "error.code").String()
		if resp.StatusCode == http.StatusBadRequest && code == "BAD_REQUEST" {
			tr.recordSuccess(fmt.Sprintf("%s rejected", path))
		} else {
			tr.recordError(path, fmt.Sprintf("HTTP %d, code %q", resp.StatusCode, code))
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (gjson.Result, error) {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return gjson.Result{}, err
	}
	return readEnvelope(resp)
}

func (tr *TestRunner) post(path string, body any) (gjson.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("marshal error: %w", err)
	}
	resp, err := tr.client.Post(tr.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, err
	}
	return readEnvelope(resp)
}

// readEnvelope unwraps the {success,data,error} envelope.
func readEnvelope(resp *http.Response) (gjson.Result, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read error: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("parse error: HTTP %d returned invalid JSON", resp.StatusCode)
	}

	env := gjson.ParseBytes(body)
	if !env.Get("success").Bool() {
		errMsg := env.Get("error.message").String()
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return gjson.Result{}, fmt.Errorf("API error: %s", errMsg)
	}
	return env.Get("data"), nil
}

func pillarNames(reading gjson.Result) []string {
	var names []string
	for _, p := range reading.Get("chart.pillars.#.name").Array() {
		names = append(names, p.String())
	}
	return names
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printReadingDetail(r gjson.Result) {
	fmt.Printf("    Day master: %s (%s)\n",
		r.Get("chart.pillars.2.stem.symbol").String(),
		r.Get("elements.strength").String())
	for _, f := range r.Get("relationships").Array() {
		fmt.Printf("    - %s %v\n", f.Get("kind").String(), f.Get("positions").Value())
	}
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
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show reading details)")
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

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
