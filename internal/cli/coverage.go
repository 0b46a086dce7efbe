package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// maxSamples caps the divergent dates kept per pillar.
const maxSamples = 10

// firstGregorianYear is the first whole year lunar-go reads as Gregorian.
// Earlier dates are Julian there, while the arithmetic day count is
// proleptic Gregorian, so the two calendars cannot be compared.
const firstGregorianYear = 1583

var (
	coverageStart   int
	coverageYears   int
	coverageHour    int
	coverageVerbose bool
	coverageOutput  string
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Compare the arithmetic calendar against the precise one",
	Long: `Walks every day in a range of years, computes the pillars with both the
precise and the arithmetic calendar and reports how often each pillar differs.

Divergence is expected near solar-term boundaries; the day pillar should
always agree. Years before 1583 are rejected: lunar-go switches to the
Julian calendar before 1582-10-15.`,
	Example: `  bazi coverage --start 1950 --years 10
  bazi coverage --start 2024 --years 1 --hour 23 -o report.json`,
	Args: cobra.NoArgs,
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().IntVar(&coverageStart, "start", 1950, "first year")
	coverageCmd.Flags().IntVar(&coverageYears, "years", 10, "number of years")
	coverageCmd.Flags().IntVar(&coverageHour, "hour", calendar.DefaultHour, "hour of day to sample, 0-23")
	coverageCmd.Flags().BoolVarP(&coverageVerbose, "verbose", "v", false, "list sample divergent dates")
	coverageCmd.Flags().StringVarP(&coverageOutput, "output", "o", "", "write the report as JSON to this file")
	rootCmd.AddCommand(coverageCmd)
}

// PillarStats counts disagreements for one pillar position.
type PillarStats struct {
	Pillar   string   `json:"pillar"`
	Diverged int      `json:"diverged"`
	Samples  []string `json:"samples,omitempty"`
}

// CoverageReport is the result of a coverage run.
type CoverageReport struct {
	StartYear   int            `json:"start_year"`
	EndYear     int            `json:"end_year"`
	Hour        int            `json:"hour"`
	Days        int            `json:"days"`
	Unavailable int            `json:"unavailable"`
	Pillars     [4]PillarStats `json:"pillars"`
}

// Agreement is the share of compared days on which pillar i matched.
func (r CoverageReport) Agreement(i int) float64 {
	compared := r.Days - r.Unavailable
	if compared == 0 {
		return 0
	}
	return 100 * float64(compared-r.Pillars[i].Diverged) / float64(compared)
}

var pillarLabels = [4]string{"year", "month", "day", "hour"}

func runCoverage(cmd *cobra.Command, _ []string) error {
	if coverageStart < firstGregorianYear {
		return fmt.Errorf("--start must be %d or later, got %d", firstGregorianYear, coverageStart)
	}
	if coverageYears < 1 {
		return fmt.Errorf("--years must be at least 1, got %d", coverageYears)
	}
	if coverageHour < 0 || coverageHour > 23 {
		return fmt.Errorf("--hour must be between 0 and 23, got %d", coverageHour)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	precise := calendar.NewPrecise(calendar.LunarBackend{},
		calendar.WithYearRange(firstGregorianYear, calendar.MaxInputYear))

	report, err := Coverage(ctx, precise, coverageStart, coverageYears, coverageHour)
	if err != nil {
		return err
	}

	printCoverage(cmd.OutOrStdout(), report, coverageVerbose)

	if coverageOutput != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(coverageOutput, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		cmd.Printf("Report written to %s\n", coverageOutput)
	}
	return nil
}

// yearResult is one worker's share of a coverage run.
type yearResult struct {
	days        int
	unavailable int
	diverged    [4][]string
}

// Coverage compares precise against the arithmetic calendar for every day
// of the given years at the given hour. Years are processed in parallel
// and merged in order, so samples are chronological.
func Coverage(ctx context.Context, precise calendar.Method, start, years, hour int) (CoverageReport, error) {
	results := make([]yearResult, years)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < years; i++ {
		g.Go(func() error {
			res, err := coverYear(gctx, precise, start+i, hour)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CoverageReport{}, err
	}

	report := CoverageReport{
		StartYear: start,
		EndYear:   start + years - 1,
		Hour:      hour,
	}
	for i := range report.Pillars {
		report.Pillars[i].Pillar = pillarLabels[i]
	}
	for _, res := range results {
		report.Days += res.days
		report.Unavailable += res.unavailable
		for i, dates := range res.diverged {
			report.Pillars[i].Diverged += len(dates)
			for _, d := range dates {
				if len(report.Pillars[i].Samples) < maxSamples {
					report.Pillars[i].Samples = append(report.Pillars[i].Samples, d)
				}
			}
		}
	}
	return report, nil
}

func coverYear(ctx context.Context, precise calendar.Method, year, hour int) (yearResult, error) {
	var res yearResult
	var arithmetic calendar.Arithmetic

	for d := time.Date(year, 1, 1, hour, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return yearResult{}, err
		}
		res.days++

		want, err := precise.Pillars(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return yearResult{}, ctx.Err()
			}
			res.unavailable++
			continue
		}

		got := arithmetic.Compute(d).Array()
		for i, p := range want.Array() {
			if p != got[i] {
				res.diverged[i] = append(res.diverged[i], divergence(d, p, got[i]))
			}
		}
	}
	return res, nil
}

func divergence(d time.Time, precise, arithmetic sexagenary.Pillar) string {
	return fmt.Sprintf("%s %s/%s", calendar.FormatDate(d), precise, arithmetic)
}

func printCoverage(w io.Writer, r CoverageReport, verbose bool) {
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintln(w, "Arithmetic calendar coverage")
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintf(w, "Date Range:  %d-01-01 to %d-12-31\n", r.StartYear, r.EndYear)
	fmt.Fprintf(w, "Hour:        %02d:00\n", r.Hour)
	fmt.Fprintf(w, "Days:        %d\n", r.Days)
	if r.Unavailable > 0 {
		fmt.Fprintf(w, "Unavailable: %d\n", r.Unavailable)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-8s %10s %10s\n", "Pillar", "Diverged", "Agreement")
	for i, p := range r.Pillars {
		fmt.Fprintf(w, "%-8s %10d %9.2f%%\n", p.Pillar, p.Diverged, r.Agreement(i))
	}

	if !verbose {
		return
	}
	for _, p := range r.Pillars {
		if len(p.Samples) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (precise/arithmetic):\n", p.Pillar)
		for _, s := range p.Samples {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
}
