package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/calendar"
)

// Output formats accepted by --format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	chartDate       string
	chartTime       string
	chartGender     string
	chartFormat     string
	chartArithmetic bool
	chartTimeout    time.Duration
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Calculate a Four Pillars chart",
	Long: `Calculates the chart for one birth and prints the full reading: pillars,
ten gods, nayin, relationships, element distribution and void branches.

Without --time the hour pillar is taken at noon.`,
	Example: `  bazi chart --date 1990-06-15 --time 08:30 --gender female
  bazi chart --date 2024-02-10 --format yaml --arithmetic`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartDate, "date", "d", "", "birth date, YYYY-MM-DD (required)")
	chartCmd.Flags().StringVarP(&chartTime, "time", "t", "", "birth time, HH:MM[:SS]")
	chartCmd.Flags().StringVarP(&chartGender, "gender", "g", "", "male or female")
	chartCmd.Flags().StringVarP(&chartFormat, "format", "f", FormatJSON, "output format: json or yaml")
	chartCmd.Flags().BoolVar(&chartArithmetic, "arithmetic", false, "skip the precise calendar")
	chartCmd.Flags().DurationVar(&chartTimeout, "timeout", 2*time.Second, "bound on the precise calendar lookup")
	_ = chartCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	if chartFormat != FormatJSON && chartFormat != FormatYAML {
		return fmt.Errorf("unknown format %q: use json or yaml", chartFormat)
	}

	birth, err := calendar.ParseBirth(chartDate, chartTime, chartGender)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	engine := bazi.NewEngine(newResolver(chartArithmetic, chartTimeout))
	return writeReading(cmd.OutOrStdout(), chartFormat, engine.Calculate(ctx, birth))
}

// newResolver picks the calendar path for CLI commands.
func newResolver(arithmeticOnly bool, timeout time.Duration) *calendar.Resolver {
	if arithmeticOnly {
		return calendar.NewResolver(nil)
	}
	return calendar.NewLunarResolver(calendar.WithTimeout(timeout))
}

func writeReading(w io.Writer, format string, r bazi.Reading) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
