// Package cli implements the bazi command-line tool.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/bazi-api/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "bazi",
	Short: "Four Pillars chart calculator",
	Long: `Computes BaZi (Four Pillars of Destiny) charts from a birth date and time.

Pillars come from the lunar-go solar-term calendar when it can answer and from
a fixed-date arithmetic approximation otherwise.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		slog.SetDefault(logger.New(cmd.ErrOrStderr(), logLevel, logFormat))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// Main is the entry point used by cmd/bazi.
func Main() {
	os.Exit(Execute())
}
