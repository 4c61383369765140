// Package cli provides the command-line interface for miplog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/miplog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return commands.ExitError
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "miplog",
		Short: "Analyze HiGHS MIP solver logs",
		Long: `miplog reads HiGHS MIP solver logs and reports the branch-and-bound
progress of the last complete run: best bound, best solution, gap, explored
share of the tree and node queue over time.

A log may hold several solver runs. The most recent run that wrote its
solution is analyzed; when none did, the last run is used.

Exit codes:
  0 - Progress data found
  1 - No progress rows in the selected run
  2 - Configuration or runtime error`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&commands.Global.ConfigPath, "config", "c", "", "Config file (defaults reproduce HiGHS behaviour)")
	rootCmd.PersistentFlags().StringVar(&commands.Global.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
