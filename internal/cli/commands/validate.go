package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/miplog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a miplog configuration file without analyzing a log.

Checks:
  - YAML syntax
  - Run markers are set
  - Row pattern is a valid regular expression
  - Chart size and image format
  - Log level and format`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Run start marker:  %q\n", cfg.Markers.RunStart)
	fmt.Fprintf(w, "  Solution marker:   %q\n", cfg.Markers.SolutionWritten)
	fmt.Fprintf(w, "  Row pattern:       %s\n", cfg.Parser.RowPattern)
	fmt.Fprintf(w, "  Strict parsing:    %t\n", cfg.Parser.Strict)
	fmt.Fprintf(w, "  Chart:             %dx%d %s, %q\n", cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.Format, cfg.Chart.Title)
	fmt.Fprintf(w, "  Logging:           %s (%s)\n", cfg.Log.Level, cfg.Log.Format)

	return nil
}
