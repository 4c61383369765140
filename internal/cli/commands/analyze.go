package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/miplog/pkg/analyzer"
	"github.com/ccollicutt/miplog/pkg/output"
	"github.com/ccollicutt/miplog/pkg/parser"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output  string
	Strict  bool
	Verbose bool
	Quiet   bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <log-file|glob>...",
		Short: "Report the progress of the last complete solver run",
		Long: `Analyze HiGHS MIP logs and report the branch-and-bound progress of the
last complete run in each file.

A run is complete once the solver wrote its solution. When no run in a file
completed, the last run is analyzed instead.

Progress rows that cannot be parsed are skipped with a warning, or fail the
analysis with --strict.

Exit codes:
  0 - Progress data found in every file
  1 - A selected run has no progress rows
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|csv)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail on the first malformed progress row")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show rejected rows and timing details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := commandContext(cmd)
	ExitCode = ExitOK

	cfg, logger, err := loadConfig(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding log files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no log files matched patterns: %v", args)
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	analyzerOpts := []analyzer.AnalyzerOption{
		analyzer.WithVerbose(opts.Verbose),
		analyzer.WithLogger(logger),
	}
	if cmd.Flags().Changed("strict") {
		analyzerOpts = append(analyzerOpts, analyzer.WithStrict(opts.Strict))
	}

	a, err := analyzer.NewAnalyzer(cfg, analyzerOpts...)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	for _, file := range files {
		result, err := a.AnalyzeFile(ctx, file)
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", file, err)
		}

		report := output.NewReport(result, file)
		if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}

		if !report.HasData() {
			logger.Info("no progress rows", "file", file, "run", result.Run.Index)
			ExitCode = ExitNoData
		}
	}

	return nil
}
