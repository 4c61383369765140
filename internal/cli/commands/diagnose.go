package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/miplog/pkg/analyzer"
	"github.com/ccollicutt/miplog/pkg/config"
	"github.com/ccollicutt/miplog/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <log-file>",
		Short: "Explain how a log file is parsed",
		Long: `Diagnose why a log file does or does not produce progress data.

This command checks:
- Log file existence and accessibility
- Configuration (--config or built-in defaults)
- Run markers and which run is selected
- Every candidate progress row of the selected run (parsed or rejected)

Example:
  miplog diagnose highs.log
  miplog diagnose -v highs.log  # include the raw row text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(commandContext(cmd), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, logFile string, opts *DiagnoseOptions) error {
	ExitCode = ExitOK
	results := []DiagnosticResult{}

	// 1. Check log file
	result := checkLogFile(logFile)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, nil, opts)
		ExitCode = ExitError
		return nil
	}

	// 2. Load configuration
	cfg, result := checkConfig(ctx)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, nil, opts)
		ExitCode = ExitError
		return nil
	}

	// 3. Analyze with a row trace, never strict so every row gets a verdict
	a, err := analyzer.NewAnalyzer(cfg,
		analyzer.WithStrict(false),
		analyzer.WithVerbose(true),
		analyzer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}
	analysis, err := a.AnalyzeFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", logFile, err)
	}

	// 4. Run selection
	results = append(results, checkRuns(cfg, analysis))

	// 5. Progress rows
	results = append(results, checkRows(analysis))

	// 6. Axis anchor
	results = append(results, checkAnchor(analysis))

	printDiagnostics(w, results, analysis, opts)

	if !analysis.HasData() {
		ExitCode = ExitNoData
	}
	return nil
}

func checkLogFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Log file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access log file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = fmt.Sprintf("Path is a directory, not a file: %s", path)
		return result
	}
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "Log file is empty"
		result.Suggests = []string{"Check that the solver log was written to this file"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	return result
}

func checkConfig(ctx context.Context) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Configuration",
	}

	cfg, err := config.LoadOrDefault(ctx, Global.ConfigPath)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		result.Suggests = []string{"Run 'miplog validate <config-file>' for details"}
		return nil, result
	}

	result.Status = "ok"
	if Global.ConfigPath == "" {
		result.Message = "Using built-in HiGHS defaults"
	} else {
		result.Message = fmt.Sprintf("Loaded %s", Global.ConfigPath)
	}
	result.Details = []string{
		fmt.Sprintf("Run start marker: %q", cfg.Markers.RunStart),
		fmt.Sprintf("Solution marker: %q", cfg.Markers.SolutionWritten),
		fmt.Sprintf("Row pattern: %s", cfg.Parser.RowPattern),
	}
	return cfg, result
}

func checkRuns(cfg *config.Config, a *analyzer.AnalysisResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Run Selection",
	}

	completed := 0
	for _, run := range a.Runs {
		if run.Completed {
			completed++
		}
		result.Details = append(result.Details, fmt.Sprintf("Run %d: line %d, %d lines, %s",
			run.Index+1, run.StartLine, run.Lines, runStatus(run)))
	}

	switch {
	case len(a.Runs) == 0:
		result.Status = "error"
		result.Message = "Log file has no lines"
		return result
	case a.Run.Completed:
		result.Status = "ok"
	default:
		result.Status = "warning"
		result.Suggests = []string{
			fmt.Sprintf("No run reached %q; the last run was used", cfg.Markers.SolutionWritten),
		}
	}

	result.Message = fmt.Sprintf("Selected run %d of %d (%d completed), starting at line %d",
		a.Run.Index+1, a.Run.Runs, completed, a.Run.StartLine)
	return result
}

func checkRows(a *analyzer.AnalysisResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Progress Rows",
	}

	switch {
	case a.Stats.Candidates == 0:
		result.Status = "error"
		result.Message = "No progress rows in the selected run"
		result.Suggests = []string{
			"The run may be an LP solve or may have ended before branch-and-bound",
			"Use 'miplog detect' to see the layout of the whole file",
		}
	case a.Stats.Rejected > 0:
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d of %d rows parsed, %d rejected",
			a.Stats.Parsed, a.Stats.Candidates, a.Stats.Rejected)
		result.Suggests = []string{"Rejected rows are skipped; --strict turns them into errors"}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("All %d rows parsed", a.Stats.Parsed)
	}

	for _, r := range a.Rejected {
		result.Details = append(result.Details, r.Error())
	}
	return result
}

func checkAnchor(a *analyzer.AnalysisResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Objective Axis",
	}

	if a.Anchor == nil {
		result.Status = "warning"
		result.Message = "No sample with a defined gap; the chart axis will fit the data"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Anchored at [%s, %s]", formatFloat(a.Anchor.Min), formatFloat(a.Anchor.Max))
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, a *analyzer.AnalysisResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== miplog Log Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	if a != nil && len(a.Trace) > 0 {
		printRowVerdicts(w, a.Trace, opts)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nThe log will not produce a progress report.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nThe log is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nThe log looks good!")
	}
}

func printRowVerdicts(w io.Writer, trace []parser.RowTrace, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "--- Row verdicts ---")
	for _, row := range trace {
		if row.Err != nil {
			fmt.Fprintf(w, "line %5d  REJECTED  %v\n", row.LineNum, reason(row.Err))
		} else {
			s := row.Sample
			fmt.Fprintf(w, "line %5d  ok        t=%ss bound=%s solution=%s gap=%s%%\n",
				row.LineNum,
				formatFloat(s.TimeSeconds),
				formatFloat(s.BestBound),
				formatFloat(s.BestSolution),
				formatFloat(s.GapPercent))
		}
		if opts.Verbose {
			fmt.Fprintf(w, "            %s\n", truncate(row.Line, 120))
		}
	}
	fmt.Fprintln(w)
}

func reason(err error) string {
	var rowErr *parser.RowError
	if errors.As(err, &rowErr) {
		return rowErr.Reason()
	}
	return err.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// truncate shortens a string to maxLen characters
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
