package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/miplog/pkg/detector"
	"github.com/ccollicutt/miplog/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Check whether a file is a supported solver log",
		Long: `Inspect a log file and report how it is laid out.

Reports the solver runs found (and which of them completed), the progress
table header, the column layouts of the progress rows and a confidence
that the file is a supported HiGHS MIP log.

Optionally generates a starter config file with --write-config.

Example:
  miplog detect highs.log
  miplog detect --sample 5000 highs.log
  miplog detect -w miplog.yaml highs.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 0, "Number of lines to read (0 reads the whole file)")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := commandContext(cmd)
	ExitCode = ExitOK

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	cfg, _, err := loadConfig(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithMarkers(cfg.Markers.RunStart, cfg.Markers.SolutionWritten),
		detector.WithRowPattern(cfg.Parser.CompiledRowPattern()),
	)

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		data, err := detector.StarterConfig(result, logFile, cfg)
		if err != nil {
			return err
		}
		if err := detector.WriteStarterConfig(opts.WriteConfig, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote starter config to: %s\n", opts.WriteConfig)
	}

	if result.Parsed == 0 {
		ExitCode = ExitNoData
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(cmd.OutOrStdout(), result, logFile)
	case "text":
		return outputDetectText(cmd.OutOrStdout(), result, logFile)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string) error {
	fmt.Fprintln(w, "=== Solver Log Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %s\n", humanize.Comma(int64(result.SampledLines)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Runs: %d (%d completed)\n", len(result.Runs), result.CompletedRuns())
	for _, run := range result.Runs {
		fmt.Fprintf(w, "  %d. line %s, %s lines, %s\n",
			run.Index+1,
			humanize.Comma(int64(run.StartLine)),
			humanize.Comma(int64(run.Lines)),
			runStatus(run))
	}
	if result.RunMarkers == 0 {
		fmt.Fprintln(w, "  (no run-start marker; the whole file is one run)")
	}
	fmt.Fprintln(w)

	if result.HeaderLine > 0 {
		fmt.Fprintf(w, "Progress header: line %s\n", humanize.Comma(int64(result.HeaderLine)))
	} else {
		fmt.Fprintln(w, "Progress header: not found")
	}
	fmt.Fprintf(w, "Progress rows: %s (%s parsed, %s rejected)\n",
		humanize.Comma(int64(result.Candidates)),
		humanize.Comma(int64(result.Parsed)),
		humanize.Comma(int64(result.Rejected())))
	for _, l := range result.Layouts {
		fmt.Fprintf(w, "  %s: %s rows\n", l.Name, humanize.Comma(int64(l.MatchCount)))
		fmt.Fprintf(w, "    %s\n", l.SampleLine)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Confidence: %.0f%%\n", result.Confidence*100)
	if !result.Supported() {
		fmt.Fprintln(w, "No supported solver log layout detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: check that the file is a HiGHS MIP log, or set markers and")
		fmt.Fprintln(w, "parser.row_pattern in a config file for a different layout.")
		return nil
	}

	fmt.Fprintln(w, "Detected: HiGHS MIP log")
	if result.Rejected() > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "WARNING: some progress rows do not parse; run 'miplog diagnose' for details.")
	}
	return nil
}

func runStatus(run parser.RunSummary) string {
	if run.Completed {
		return "completed"
	}
	return "incomplete"
}

// JSONLayout represents a progress row layout in JSON output.
type JSONLayout struct {
	Columns    int    `json:"columns"`
	Name       string `json:"name"`
	Supported  bool   `json:"supported"`
	MatchCount int    `json:"match_count"`
	SampleLine string `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string              `json:"file"`
	SampledLines int                 `json:"sampled_lines"`
	Runs         []parser.RunSummary `json:"runs"`
	HeaderLine   int                 `json:"header_line,omitempty"`
	Candidates   int                 `json:"progress_rows"`
	Parsed       int                 `json:"parsed_rows"`
	Layouts      []JSONLayout        `json:"layouts"`
	Confidence   float64             `json:"confidence"`
	Supported    bool                `json:"supported"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string) error {
	out := JSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		Runs:         result.Runs,
		HeaderLine:   result.HeaderLine,
		Candidates:   result.Candidates,
		Parsed:       result.Parsed,
		Layouts:      make([]JSONLayout, 0, len(result.Layouts)),
		Confidence:   result.Confidence,
		Supported:    result.Supported(),
	}
	if out.Runs == nil {
		out.Runs = []parser.RunSummary{}
	}
	for _, l := range result.Layouts {
		out.Layouts = append(out.Layouts, JSONLayout{
			Columns:    l.Columns,
			Name:       l.Name,
			Supported:  l.Supported,
			MatchCount: l.MatchCount,
			SampleLine: l.SampleLine,
		})
	}

	data, err := sonic.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding detection result: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
