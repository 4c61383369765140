package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ccollicutt/miplog/pkg/analyzer"
	"github.com/ccollicutt/miplog/pkg/config"
	"github.com/ccollicutt/miplog/pkg/plot"
)

// PlotOptions holds command-line options for the plot command.
type PlotOptions struct {
	Output string
	Format string
	Width  int
	Height int
	Title  string
	Strict bool
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	opts := &PlotOptions{}

	cmd := &cobra.Command{
		Use:   "plot <log-file>",
		Short: "Render a progress chart of the last complete solver run",
		Long: `Render the branch-and-bound progress of the last complete run as a chart.

Best bound and best solution share the left axis. Explored %, gap % and the
node queue (as a percentage of its peak) share the right axis. Dashed
vertical lines mark each improvement of the best solution.

The image format follows --format, then the extension of --output, then the
chart.format config setting.

Example:
  miplog plot highs.log -o progress.png
  miplog plot highs.log -o progress.svg
  miplog plot --format svg highs.log > progress.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "Output image file (- for stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Image format (png|svg)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Image height in pixels")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Chart title")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail on the first malformed progress row")

	return cmd
}

func runPlot(cmd *cobra.Command, args []string, opts *PlotOptions) error {
	logFile := args[0]
	ctx := commandContext(cmd)
	ExitCode = ExitOK

	cfg, logger, err := loadConfig(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	plotOpts, err := plotOptions(cfg.Chart, opts)
	if err != nil {
		return err
	}

	toStdout := opts.Output == "" || opts.Output == "-"
	if toStdout && plotOpts.Format == plot.FormatPNG && isTerminal(cmd.OutOrStdout()) {
		return errors.New("refusing to write PNG data to a terminal; use --output or redirect stdout")
	}

	analyzerOpts := []analyzer.AnalyzerOption{analyzer.WithLogger(logger)}
	if cmd.Flags().Changed("strict") {
		analyzerOpts = append(analyzerOpts, analyzer.WithStrict(opts.Strict))
	}
	a, err := analyzer.NewAnalyzer(cfg, analyzerOpts...)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	result, err := a.AnalyzeFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", logFile, err)
	}
	if !result.HasData() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: no progress rows in run %d, nothing to plot\n", logFile, result.Run.Index+1)
		ExitCode = ExitNoData
		return nil
	}

	if toStdout {
		return renderPlot(cmd.OutOrStdout(), result, plotOpts)
	}

	// #nosec G304 -- output path is provided by the user
	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := renderPlot(f, result, plotOpts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	logger.Info("wrote chart", "file", opts.Output, "format", plotOpts.Format, "samples", result.Series.Len())
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s chart (%d samples) to %s\n",
		strings.ToUpper(string(plotOpts.Format)), result.Series.Len(), opts.Output)
	return nil
}

func renderPlot(w io.Writer, result *analyzer.AnalysisResult, opts plot.Options) error {
	if err := plot.Render(w, result.Series, opts); err != nil {
		if errors.Is(err, plot.ErrNoData) {
			ExitCode = ExitNoData
		}
		return err
	}
	return nil
}

// plotOptions merges flags over the chart config.
func plotOptions(cc config.ChartConfig, opts *PlotOptions) (plot.Options, error) {
	out := plot.Options{
		Width:  cc.Width,
		Height: cc.Height,
		Title:  cc.Title,
		Format: plot.Format(cc.Format),
	}
	if opts.Width > 0 {
		out.Width = opts.Width
	}
	if opts.Height > 0 {
		out.Height = opts.Height
	}
	if opts.Title != "" {
		out.Title = opts.Title
	}

	switch {
	case opts.Format != "":
		out.Format = plot.Format(strings.ToLower(opts.Format))
	case strings.EqualFold(filepath.Ext(opts.Output), ".svg"):
		out.Format = plot.FormatSVG
	case strings.EqualFold(filepath.Ext(opts.Output), ".png"):
		out.Format = plot.FormatPNG
	}

	if out.Format != plot.FormatPNG && out.Format != plot.FormatSVG {
		return plot.Options{}, fmt.Errorf("unknown image format %q (use png or svg)", out.Format)
	}
	return out, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
