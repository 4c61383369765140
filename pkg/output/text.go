package output

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	if !report.HasData() {
		_, err := fmt.Fprintf(w, "%s: no progress rows in run %d\n", report.Source, report.Run.Index+1)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: run %d, %s samples, best solution %s, gap %s%%, %ss\n",
		report.Source,
		report.Run.Index+1,
		humanize.Comma(int64(report.Summary.Samples)),
		formatValue(report.Summary.BestSolution),
		formatValue(report.Summary.GapPercent),
		formatValue(report.Summary.ElapsedSeconds))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== miplog Run Report ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Source: %s\n", report.Source)

	status := "incomplete"
	if report.Run.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "Run:    %d of %d (%s, line %d, %s lines)\n",
		report.Run.Index+1,
		report.Run.Runs,
		status,
		report.Run.StartLine,
		humanize.Comma(int64(report.Run.Lines)))
	fmt.Fprintln(w)

	if !report.HasData() {
		fmt.Fprintln(w, "No progress rows found.")
		f.formatRejected(report, w)
		return nil
	}

	if err := f.formatTable(report, w); err != nil {
		return err
	}
	f.formatRejected(report, w)

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s samples, %d solution changes, %s rejected rows\n",
		humanize.Comma(int64(report.Summary.Samples)),
		report.Summary.Changes,
		humanize.Comma(int64(report.Summary.Rejected)))
	fmt.Fprintf(w, "Final:   bound %s, solution %s, gap %s%% after %ss\n",
		formatValue(report.Summary.BestBound),
		formatValue(report.Summary.BestSolution),
		formatValue(report.Summary.GapPercent),
		formatValue(report.Summary.ElapsedSeconds))
	if report.Anchor != nil {
		fmt.Fprintf(w, "Axis:    [%s, %s]\n",
			strconv.FormatFloat(report.Anchor.Min, 'g', 6, 64),
			strconv.FormatFloat(report.Anchor.Max, 'g', 6, 64))
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %s\n", humanize.Comma(int64(report.Summary.LinesProcessed)))
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

var tableHeader = []string{"Time", "BestBound", "BestSol", "Gap%", "Expl.%", "InQueue", ""}

func (f *TextFormatter) formatTable(report *Report, w io.Writer) error {
	changed := make(map[int]bool, len(report.Changes))
	for _, c := range report.Changes {
		changed[c.Index] = true
	}

	rows := make([][]string, 0, len(report.Samples)+1)
	rows = append(rows, tableHeader)
	for i, s := range report.Samples {
		mark := ""
		if changed[i] {
			mark = "*"
		}
		rows = append(rows, []string{
			formatValue(s.Time) + "s",
			formatValue(s.BestBound),
			formatValue(s.BestSolution),
			formatValue(s.Gap),
			formatValue(s.Explored),
			formatValue(s.InQueue),
			mark,
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillLeft(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	return nil
}

func (f *TextFormatter) formatRejected(report *Report, w io.Writer) {
	if len(report.Rejected) == 0 {
		return
	}
	fmt.Fprintf(w, "Rejected rows: %d\n", len(report.Rejected))
	if !f.opts.Verbose {
		fmt.Fprintln(w)
		return
	}
	for _, r := range report.Rejected {
		fmt.Fprintf(w, "  - line %d: %s\n", r.Line, r.Reason)
		fmt.Fprintf(w, "    %s\n", strings.TrimSpace(r.Text))
	}
	fmt.Fprintln(w)
}

// formatValue renders a sample value, with "-" for undefined values.
func formatValue(v Value) string {
	if !v.Defined() {
		return "-"
	}
	return strconv.FormatFloat(float64(v), 'g', 6, 64)
}
