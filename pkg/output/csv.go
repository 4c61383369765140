package output

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

// csvHeader names the columns written by CSVFormatter.
var csvHeader = []string{"time", "best_bound", "best_solution", "in_queue", "explored_pct", "gap_pct"}

// CSVFormatter writes the sample series as CSV, one row per sample.
// Undefined values are left empty.
type CSVFormatter struct {
	opts FormatOptions
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(opts FormatOptions) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format renders the samples of the report. A report without data yields
// only the header.
func (f *CSVFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range report.Samples {
		record := []string{
			csvValue(s.Time),
			csvValue(s.BestBound),
			csvValue(s.BestSolution),
			csvValue(s.InQueue),
			csvValue(s.Explored),
			csvValue(s.Gap),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvValue(v Value) string {
	if !v.Defined() {
		return ""
	}
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}
