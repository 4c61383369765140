// Package output provides formatting for run analysis reports.
package output

import (
	"math"
	"strconv"
	"time"

	"github.com/ccollicutt/miplog/pkg/analyzer"
	"github.com/ccollicutt/miplog/pkg/parser"
)

// Value is a float that encodes NaN and infinities as JSON null.
type Value float64

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(v), 'g', -1, 64), nil
}

// Defined reports whether v holds a finite number.
func (v Value) Defined() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Report is the complete analysis output for one log file.
type Report struct {
	Source   string              `json:"source"`
	Summary  Summary             `json:"summary"`
	Run      Run                 `json:"run"`
	Anchor   *AxisRange          `json:"axis_anchor,omitempty"`
	Samples  []Sample            `json:"samples"`
	Changes  []Change            `json:"solution_changes"`
	Rejected []Rejected          `json:"rejected_rows,omitempty"`
	Runs     []parser.RunSummary `json:"runs,omitempty"`
	Metadata Metadata            `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	HasData        bool  `json:"has_data"`
	Samples        int   `json:"samples"`
	Rejected       int   `json:"rejected"`
	Changes        int   `json:"solution_changes"`
	LinesProcessed int   `json:"lines_processed"`
	ElapsedSeconds Value `json:"elapsed_seconds"`
	BestBound      Value `json:"best_bound"`
	BestSolution   Value `json:"best_solution"`
	GapPercent     Value `json:"gap_percent"`
}

// Run describes the analyzed run segment.
type Run struct {
	Index     int  `json:"index"`
	Runs      int  `json:"runs"`
	StartLine int  `json:"start_line"`
	Lines     int  `json:"lines"`
	Completed bool `json:"completed"`
}

// AxisRange is the suggested objective axis range.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Sample is one progress sample.
type Sample struct {
	Time         Value `json:"time"`
	BestBound    Value `json:"best_bound"`
	BestSolution Value `json:"best_solution"`
	InQueue      Value `json:"in_queue"`
	Explored     Value `json:"explored_pct"`
	Gap          Value `json:"gap_pct"`
}

// Change marks a sample where the best solution changed.
type Change struct {
	Index int   `json:"index"`
	Time  Value `json:"time"`
	From  Value `json:"from"`
	To    Value `json:"to"`
}

// Rejected is a progress row that was skipped.
type Rejected struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	AnalyzedAt time.Time     `json:"analyzed_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from an analysis result.
func NewReport(result *analyzer.AnalysisResult, source string) *Report {
	nan := Value(math.NaN())
	report := &Report{
		Source: source,
		Run: Run{
			Index:     result.Run.Index,
			Runs:      result.Run.Runs,
			StartLine: result.Run.StartLine,
			Lines:     result.Run.Lines,
			Completed: result.Run.Completed,
		},
		Samples: make([]Sample, 0, result.Series.Len()),
		Changes: make([]Change, 0, len(result.Changes)),
		Runs:    result.Runs,
		Metadata: Metadata{
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			HasData:        result.HasData(),
			Samples:        result.Stats.Parsed,
			Rejected:       result.Stats.Rejected,
			Changes:        len(result.Changes),
			LinesProcessed: result.Stats.LinesProcessed,
			ElapsedSeconds: nan,
			BestBound:      nan,
			BestSolution:   nan,
			GapPercent:     nan,
		},
	}

	if result.Anchor != nil {
		report.Anchor = &AxisRange{Min: result.Anchor.Min, Max: result.Anchor.Max}
	}

	s := result.Series
	for i := 0; i < s.Len(); i++ {
		p := s.Sample(i)
		report.Samples = append(report.Samples, Sample{
			Time:         Value(p.TimeSeconds),
			BestBound:    Value(p.BestBound),
			BestSolution: Value(p.BestSolution),
			InQueue:      Value(p.InQueue),
			Explored:     Value(p.ExploredPercent),
			Gap:          Value(p.GapPercent),
		})
	}
	for _, i := range result.Changes {
		report.Changes = append(report.Changes, Change{
			Index: i,
			Time:  Value(s.Time[i]),
			From:  Value(s.BestSolution[i-1]),
			To:    Value(s.BestSolution[i]),
		})
	}
	for _, r := range result.Rejected {
		report.Rejected = append(report.Rejected, Rejected{
			Line:   r.LineNum,
			Text:   r.Line,
			Reason: r.Reason(),
		})
	}

	if n := len(report.Samples); n > 0 {
		last := report.Samples[n-1]
		report.Summary.ElapsedSeconds = last.Time
		report.Summary.BestBound = last.BestBound
		report.Summary.BestSolution = last.BestSolution
		report.Summary.GapPercent = last.Gap
	}

	return report
}

// HasData returns true if the run produced any progress sample.
func (r *Report) HasData() bool {
	return r.Summary.HasData
}
