// Package analyzer selects the run to analyze from a solver log and turns
// its progress rows into a series ready for reporting or charting.
package analyzer

import (
	"time"

	"github.com/ccollicutt/miplog/pkg/parser"
)

// RunInfo describes the run segment that was analyzed.
type RunInfo struct {
	// Index is the 0-based position of the selected segment in the log.
	Index int

	// Runs is the number of segments found in the log.
	Runs int

	// StartLine is the line number of the first line of the segment.
	StartLine int

	// Lines is the number of lines in the segment.
	Lines int

	// Completed is true if the run reached the solution-written marker.
	Completed bool
}

// AxisRange is a closed value range for a chart axis.
type AxisRange struct {
	Min float64
	Max float64
}

// Stats contains counters collected while analyzing.
type Stats struct {
	// LinesProcessed is the number of log lines read.
	LinesProcessed int

	// Candidates is the number of lines in the selected run that matched
	// the progress row pattern.
	Candidates int

	// Parsed is the number of rows that became samples.
	Parsed int

	// Rejected is the number of candidate rows that were skipped.
	Rejected int
}

// AnalysisResult contains the complete analysis output.
type AnalysisResult struct {
	// Run describes the selected run.
	Run RunInfo

	// Runs summarizes every segment of the log.
	Runs []parser.RunSummary

	// Series holds the parsed samples. Nil when the run has no progress rows.
	Series *parser.Series

	// Changes lists the sample indices where the best solution improved.
	Changes []int

	// Anchor is the suggested objective axis range, if one could be derived.
	Anchor *AxisRange

	// Stats provides counters.
	Stats Stats

	// Rejected lists skipped progress rows.
	Rejected []*parser.RowError

	// Trace holds per-row verdicts when the analyzer runs verbose.
	Trace []parser.RowTrace

	// Metadata provides context about the analysis.
	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// Sources lists the log files that were read.
	Sources []string

	// StartTime is when analysis began.
	StartTime time.Time

	// EndTime is when analysis completed.
	EndTime time.Time
}

// HasData reports whether any progress sample was parsed.
func (r *AnalysisResult) HasData() bool {
	return r.Series != nil
}
