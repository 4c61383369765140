// Package parser reads solver run logs, selects the run to analyze and
// turns its branch-and-bound progress rows into numeric series.
package parser

// LogLine is a single raw line read from a log file.
type LogLine struct {
	// Content is the line text with the line terminator removed.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// RunSegment holds the lines produced by one solver invocation.
type RunSegment struct {
	// Lines are the raw lines of the run, starting with the run-start
	// marker line when one was present.
	Lines []string

	// Completed is true if the terminal "solution written" marker was seen
	// inside the segment.
	Completed bool

	// Index is the 0-based position of the segment among all segments of
	// the log.
	Index int

	// StartLine is the 1-based line number of the first line of the segment.
	// Zero for an empty segment.
	StartLine int
}

// Empty reports whether the segment holds no lines.
func (s RunSegment) Empty() bool {
	return len(s.Lines) == 0
}

// RunSummary describes a segment without carrying its lines.
type RunSummary struct {
	Index     int  `json:"index" yaml:"index"`
	StartLine int  `json:"start_line" yaml:"start_line"`
	Lines     int  `json:"lines" yaml:"lines"`
	Completed bool `json:"completed" yaml:"completed"`
}

// ProgressSample is one parsed progress row. Undefined, infinite and
// "Large" values are represented as NaN.
type ProgressSample struct {
	TimeSeconds     float64
	BestBound       float64
	BestSolution    float64
	InQueue         float64
	ExploredPercent float64
	GapPercent      float64
}
