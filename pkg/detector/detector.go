// Package detector inspects a log file to judge whether it is a supported
// solver log and how its runs and progress rows are laid out.
package detector

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/ccollicutt/miplog/pkg/parser"
)

// Confidence weights. A log with run markers, a column header and only
// parseable progress rows scores 1.0.
const (
	weightRunMarker = 0.3
	weightHeader    = 0.2
	weightRows      = 0.5

	// SupportedThreshold is the confidence at or above which a log is
	// considered supported.
	SupportedThreshold = 0.5
)

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	SampledLines int                 // Number of lines read
	Runs         []parser.RunSummary // Run segments in log order
	RunMarkers   int                 // Lines containing the run-start marker
	HeaderLine   int                 // Line number of the first column header, 0 if none
	Layouts      []LayoutMatch       // Progress row layouts seen, most frequent first
	Candidates   int                 // Lines matching the progress row pattern
	Parsed       int                 // Candidates that parsed into a sample
	Confidence   float64             // 0.0 to 1.0
}

// Detector analyzes log files to identify the solver log layout.
type Detector struct {
	startMarker string
	endMarker   string
	rowPattern  *regexp.Regexp
	sampleSize  int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize limits the number of lines read. Zero reads the whole file.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n >= 0 {
			d.sampleSize = n
		}
	}
}

// WithMarkers sets the run-start and solution-written markers.
func WithMarkers(start, end string) Option {
	return func(d *Detector) {
		if start != "" {
			d.startMarker = start
		}
		if end != "" {
			d.endMarker = end
		}
	}
}

// WithRowPattern sets the progress row pattern.
func WithRowPattern(re *regexp.Regexp) Option {
	return func(d *Detector) {
		if re != nil {
			d.rowPattern = re
		}
	}
}

// New creates a new Detector for HiGHS logs.
func New(opts ...Option) *Detector {
	d := &Detector{
		startMarker: parser.DefaultRunStartMarker,
		endMarker:   parser.DefaultSolutionWrittenMarker,
		rowPattern:  regexp.MustCompile(parser.DefaultRowPattern),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a log file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := parser.ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	if d.sampleSize > 0 && len(lines) > d.sampleSize {
		lines = lines[:d.sampleSize]
	}

	result := &DetectionResult{
		SampledLines: len(lines),
		Runs:         parser.Segments(lines, d.startMarker, d.endMarker),
	}
	if len(lines) == 0 {
		return result
	}

	layouts := make(map[int]*LayoutMatch)

	for i, line := range lines {
		if strings.Contains(line, d.startMarker) {
			result.RunMarkers++
		}
		if result.HeaderLine == 0 && isHeader(line) {
			result.HeaderLine = i + 1
		}

		if !d.rowPattern.MatchString(strings.TrimRight(line, " \t\r")) {
			continue
		}
		result.Candidates++
		if _, err := parser.ParseRow(line); err == nil {
			result.Parsed++
		}

		cols := len(strings.Fields(line))
		m, ok := layouts[cols]
		if !ok {
			m = newLayoutMatch(cols, strings.TrimSpace(line))
			layouts[cols] = m
		}
		m.MatchCount++
	}

	for _, m := range layouts {
		result.Layouts = append(result.Layouts, *m)
	}
	sort.Slice(result.Layouts, func(i, j int) bool {
		if result.Layouts[i].MatchCount != result.Layouts[j].MatchCount {
			return result.Layouts[i].MatchCount > result.Layouts[j].MatchCount
		}
		return result.Layouts[i].Columns < result.Layouts[j].Columns
	})

	if result.RunMarkers > 0 {
		result.Confidence += weightRunMarker
	}
	if result.HeaderLine > 0 {
		result.Confidence += weightHeader
	}
	if result.Candidates > 0 {
		result.Confidence += weightRows * float64(result.Parsed) / float64(result.Candidates)
	}

	return result
}

// isHeader reports whether line is the column header of the progress table.
func isHeader(line string) bool {
	return strings.Contains(line, "Proc.") && strings.Contains(line, "InQueue")
}

// Supported reports whether the log looks like a supported solver log.
func (r *DetectionResult) Supported() bool {
	return r.Confidence >= SupportedThreshold
}

// CompletedRuns returns the number of runs that reached the solution marker.
func (r *DetectionResult) CompletedRuns() int {
	n := 0
	for _, run := range r.Runs {
		if run.Completed {
			n++
		}
	}
	return n
}

// Rejected returns the number of candidate rows that failed to parse.
func (r *DetectionResult) Rejected() int {
	return r.Candidates - r.Parsed
}
