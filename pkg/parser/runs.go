package parser

import "strings"

// Default markers of a HiGHS run log.
const (
	DefaultRunStartMarker        = "Running HiGHS"
	DefaultSolutionWrittenMarker = "Writing the solution to"
)

// RunSelector partitions a log into run segments as lines are fed to it and
// keeps the most recent run that reached the solution-written marker.
//
// Only the current segment and the last complete one are retained; older
// segments are reduced to a RunSummary.
type RunSelector struct {
	startMarker string
	endMarker   string

	current      RunSegment
	lastComplete *RunSegment
	summaries    []RunSummary
	lineNum      int
}

// NewRunSelector creates a selector using the given substring markers.
// Empty markers fall back to the HiGHS defaults.
func NewRunSelector(startMarker, endMarker string) *RunSelector {
	if startMarker == "" {
		startMarker = DefaultRunStartMarker
	}
	if endMarker == "" {
		endMarker = DefaultSolutionWrittenMarker
	}
	return &RunSelector{
		startMarker: startMarker,
		endMarker:   endMarker,
	}
}

// Feed consumes the next line of the log.
func (s *RunSelector) Feed(line string) {
	s.lineNum++

	if strings.Contains(line, s.startMarker) {
		next := s.current.Index
		if !s.current.Empty() {
			s.summaries = append(s.summaries, summarize(s.current))
			next++
		}
		if s.current.Completed {
			done := s.current
			s.lastComplete = &done
		}
		s.current = RunSegment{
			Lines:     []string{line},
			Index:     next,
			StartLine: s.lineNum,
		}
		return
	}

	if s.current.Empty() {
		s.current.StartLine = s.lineNum
	}
	s.current.Lines = append(s.current.Lines, line)
	if strings.Contains(line, s.endMarker) {
		s.current.Completed = true
	}
}

// Result returns the lines of the most recent run that completed, or the
// most recent run at all when none did. An empty log yields an empty segment.
func (s *RunSelector) Result() RunSegment {
	if s.current.Completed || s.lastComplete == nil {
		return s.current
	}
	return *s.lastComplete
}

// Summaries describes every segment seen so far, in log order.
func (s *RunSelector) Summaries() []RunSummary {
	out := make([]RunSummary, 0, len(s.summaries)+1)
	out = append(out, s.summaries...)
	if !s.current.Empty() {
		out = append(out, summarize(s.current))
	}
	return out
}

// Select runs a default selector over lines.
func Select(lines []string) RunSegment {
	sel := NewRunSelector("", "")
	for _, line := range lines {
		sel.Feed(line)
	}
	return sel.Result()
}

// Segments summarizes every run segment of lines using the given markers.
func Segments(lines []string, startMarker, endMarker string) []RunSummary {
	sel := NewRunSelector(startMarker, endMarker)
	for _, line := range lines {
		sel.Feed(line)
	}
	return sel.Summaries()
}

func summarize(seg RunSegment) RunSummary {
	return RunSummary{
		Index:     seg.Index,
		StartLine: seg.StartLine,
		Lines:     len(seg.Lines),
		Completed: seg.Completed,
	}
}
