package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultRowPattern matches the trailing "LpIters Time" columns of a
// progress row, e.g. "12k     1.5s".
const DefaultRowPattern = `\d+k?\s+\d+\.\d+s$`

// Column layout of a progress row once the optional source label is dropped:
//
//	Proc. InQueue Leaves Expl. BestBound BestSol Gap Cuts InLp Confl. LpIters Time
const (
	rowColumns        = 12
	labelledRowColumn = rowColumns + 1

	colInQueue   = 1
	colExplored  = 3
	colBestBound = 4
	colBestSol   = 5
	colGap       = 6
	colTime      = 11
)

// ErrMalformedRow is returned for a line that looks like a progress row but
// cannot be split into its numeric fields.
var ErrMalformedRow = errors.New("malformed progress row")

var defaultRowPattern = regexp.MustCompile(DefaultRowPattern)

// RowError reports a rejected progress row.
type RowError struct {
	LineNum int    `json:"line"`
	Line    string `json:"text"`
	Err     error  `json:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.LineNum, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reason returns the rejection cause without the line prefix.
func (e *RowError) Reason() string {
	return e.Err.Error()
}

// IsProgressRow reports whether line ends like a progress row under the
// default pattern.
func IsProgressRow(line string) bool {
	return matchRow(defaultRowPattern, line)
}

func matchRow(re *regexp.Regexp, line string) bool {
	return re.MatchString(strings.TrimRightFunc(line, unicode.IsSpace))
}

// ParseRow extracts a sample from a line already known to be a progress row.
// Any structural or numeric surprise yields an error wrapping ErrMalformedRow.
func ParseRow(line string) (ProgressSample, error) {
	tokens := strings.Fields(line)
	if len(tokens) == labelledRowColumn {
		tokens = tokens[1:]
	}
	if len(tokens) != rowColumns {
		return ProgressSample{}, fmt.Errorf("%w: %d columns, want %d or %d",
			ErrMalformedRow, len(tokens), rowColumns, labelledRowColumn)
	}

	var (
		sample ProgressSample
		err    error
	)
	fields := []struct {
		name  string
		col   int
		dst   *float64
		parse func(string) (float64, error)
	}{
		{"InQueue", colInQueue, &sample.InQueue, parsePlain},
		{"Expl.%", colExplored, &sample.ExploredPercent, parsePercent},
		{"BestBound", colBestBound, &sample.BestBound, parseObjective},
		{"BestSol", colBestSol, &sample.BestSolution, parseObjective},
		{"Gap", colGap, &sample.GapPercent, parseGap},
		{"Time", colTime, &sample.TimeSeconds, parseSeconds},
	}
	for _, f := range fields {
		if *f.dst, err = f.parse(tokens[f.col]); err != nil {
			return ProgressSample{}, fmt.Errorf("%w: %s column %q: %v",
				ErrMalformedRow, f.name, tokens[f.col], err)
		}
	}
	return sample, nil
}

func parsePlain(tok string) (float64, error) {
	return strconv.ParseFloat(tok, 64)
}

func parsePercent(tok string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
}

func parseObjective(tok string) (float64, error) {
	if isSentinel(tok, "inf") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(tok, 64)
}

func parseGap(tok string) (float64, error) {
	tok = strings.TrimSuffix(tok, "%")
	if isSentinel(tok, "inf", "Large") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(tok, 64)
}

func parseSeconds(tok string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(tok, "s"), 64)
}

// isSentinel matches tok, ignoring a leading sign, against words that stand
// for an undefined value.
func isSentinel(tok string, words ...string) bool {
	tok = strings.TrimLeft(tok, "+-")
	for _, w := range words {
		if tok == w {
			return true
		}
	}
	return false
}

// ProgressParser turns the lines of a run into a Series.
type ProgressParser struct {
	rowPattern *regexp.Regexp
	strict     bool
	trace      bool
	logger     *slog.Logger
}

// ParserOption configures a ProgressParser.
type ParserOption func(*ProgressParser)

// WithRowPattern replaces the progress row detection pattern.
func WithRowPattern(re *regexp.Regexp) ParserOption {
	return func(p *ProgressParser) {
		if re != nil {
			p.rowPattern = re
		}
	}
}

// WithStrict makes the first malformed row abort the parse.
func WithStrict(strict bool) ParserOption {
	return func(p *ProgressParser) {
		p.strict = strict
	}
}

// WithTrace records a RowTrace for every candidate row.
func WithTrace(trace bool) ParserOption {
	return func(p *ProgressParser) {
		p.trace = trace
	}
}

// WithLogger sets the logger used to report skipped rows.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *ProgressParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProgressParser creates a parser for the HiGHS progress row layout.
func NewProgressParser(opts ...ParserOption) *ProgressParser {
	p := &ProgressParser{
		rowPattern: defaultRowPattern,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsProgressRow reports whether line qualifies as a progress row.
func (p *ProgressParser) IsProgressRow(line string) bool {
	return matchRow(p.rowPattern, line)
}

// ParseResult is the outcome of parsing one run.
type ParseResult struct {
	// Series is nil when no progress row could be parsed.
	Series *Series

	// Candidates counts lines that matched the row pattern.
	Candidates int

	// Rejected lists candidate rows that failed to parse.
	Rejected []*RowError

	// Trace holds one entry per candidate row when tracing is enabled.
	Trace []RowTrace
}

// RowTrace is the verdict on one candidate row. Err is nil for a parsed row.
type RowTrace struct {
	LineNum int
	Line    string
	Sample  ProgressSample
	Err     error
}

// Parse parses the lines of a run. firstLine is the file line number of
// lines[0] and is only used for reporting.
func (p *ProgressParser) Parse(lines []string, firstLine int) (*ParseResult, error) {
	var (
		b   SeriesBuilder
		res ParseResult
	)
	for i, line := range lines {
		if !p.IsProgressRow(line) {
			continue
		}
		res.Candidates++

		sample, err := ParseRow(line)
		if p.trace {
			res.Trace = append(res.Trace, RowTrace{LineNum: firstLine + i, Line: line, Sample: sample, Err: err})
		}
		if err != nil {
			rowErr := &RowError{LineNum: firstLine + i, Line: line, Err: err}
			if p.strict {
				return nil, rowErr
			}
			p.logger.Warn("skipping progress row", "line", rowErr.LineNum, "error", err)
			res.Rejected = append(res.Rejected, rowErr)
			continue
		}
		b.Append(sample)
	}
	res.Series = b.Build()
	return &res, nil
}

// Parse parses lines leniently with the default layout and returns nil when
// they hold no progress rows.
func Parse(lines []string) *Series {
	res, _ := NewProgressParser(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))).Parse(lines, 1)
	return res.Series
}
