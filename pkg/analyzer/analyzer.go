package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ccollicutt/miplog/pkg/config"
	"github.com/ccollicutt/miplog/pkg/parser"
)

// Analyzer runs run selection and progress parsing over a log source.
type Analyzer struct {
	cfg *config.Config

	strict  *bool
	verbose bool
	logger  *slog.Logger
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithStrict overrides the configured strictness. In strict mode the first
// malformed progress row fails the analysis.
func WithStrict(strict bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.strict = &strict
	}
}

// WithVerbose records a verdict for every candidate progress row.
func WithVerbose(v bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.verbose = v
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates a new analyzer from a validated configuration.
func NewAnalyzer(cfg *config.Config, opts ...AnalyzerOption) (*Analyzer, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.Parser.CompiledRowPattern() == nil {
		return nil, errors.New("config has not been validated (row pattern not compiled)")
	}

	a := &Analyzer{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Analyzer) isStrict() bool {
	if a.strict != nil {
		return *a.strict
	}
	return a.cfg.Parser.Strict
}

// Analyze reads source to the end, selects the last complete run and parses
// its progress rows. A run without progress rows is not an error: the
// result then has no series.
func (a *Analyzer) Analyze(ctx context.Context, source parser.LogSource) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Metadata: AnalysisMetadata{
			StartTime: time.Now(),
		},
	}

	sel := parser.NewRunSelector(a.cfg.Markers.RunStart, a.cfg.Markers.SolutionWritten)
	sourcesMap := make(map[string]bool)

	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}

		if !sourcesMap[line.Source] {
			sourcesMap[line.Source] = true
			result.Metadata.Sources = append(result.Metadata.Sources, line.Source)
		}

		result.Stats.LinesProcessed++
		sel.Feed(line.Content)
	}

	seg := sel.Result()
	result.Runs = sel.Summaries()
	result.Run = RunInfo{
		Index:     seg.Index,
		Runs:      len(result.Runs),
		StartLine: seg.StartLine,
		Lines:     len(seg.Lines),
		Completed: seg.Completed,
	}
	a.logger.Debug("selected run",
		"index", seg.Index,
		"runs", result.Run.Runs,
		"start_line", seg.StartLine,
		"completed", seg.Completed)
	if !seg.Completed && !seg.Empty() {
		a.logger.Info("no completed run found, using the last run", "index", seg.Index)
	}

	p := parser.NewProgressParser(
		parser.WithRowPattern(a.cfg.Parser.CompiledRowPattern()),
		parser.WithStrict(a.isStrict()),
		parser.WithTrace(a.verbose),
		parser.WithLogger(a.logger),
	)
	parsed, err := p.Parse(seg.Lines, seg.StartLine)
	if err != nil {
		return nil, fmt.Errorf("parsing run %d: %w", seg.Index, err)
	}

	result.Series = parsed.Series
	result.Rejected = parsed.Rejected
	result.Trace = parsed.Trace
	result.Stats.Candidates = parsed.Candidates
	result.Stats.Parsed = parsed.Series.Len()
	result.Stats.Rejected = len(parsed.Rejected)

	if result.Series != nil {
		result.Changes = result.Series.SolutionChanges()
		if lo, hi, ok := result.Series.AxisAnchor(); ok {
			result.Anchor = &AxisRange{Min: lo, Max: hi}
		}
	}

	result.Metadata.EndTime = time.Now()
	return result, nil
}

// AnalyzeFile analyzes a single log file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*AnalysisResult, error) {
	source := parser.NewFileSource(path)
	defer source.Close()

	result, err := a.Analyze(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(result.Metadata.Sources) == 0 {
		result.Metadata.Sources = []string{path}
	}
	return result, nil
}
