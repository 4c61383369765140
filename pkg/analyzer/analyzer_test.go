package analyzer

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/miplog/pkg/config"
	"github.com/ccollicutt/miplog/pkg/parser"
)

func testdata(t *testing.T, name string) string {
	t.Helper()
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", "logs", name)
}

func newTestAnalyzer(t *testing.T, opts ...AnalyzerOption) *Analyzer {
	t.Helper()
	cfg, err := config.LoadOrDefault(context.Background(), "")
	require.NoError(t, err)
	opts = append([]AnalyzerOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	a, err := NewAnalyzer(cfg, opts...)
	require.NoError(t, err)
	return a
}

func TestNewAnalyzer_RequiresValidatedConfig(t *testing.T) {
	_, err := NewAnalyzer(nil)
	assert.Error(t, err)

	_, err = NewAnalyzer(config.DefaultConfig())
	assert.Error(t, err)
}

func TestAnalyzeFile_SelectsLastCompleteRun(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.AnalyzeFile(context.Background(), testdata(t, "highs_mip.log"))
	require.NoError(t, err)

	assert.Equal(t, RunInfo{Index: 1, Runs: 3, StartLine: 27, Lines: 29, Completed: true}, result.Run)
	assert.Equal(t, 63, result.Stats.LinesProcessed)
	assert.Equal(t, 7, result.Stats.Candidates)
	assert.Equal(t, 7, result.Stats.Parsed)
	assert.Zero(t, result.Stats.Rejected)

	require.True(t, result.HasData())
	assert.Equal(t, []float64{0, 0.1, 0.3, 1.2, 1.9, 2.5, 3.0}, result.Series.Time)
	assert.True(t, math.IsNaN(result.Series.BestSolution[0]))
	assert.Equal(t, []int{1, 3, 5}, result.Changes)
	require.NotNil(t, result.Anchor)
	assert.InDelta(t, 1170, result.Anchor.Min, 1e-9)
	assert.InDelta(t, 1530, result.Anchor.Max, 1e-9)
	assert.Len(t, result.Runs, 3)
}

func TestAnalyzeFile_InterruptedRun(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.AnalyzeFile(context.Background(), testdata(t, "highs_interrupted.log"))
	require.NoError(t, err)

	assert.False(t, result.Run.Completed)
	assert.Equal(t, 5, result.Stats.Candidates)
	assert.Equal(t, 4, result.Stats.Parsed)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 11, result.Rejected[0].LineNum)
	assert.Equal(t, []int{1, 3}, result.Changes)
	require.NotNil(t, result.Anchor)
	assert.InDelta(t, -47.5, result.Anchor.Min, 1e-9)
	assert.InDelta(t, -17.5, result.Anchor.Max, 1e-9)
}

func TestAnalyzeFile_Strict(t *testing.T) {
	a := newTestAnalyzer(t, WithStrict(true))

	_, err := a.AnalyzeFile(context.Background(), testdata(t, "highs_interrupted.log"))

	assert.ErrorIs(t, err, parser.ErrMalformedRow)
}

func TestAnalyzeFile_NoProgressRows(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.AnalyzeFile(context.Background(), testdata(t, "no_progress.log"))
	require.NoError(t, err)

	assert.False(t, result.HasData())
	assert.Nil(t, result.Series)
	assert.Nil(t, result.Anchor)
	assert.True(t, result.Run.Completed)
}

func TestAnalyzeFile_Missing(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.log"))

	assert.Error(t, err)
}

func TestAnalyze_EmptyLog(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.Analyze(context.Background(), parser.NewLineSource("empty", nil))
	require.NoError(t, err)

	assert.False(t, result.HasData())
	assert.Zero(t, result.Run.Runs)
	assert.Zero(t, result.Stats.LinesProcessed)
}

func TestAnalyze_Verbose(t *testing.T) {
	a := newTestAnalyzer(t, WithVerbose(true))
	lines := strings.Split(strings.TrimSpace(`
Running HiGHS 1.7.0
         0       0         0   0.00%   -inf            inf                  inf        0      0      0         0     0.0s
 R       0       0         0   0.00%   1200            1500              20.00%        0      0      0        45     0.1s
Writing the solution to out.sol`), "\n")

	result, err := a.Analyze(context.Background(), parser.NewLineSource("mem", lines))
	require.NoError(t, err)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, 3, result.Trace[1].LineNum)
	assert.NoError(t, result.Trace[1].Err)
	assert.Equal(t, []string{"mem"}, result.Metadata.Sources)
}

func TestAnalyze_CustomMarkers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Markers.RunStart = "START"
	cfg.Markers.SolutionWritten = "FINISHED"
	require.NoError(t, config.Validate(cfg))
	a, err := NewAnalyzer(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	lines := []string{
		"START",
		"  4  2  1  50.00%  10  12  16.67%  0  0  0  90  1.0s",
		"FINISHED",
		"START",
	}
	result, err := a.Analyze(context.Background(), parser.NewLineSource("mem", lines))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Run.Index)
	assert.Equal(t, 1, result.Series.Len())
}

func TestAnalyze_Canceled(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, parser.NewLineSource("mem", []string{"x"}))

	assert.ErrorIs(t, err, context.Canceled)
}
