package output

import (
	"errors"
	"math"
	"time"

	"github.com/ccollicutt/miplog/pkg/analyzer"
	"github.com/ccollicutt/miplog/pkg/parser"
)

func createTestResult() *analyzer.AnalysisResult {
	nan := math.NaN()
	var b parser.SeriesBuilder
	b.Append(parser.ProgressSample{TimeSeconds: 0, BestBound: nan, BestSolution: nan, InQueue: 0, ExploredPercent: 0, GapPercent: nan})
	b.Append(parser.ProgressSample{TimeSeconds: 0.1, BestBound: 1200, BestSolution: 1500, InQueue: 0, ExploredPercent: 0, GapPercent: 20})
	b.Append(parser.ProgressSample{TimeSeconds: 1.2, BestBound: 1300, BestSolution: 1400, InQueue: 4, ExploredPercent: 25, GapPercent: 7.14})
	series := b.Build()

	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return &analyzer.AnalysisResult{
		Run:     analyzer.RunInfo{Index: 1, Runs: 2, StartLine: 27, Lines: 29, Completed: true},
		Runs:    []parser.RunSummary{{Index: 0, StartLine: 1, Lines: 26, Completed: true}, {Index: 1, StartLine: 27, Lines: 29, Completed: true}},
		Series:  series,
		Changes: series.SolutionChanges(),
		Anchor:  &analyzer.AxisRange{Min: 1170, Max: 1530},
		Stats:   analyzer.Stats{LinesProcessed: 55, Candidates: 4, Parsed: 3, Rejected: 1},
		Rejected: []*parser.RowError{{
			LineNum: 44,
			Line:    "  12  5  4  ??.??%  -44  -20  120.00%  3  2  0  380  1.4s",
			Err:     errors.New("malformed progress row: Expl.% column \"??.??%\""),
		}},
		Metadata: analyzer.AnalysisMetadata{
			Sources:   []string{"highs.log"},
			StartTime: start,
			EndTime:   start.Add(5 * time.Millisecond),
		},
	}
}

func createTestReport() *Report {
	return NewReport(createTestResult(), "highs.log")
}

func createEmptyReport() *Report {
	return NewReport(&analyzer.AnalysisResult{
		Run: analyzer.RunInfo{Index: 0, Runs: 1, StartLine: 1, Lines: 6, Completed: true},
	}, "lp.log")
}
