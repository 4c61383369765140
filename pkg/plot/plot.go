// Package plot renders a parsed progress series as a chart image.
//
// Objective bounds use the primary Y axis. Explored %, gap % and the queue
// size (as a percentage of its peak) share the secondary axis. Each change
// of the best solution is drawn as a dashed vertical marker.
package plot

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ccollicutt/miplog/pkg/parser"
)

// ErrNoData is returned when there is no series to plot.
var ErrNoData = errors.New("no progress samples to plot")

// Format is an image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Options controls the rendered image.
type Options struct {
	Width  int
	Height int
	Title  string
	Format Format
}

var (
	colorBound    = chart.ColorBlue
	colorSolution = chart.ColorGreen
	colorQueue    = chart.ColorRed
	colorExplored = drawing.Color{R: 128, G: 0, B: 128, A: 255}
	colorGap      = chart.ColorOrange
	colorMarker   = drawing.Color{R: 128, G: 128, B: 128, A: 255}
)

// Render writes the chart for s to w.
func Render(w io.Writer, s *parser.Series, opts Options) error {
	ch, err := Build(s, opts)
	if err != nil {
		return err
	}

	provider := chart.PNG
	if opts.Format == FormatSVG {
		provider = chart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// Build assembles the chart without rendering it.
func Build(s *parser.Series, opts Options) (*chart.Chart, error) {
	if s.Len() == 0 {
		return nil, ErrNoData
	}

	lo, hi := objectiveRange(s)
	queuePeak := peak(s.InQueue)

	named := []chart.Series{
		line("Best Bound", chart.YAxisPrimary, colorBound, s.Time, s.BestBound, nil),
		line("Best Solution", chart.YAxisPrimary, colorSolution, s.Time, s.BestSolution, nil),
		line("InQueue (% of peak)", chart.YAxisSecondary, colorQueue, s.Time, s.InQueue, func(v float64) float64 {
			if queuePeak == 0 {
				return 0
			}
			return v / queuePeak * 100
		}),
		line("Explored %", chart.YAxisSecondary, colorExplored, s.Time, s.Explored, nil),
		line("Gap %", chart.YAxisSecondary, colorGap, s.Time, s.Gap, nil),
	}

	var series []chart.Series
	for _, cs := range named {
		if len(cs.(chart.ContinuousSeries).XValues) > 0 {
			series = append(series, cs)
		}
	}
	legendSeries := series

	for _, i := range s.SolutionChanges() {
		series = append(series, chart.ContinuousSeries{
			YAxis:   chart.YAxisPrimary,
			XValues: []float64{s.Time[i], s.Time[i]},
			YValues: []float64{lo, hi},
			Style: chart.Style{
				StrokeColor:     colorMarker,
				StrokeWidth:     0.5,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}

	ch := &chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Time (seconds)",
			Range: timeRange(s.Time),
		},
		YAxis: chart.YAxis{
			Name:      "Objective Bounds",
			NameStyle: chart.Style{FontColor: colorBound},
			Style:     chart.Style{FontColor: colorBound},
			Range:     &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "%",
			Range: &chart.ContinuousRange{Min: 0, Max: percentCeiling(s)},
		},
		Series: series,
	}

	legend := *ch
	legend.Series = legendSeries
	ch.Elements = []chart.Renderable{chart.LegendLeft(&legend)}

	return ch, nil
}

// line builds a series from the defined points of ys, optionally rescaled.
func line(name string, axis chart.YAxisType, color drawing.Color, xs, ys []float64, scale func(float64) float64) chart.Series {
	cs := chart.ContinuousSeries{
		Name:  name,
		YAxis: axis,
		Style: chart.Style{StrokeColor: color, StrokeWidth: 1.5},
	}
	for i, y := range ys {
		if !finite(y) || !finite(xs[i]) {
			continue
		}
		if scale != nil {
			y = scale(y)
		}
		cs.XValues = append(cs.XValues, xs[i])
		cs.YValues = append(cs.YValues, y)
	}
	return cs
}

// objectiveRange prefers the series anchor and falls back to the padded
// extent of all defined bound and solution values.
func objectiveRange(s *parser.Series) (float64, float64) {
	if lo, hi, ok := s.AxisAnchor(); ok {
		return lo, hi
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, seq := range [][]float64{s.BestBound, s.BestSolution} {
		for _, v := range seq {
			if finite(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(lo)*0.1, 1)
	}
	return lo - pad, hi + pad
}

// timeRange widens a degenerate time axis so a single sample can be drawn.
func timeRange(ts []float64) chart.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, t := range ts {
		if finite(t) {
			lo, hi = math.Min(lo, t), math.Max(hi, t)
		}
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// percentCeiling covers 0-100% and any larger gap values.
func percentCeiling(s *parser.Series) float64 {
	return math.Max(100, math.Max(peak(s.Gap), peak(s.Explored)))
}

func peak(vs []float64) float64 {
	m := 0.0
	for _, v := range vs {
		if finite(v) && v > m {
			m = v
		}
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
