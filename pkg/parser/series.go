package parser

import "math"

// axisPadding is the fraction of the anchor span added above and below the
// objective axis range.
const axisPadding = 0.1

// Series holds six parallel sequences; index i of each belongs to the same
// progress sample.
type Series struct {
	Time         []float64
	BestBound    []float64
	BestSolution []float64
	InQueue      []float64
	Explored     []float64
	Gap          []float64
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Time)
}

// Sample returns the i-th sample.
func (s *Series) Sample(i int) ProgressSample {
	return ProgressSample{
		TimeSeconds:     s.Time[i],
		BestBound:       s.BestBound[i],
		BestSolution:    s.BestSolution[i],
		InQueue:         s.InQueue[i],
		ExploredPercent: s.Explored[i],
		GapPercent:      s.Gap[i],
	}
}

// SolutionChanges returns the indices at which the best solution differs
// from the previous sample. Two undefined values compare equal.
func (s *Series) SolutionChanges() []int {
	var changes []int
	for i := 1; i < s.Len(); i++ {
		prev, cur := s.BestSolution[i-1], s.BestSolution[i]
		if math.IsNaN(prev) && math.IsNaN(cur) {
			continue
		}
		if prev != cur {
			changes = append(changes, i)
		}
	}
	return changes
}

// AxisAnchor returns an objective axis range built around the first sample
// with a defined gap: the span between its bound and solution, padded by 10%
// on both sides. ok is false when no sample qualifies.
func (s *Series) AxisAnchor() (lo, hi float64, ok bool) {
	for i := 0; i < s.Len(); i++ {
		if math.IsNaN(s.Gap[i]) {
			continue
		}
		bound, sol := s.BestBound[i], s.BestSolution[i]
		if math.IsNaN(bound) || math.IsNaN(sol) {
			return 0, 0, false
		}
		lo, hi = math.Min(bound, sol), math.Max(bound, sol)
		pad := (hi - lo) * axisPadding
		if pad == 0 {
			pad = math.Max(math.Abs(lo)*axisPadding, 1)
		}
		return lo - pad, hi + pad, true
	}
	return 0, 0, false
}

// SeriesBuilder accumulates samples in order.
type SeriesBuilder struct {
	s Series
}

// Append adds one sample to every sequence.
func (b *SeriesBuilder) Append(p ProgressSample) {
	b.s.Time = append(b.s.Time, p.TimeSeconds)
	b.s.BestBound = append(b.s.BestBound, p.BestBound)
	b.s.BestSolution = append(b.s.BestSolution, p.BestSolution)
	b.s.InQueue = append(b.s.InQueue, p.InQueue)
	b.s.Explored = append(b.s.Explored, p.ExploredPercent)
	b.s.Gap = append(b.s.Gap, p.GapPercent)
}

// Len returns the number of samples appended so far.
func (b *SeriesBuilder) Len() int {
	return len(b.s.Time)
}

// Build returns the accumulated series, or nil when nothing was appended.
func (b *SeriesBuilder) Build() *Series {
	if b.Len() == 0 {
		return nil
	}
	out := b.s
	return &out
}
