package detector

import "fmt"

// LayoutMatch counts the progress rows sharing a column count.
type LayoutMatch struct {
	Columns    int    // Whitespace-separated tokens in the row
	Name       string // Human-readable description
	Supported  bool   // True if the parser accepts this column count
	MatchCount int    // Number of rows with this layout
	SampleLine string // First row seen with this layout
}

func newLayoutMatch(cols int, sample string) *LayoutMatch {
	m := &LayoutMatch{Columns: cols, SampleLine: sample}
	switch cols {
	case 12:
		m.Name = "12 columns"
		m.Supported = true
	case 13:
		m.Name = "13 columns (source label)"
		m.Supported = true
	default:
		m.Name = fmt.Sprintf("%d columns (unsupported)", cols)
	}
	return m
}
