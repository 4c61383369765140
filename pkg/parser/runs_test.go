package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect_NoStartMarker(t *testing.T) {
	lines := []string{"banner", "row 1", "row 2"}

	seg := Select(lines)

	assert.Equal(t, lines, seg.Lines)
	assert.False(t, seg.Completed)
	assert.Equal(t, 0, seg.Index)
	assert.Equal(t, 1, seg.StartLine)
}

func TestSelect_LastRunCompleted(t *testing.T) {
	lines := []string{
		"Running HiGHS 1.7.0",
		"first run row",
		"Running HiGHS 1.7.0",
		"second run row",
		"Running HiGHS 1.7.0",
		"third run row",
		"Writing the solution to out.sol",
	}

	seg := Select(lines)

	assert.Equal(t, lines[4:], seg.Lines)
	assert.True(t, seg.Completed)
	assert.Equal(t, 2, seg.Index)
	assert.Equal(t, 5, seg.StartLine)
}

func TestSelect_NoneCompleted(t *testing.T) {
	lines := []string{
		"Running HiGHS 1.7.0",
		"first",
		"Running HiGHS 1.7.0",
		"second",
		"still second",
	}

	seg := Select(lines)

	assert.Equal(t, lines[2:], seg.Lines)
	assert.False(t, seg.Completed)
}

func TestSelect_FallsBackToEarlierCompleteRun(t *testing.T) {
	lines := []string{
		"Running HiGHS 1.7.0",
		"complete run",
		"Writing the solution to out.sol",
		"Running HiGHS 1.7.0",
		"interrupted run",
	}

	seg := Select(lines)

	assert.Equal(t, lines[:3], seg.Lines)
	assert.True(t, seg.Completed)
	assert.Equal(t, 0, seg.Index)
}

func TestSelect_MostRecentCompleteRunWins(t *testing.T) {
	lines := []string{
		"Running HiGHS 1.7.0",
		"Writing the solution to a.sol",
		"Running HiGHS 1.7.0",
		"Writing the solution to b.sol",
	}

	seg := Select(lines)

	assert.Equal(t, lines[2:], seg.Lines)
}

func TestSelect_Empty(t *testing.T) {
	seg := Select(nil)

	assert.True(t, seg.Empty())
	assert.Equal(t, 0, seg.StartLine)
	assert.Nil(t, Parse(seg.Lines))
}

func TestRunSelector_CustomMarkers(t *testing.T) {
	sel := NewRunSelector("BEGIN", "DONE")
	for _, line := range []string{"BEGIN", "x", "DONE", "BEGIN", "y"} {
		sel.Feed(line)
	}

	seg := sel.Result()

	assert.Equal(t, []string{"BEGIN", "x", "DONE"}, seg.Lines)
}

func TestSegments(t *testing.T) {
	lines := []string{
		"preamble",
		"Running HiGHS 1.7.0",
		"a",
		"Writing the solution to out.sol",
		"Running HiGHS 1.7.0",
		"b",
	}

	got := Segments(lines, "", "")

	assert.Equal(t, []RunSummary{
		{Index: 0, StartLine: 1, Lines: 1, Completed: false},
		{Index: 1, StartLine: 2, Lines: 3, Completed: true},
		{Index: 2, StartLine: 5, Lines: 2, Completed: false},
	}, got)
}

func TestSegments_StartsWithMarker(t *testing.T) {
	got := Segments([]string{"Running HiGHS", "x"}, "", "")

	assert.Equal(t, []RunSummary{{Index: 0, StartLine: 1, Lines: 2}}, got)
}
