// Package config provides configuration loading and validation for miplog.
package config

import (
	"regexp"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Markers MarkerConfig `yaml:"markers"`
	Parser  ParserConfig `yaml:"parser"`
	Chart   ChartConfig  `yaml:"chart"`
	Log     LogConfig    `yaml:"log"`
}

// MarkerConfig holds the substrings that delimit solver runs in a log.
type MarkerConfig struct {
	// RunStart marks the first line of a new solver run.
	RunStart string `yaml:"run_start"`

	// SolutionWritten marks a run that completed.
	SolutionWritten string `yaml:"solution_written"`
}

// ParserConfig controls progress row recognition.
type ParserConfig struct {
	// Strict aborts on the first malformed progress row instead of
	// skipping it.
	Strict bool `yaml:"strict"`

	// RowPattern is the regex a line must match to be treated as a
	// progress row.
	RowPattern string `yaml:"row_pattern,omitempty"`

	compiledRowPattern *regexp.Regexp
}

// CompiledRowPattern returns the pre-compiled row pattern.
func (p *ParserConfig) CompiledRowPattern() *regexp.Regexp {
	return p.compiledRowPattern
}

// ChartFormat is an image encoding for rendered charts.
type ChartFormat string

const (
	ChartFormatPNG ChartFormat = "png"
	ChartFormatSVG ChartFormat = "svg"
)

// ChartConfig controls chart rendering.
type ChartConfig struct {
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Title  string      `yaml:"title"`
	Format ChartFormat `yaml:"format"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}
