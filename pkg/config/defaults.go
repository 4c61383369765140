package config

import (
	"os"
	"strconv"

	"github.com/ccollicutt/miplog/pkg/parser"
)

// Default values for configuration.
const (
	DefaultChartWidth  = 1000
	DefaultChartHeight = 600
	DefaultChartTitle  = "HiGHS MIP Log Analysis"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// Environment variable names.
const (
	EnvStrict   = "MIPLOG_STRICT"
	EnvLogLevel = "MIPLOG_LOG_LEVEL"
)

// DefaultConfig returns a configuration for HiGHS logs.
func DefaultConfig() *Config {
	return &Config{
		Markers: MarkerConfig{
			RunStart:        parser.DefaultRunStartMarker,
			SolutionWritten: parser.DefaultSolutionWrittenMarker,
		},
		Parser: ParserConfig{
			RowPattern: parser.DefaultRowPattern,
		},
		Chart: ChartConfig{
			Width:  DefaultChartWidth,
			Height: DefaultChartHeight,
			Title:  DefaultChartTitle,
			Format: ChartFormatPNG,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvStrict); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Parser.Strict = strict
		}
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}
