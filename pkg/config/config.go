package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the validated defaults when path is
// empty.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors, fills defaults and compiles
// the row pattern.
func Validate(cfg *Config) error {
	if err := validateMarkers(&cfg.Markers); err != nil {
		return fmt.Errorf("markers: %w", err)
	}
	if err := validateParser(&cfg.Parser); err != nil {
		return fmt.Errorf("parser: %w", err)
	}
	if err := validateChart(&cfg.Chart); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func validateMarkers(m *MarkerConfig) error {
	if strings.TrimSpace(m.RunStart) == "" {
		return errors.New("run_start is required")
	}
	if strings.TrimSpace(m.SolutionWritten) == "" {
		return errors.New("solution_written is required")
	}
	if m.RunStart == m.SolutionWritten {
		return errors.New("run_start and solution_written must differ")
	}
	return nil
}

func validateParser(p *ParserConfig) error {
	if p.RowPattern == "" {
		return errors.New("row_pattern is required")
	}
	re, err := regexp.Compile(p.RowPattern)
	if err != nil {
		return fmt.Errorf("invalid row_pattern: %w", err)
	}
	p.compiledRowPattern = re
	return nil
}

func validateChart(c *ChartConfig) error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Width == 0 {
		c.Width = DefaultChartWidth
	}
	if c.Height == 0 {
		c.Height = DefaultChartHeight
	}
	if c.Title == "" {
		c.Title = DefaultChartTitle
	}

	switch c.Format {
	case ChartFormatPNG, ChartFormatSVG:
	case "":
		c.Format = ChartFormatPNG
	default:
		return fmt.Errorf("invalid format %q (must be png or svg)", c.Format)
	}
	return nil
}

func validateLog(l *LogConfig) error {
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if _, err := ParseLevel(l.Level); err != nil {
		return err
	}

	switch l.Format {
	case "text", "json":
	case "":
		l.Format = DefaultLogFormat
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", l.Format)
	}
	return nil
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid level %q (must be debug, info, warn or error)", s)
	}
	return level, nil
}
