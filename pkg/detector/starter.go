package detector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/miplog/pkg/config"
)

// ErrConfigExists is returned when a starter config would overwrite a file.
var ErrConfigExists = errors.New("config file already exists")

// StarterConfig renders a YAML configuration for the detected log. Markers
// come from cfg; strict parsing is enabled only when every candidate row
// parsed.
func StarterConfig(result *DetectionResult, logFile string, cfg *config.Config) ([]byte, error) {
	if result.RunMarkers == 0 && result.Candidates == 0 {
		return nil, errors.New("cannot generate config: no solver runs or progress rows detected")
	}

	starter := *cfg
	starter.Parser.Strict = result.Candidates > 0 && result.Rejected() == 0

	body, err := yaml.Marshal(&starter)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	header := fmt.Sprintf(`# miplog configuration
# Generated by: miplog detect %s
# Runs: %d (%d completed), progress rows: %d (%d rejected), confidence %.0f%%

`, absLogFile, len(result.Runs), result.CompletedRuns(), result.Candidates, result.Rejected(), result.Confidence*100)

	return append([]byte(header), body...), nil
}

// WriteStarterConfig writes data to path, refusing to replace an existing
// file.
func WriteStarterConfig(path string, data []byte) error {
	// #nosec G302 G304 -- user-provided path; config is not sensitive
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s (will not overwrite)", ErrConfigExists, path)
		}
		return fmt.Errorf("creating config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	return f.Close()
}
