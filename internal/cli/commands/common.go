package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/miplog/pkg/config"
)

// ExitCode is set by commands to indicate the result
var ExitCode = ExitOK

// Process exit codes.
const (
	ExitOK     = 0 // progress data found
	ExitNoData = 1 // the selected run has no progress rows
	ExitError  = 2 // configuration or runtime error
)

// GlobalOptions holds the root command's persistent flags.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// Global is bound to the root command's persistent flags.
var Global = &GlobalOptions{}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig loads the --config file (or the defaults), applies the
// --log-level override and installs the resulting logger as the default.
func loadConfig(ctx context.Context, errOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(ctx, Global.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if Global.LogLevel != "" {
		cfg.Log.Level = Global.LogLevel
	}

	logger, err := NewLogger(cfg.Log, errOut)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// NewLogger builds a slog logger writing to w.
func NewLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch lc.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (use text or json)", lc.Format)
	}
}
