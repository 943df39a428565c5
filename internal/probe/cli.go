package probe

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/mindthegap/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging initialises the process logger. When logFile is set, output
// goes to both stdout and the file.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if logFile == "" {
		return nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	if err := logger.SetFormat(logger.FormatText); err != nil {
		return fmt.Errorf("failed to rebuild logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the probe.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Mind the Gap Probe
==================

Fetches chart bundles for random filter states and checks that the
dashboard keeps its guarantees: participation shares sum to 100, narrowing
a filter never adds medals, repeated requests are identical, and
placeholders appear exactly when a filter matches nothing.

Usage:
  probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8050")
  -requests int
        Number of filter cases to check (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed int
        Seed for the filter generator (default 1)
  -log string
        Also write logs to this file
  -verbose
        Log every case
  -help
        Show this help message

Examples:
  probe -url http://localhost:8050 -requests 1000 -workers 16
  probe -seed 42 -verbose
`)
}
