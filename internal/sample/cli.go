package sample

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/okian/palmares/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the logger and, when logFile is set, mirrors the
// standard log output to it.
func SetupLogging(logFile string, verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile == "" {
		return nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the gen-dataset tool.
func ShowHelp() {
	os.Stdout.WriteString(`Palmares dataset generator
==========================

Generates a synthetic evaluation dataset and optionally checks that a
running service reports the same figures for it.

Usage:
  go run ./cmd/gen-dataset [options]

Options:
  -colleges int
        Number of colleges (default 40)
  -years int
        Number of cohort years (default 3)
  -first-year int
        Oldest cohort year (default 2022)
  -groups int
        Number of groups per cohort (default 4)
  -missing float
        Share of axis values left out (default 0.08)
  -seed int
        Random seed (default 42)
  -output string
        Output file (default: generated_dataset_TIMESTAMP.json)
  -url string
        Base URL of a running service to verify against (optional)
  -timeout duration
        HTTP request timeout (default 10s)
  -log string
        Log file for tool output (optional)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate the default dataset
  go run ./cmd/gen-dataset -output data/synthetic.json

  # Generate and verify a service started with
  # PALMARES_DATASET=data/synthetic.json PALMARES_WATCH_DATASET=true
  go run ./cmd/gen-dataset -output data/synthetic.json -url http://localhost:9080
`)
}
