package testtriggers

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/kelsall/accolade/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "trigger_test_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the trigger test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Accolade Trigger Test Tool
==========================

Generates a synthetic club history and submits it to a running award
engine as RSVP and attendance triggers.

Usage:
  go run cmd/test-triggers/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -members int
        Number of synthetic members (default 50)
  -weeks int
        Weeks of session history to simulate (default 12)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for test output (default: trigger_test_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-triggers/main.go

  # Simulate a bigger club over a full season
  go run cmd/test-triggers/main.go -members 200 -weeks 40 -workers 16
`)
}
