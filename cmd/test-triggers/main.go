package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/kelsall/accolade/internal/testtriggers"
)

// Default configuration constants.
const (
	defaultNumMembers = 50
	defaultNumWeeks   = 12
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	testTimeout       = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numMembers = flag.Int("members", defaultNumMembers, "Number of synthetic members")
		numWeeks   = flag.Int("weeks", defaultNumWeeks, "Weeks of session history to simulate")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for test output (default: trigger_test_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testtriggers.ShowHelp()
		return
	}

	if err := testtriggers.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	config := &testtriggers.Config{
		BaseURL:    *baseURL,
		NumMembers: *numMembers,
		NumWeeks:   *numWeeks,
		Workers:    *workers,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := testtriggers.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
