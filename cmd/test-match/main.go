package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/matcha/internal/testmatch"
)

// Default configuration constants.
const (
	defaultNumPostings = 500
	defaultNumSeekers  = 1000
	defaultTopN        = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numPostings = flag.Int("postings", defaultNumPostings, "Number of postings to generate and register")
		numSeekers  = flag.Int("seekers", defaultNumSeekers, "Number of seekers to generate and match")
		topN        = flag.Int("top", defaultTopN, "Number of top matches to fetch per seeker")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated data (default: generated_matches_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testmatch.ShowHelp()
		return
	}

	// Setup logging
	if err := testmatch.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testmatch.Config{
		BaseURL:     *baseURL,
		NumPostings: *numPostings,
		NumSeekers:  *numSeekers,
		TopN:        *topN,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the test
	if err := testmatch.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
