package testmatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/matcha/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete match pipeline test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting matcha match test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("postings", config.NumPostings),
		logger.Int("seekers", config.NumSeekers),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate and register postings
	postings := generatePostings(ctx, config, stats)
	if err := registerPostings(ctx, config, postings, stats); err != nil {
		return fmt.Errorf("posting registration failed: %w", err)
	}

	// Step 3: Generate seekers and submit match requests
	seekers := generateSeekers(ctx, config, stats)
	if err := submitMatches(ctx, config, seekers, stats); err != nil {
		return fmt.Errorf("match submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for match tasks to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Retrieve match boards concurrently
	boards, err := retrieveBoards(ctx, config, seekers, stats)
	if err != nil {
		return fmt.Errorf("board retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(ctx, config, boards, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save generated data to file
	if err := saveDataToFile(ctx, config, postings, seekers); err != nil {
		logger.Get().Warn(ctx, "failed to save generated data to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// generatedData is the on-disk shape of a saved test run.
type generatedData struct {
	Postings []Posting `json:"postings"`
	Seekers  []Seeker  `json:"seekers"`
}

// saveDataToFile saves the generated postings and seekers to a JSON file.
func saveDataToFile(ctx context.Context, config *Config, postings []Posting, seekers []Seeker) error {
	if len(postings) == 0 && len(seekers) == 0 {
		return fmt.Errorf("no data to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_matches_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(generatedData{Postings: postings, Seekers: seekers}); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	logger.Get().Info(ctx, "generated data saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, matchesPerSecond float64

	if stats.MatchesSubmitted > 0 {
		successRate = float64(stats.MatchesSuccessful) / float64(stats.MatchesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("postingsGenerated", stats.PostingsGenerated),
		logger.Int("postingsRegistered", stats.PostingsRegistered),
		logger.Int("seekersGenerated", stats.SeekersGenerated),
		logger.Int("matchesSubmitted", stats.MatchesSubmitted),
		logger.Int("matchesSuccessful", stats.MatchesSuccessful),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("tasksEnqueued", stats.TasksEnqueued),
		logger.Int("boardsRetrieved", stats.BoardsRetrieved),
		logger.Int("boardEntries", stats.BoardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("matchesPerSecond", matchesPerSecond))
}
