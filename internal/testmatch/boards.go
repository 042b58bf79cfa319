package testmatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveBoards retrieves the top matches for all seekers concurrently.
func retrieveBoards(ctx context.Context, config *Config, seekers []Seeker, stats *Stats) (map[string][]Entry, error) {
	log.Printf("🏆 Retrieving match boards for %d seekers with %d workers...", len(seekers), config.Workers)

	client := newHTTPClient(config.Timeout)

	boards := make([]([]Entry), len(seekers))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	seekerChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range seekerChan {
				select {
				case <-ctx.Done():
					return
				default:
					seekerID := seekers[index].SeekerID
					entries, err := retrieveSingleBoard(ctx, client, config.BaseURL, seekerID, config.TopN)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get board for %s: %v", seekerID, err)
						}
					} else {
						boards[index] = entries
						atomic.AddInt64(&retrieved, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("📊 Board progress: %d/%d retrieved (success: %d, failed: %d)",
							total, len(seekers), ret, fail)
					}
				}
			}
		}()
	}

	// Send seeker indices to workers
	go func() {
		defer close(seekerChan)
		for i := range seekers {
			select {
			case <-ctx.Done():
				return
			case seekerChan <- i:
			}
		}
	}()

	wg.Wait()

	// Collect successful boards
	result := make(map[string][]Entry, len(seekers))
	entryCount := 0
	for i, entries := range boards {
		if entries != nil {
			result[seekers[i].SeekerID] = entries
			entryCount += len(entries)
		}
	}

	stats.BoardsRetrieved = len(result)
	stats.BoardEntries = entryCount

	log.Printf(`✅ Board retrieval completed:
   Retrieved: %d
   Failed: %d
   Entries: %d
`, len(result), int(atomic.LoadInt64(&failed)), entryCount)

	return result, nil
}

// retrieveSingleBoard retrieves the top matches for a single seeker.
func retrieveSingleBoard(ctx context.Context, client *HTTPClient, baseURL, seekerID string, topN int) ([]Entry, error) {
	url := fmt.Sprintf("%s/matches/%s?limit=%d", baseURL, seekerID, topN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return entries, nil
}
