package testmatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// registerPostings registers postings concurrently using worker pools
func registerPostings(ctx context.Context, config *Config, postings []Posting, stats *Stats) error {
	log.Printf("📋 Registering %d postings with %d workers...", len(postings), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/postings"

	var registered int64

	postingChan := make(chan Posting, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for posting := range postingChan {
				select {
				case <-ctx.Done():
					return
				default:
					resp, err := client.Post(ctx, url, posting)
					if err != nil {
						continue
					}
					_, _ = readResponseBody(resp)
					if resp.StatusCode == StatusCreated || resp.StatusCode == StatusOK {
						atomic.AddInt64(&registered, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(postingChan)
		for _, posting := range postings {
			select {
			case <-ctx.Done():
				return
			case postingChan <- posting:
			}
		}
	}()

	wg.Wait()

	stats.PostingsRegistered = int(atomic.LoadInt64(&registered))
	log.Printf("✅ Registered %d/%d postings", stats.PostingsRegistered, len(postings))

	if stats.PostingsRegistered == 0 {
		return fmt.Errorf("no postings registered")
	}
	return nil
}

// submitMatches enqueues match requests concurrently using worker pools
func submitMatches(ctx context.Context, config *Config, seekers []Seeker, stats *Stats) error {
	log.Printf("📤 Submitting %d match requests with %d workers...", len(seekers), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/match"

	var (
		successful int64
		failed     int64
		submitted  int64
		enqueued   int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	seekerChan := make(chan Seeker, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for seeker := range seekerChan {
				select {
				case <-ctx.Done():
					return
				default:
					tasks, ok := submitSingleMatch(ctx, client, url, seeker)

					atomic.AddInt64(&submitted, 1)
					if ok {
						atomic.AddInt64(&successful, 1)
						atomic.AddInt64(&enqueued, int64(tasks))
					} else {
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, failed: %d)",
								total, len(seekers), succ, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, failed: %d)",
								total, len(seekers), succ, fail)
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(seekerChan)
		for _, seeker := range seekers {
			select {
			case <-ctx.Done():
				return
			case seekerChan <- seeker:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	stats.MatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.MatchesSuccessful = int(atomic.LoadInt64(&successful))
	stats.MatchesFailed = int(atomic.LoadInt64(&failed))
	stats.TasksEnqueued = int(atomic.LoadInt64(&enqueued))

	log.Printf(`✅ Match submission completed:
   Successful: %d
   Failed: %d
   Tasks enqueued: %d
`, stats.MatchesSuccessful, stats.MatchesFailed, stats.TasksEnqueued)

	return nil
}

// submitSingleMatch submits a single match request and returns the
// number of enqueued tasks.
func submitSingleMatch(ctx context.Context, client *HTTPClient, url string, seeker Seeker) (int, bool) {
	resp, err := client.Post(ctx, url, seeker)
	if err != nil {
		return 0, false
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, false
	}

	if resp.StatusCode != StatusAccepted {
		return 0, false
	}

	var ack MatchAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return 0, true // accepted even if parsing fails
	}
	return ack.Enqueued, true
}
