package testtriggers

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
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
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
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
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

// submitTriggers submits triggers concurrently using worker pools
func submitTriggers(ctx context.Context, config *Config, triggers []Trigger, stats *Stats) error {
	log.Printf("submitting %d triggers with %d workers", len(triggers), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/triggers"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
		granted    int64
	)

	triggerChan := make(chan Trigger, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for trig := range triggerChan {
				select {
				case <-ctx.Done():
					return
				default:
					result, awards := submitSingleTrigger(ctx, client, url, trig)

					atomic.AddInt64(&submitted, 1)
					atomic.AddInt64(&granted, int64(awards))
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if config.Verbose {
						total := atomic.LoadInt64(&submitted)
						if total%500 == 0 {
							log.Printf("progress: %d/%d submitted (granted so far: %d)",
								total, len(triggers), atomic.LoadInt64(&granted))
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(triggerChan)
		for _, trig := range triggers {
			select {
			case <-ctx.Done():
				return
			case triggerChan <- trig:
			}
		}
	}()

	wg.Wait()

	stats.TriggersSubmitted = int(atomic.LoadInt64(&submitted))
	stats.TriggersSuccessful = int(atomic.LoadInt64(&successful))
	stats.TriggersDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.TriggersFailed = int(atomic.LoadInt64(&failed))
	stats.AwardsGranted = int(atomic.LoadInt64(&granted))

	log.Printf("trigger submission completed: successful=%d duplicate=%d failed=%d granted=%d",
		stats.TriggersSuccessful, stats.TriggersDuplicate, stats.TriggersFailed, stats.AwardsGranted)
	return nil
}

// submitSingleTrigger submits one trigger and returns the result plus the
// number of awards it granted.
func submitSingleTrigger(ctx context.Context, client *HTTPClient, url string, trig Trigger) (string, int) {
	resp, err := client.Post(ctx, url, trig)
	if err != nil {
		return "failed", 0
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed", 0
	}
	if resp.StatusCode != http.StatusOK {
		return "failed", 0
	}

	var tr TriggerResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "failed", 0
	}
	if tr.Duplicate {
		return "duplicate", 0
	}
	return "success", len(tr.Granted)
}
