package testtriggers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kelsall/accolade/pkg/logger"
)

// Run executes the complete trigger test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting accolade trigger test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("members", config.NumMembers),
		logger.Int("weeks", config.NumWeeks),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate triggers
	triggers, err := generateTriggers(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("trigger generation failed: %w", err)
	}

	// Step 3: Submit triggers concurrently
	if err := submitTriggers(ctx, config, triggers, stats); err != nil {
		return fmt.Errorf("trigger submission failed: %w", err)
	}

	// Step 4: Resubmit a sample to confirm delivery dedupe
	if err := verifyDedupe(ctx, config, triggers); err != nil {
		return fmt.Errorf("dedupe verification failed: %w", err)
	}

	// Step 5: Fetch one member's awards page
	if len(triggers) > 0 {
		if err := fetchAwards(ctx, config, triggers[0].PersonID); err != nil {
			logger.Get().Warn(ctx, "awards fetch failed", logger.Error(err))
		}
	}

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
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// verifyDedupe resubmits the first few triggers unchanged and expects the
// service to report them as duplicates.
func verifyDedupe(ctx context.Context, config *Config, triggers []Trigger) error {
	sample := triggers
	if len(sample) > 5 {
		sample = sample[:5]
	}

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/triggers"
	for i, trig := range sample {
		result, _ := submitSingleTrigger(ctx, client, url, trig)
		if result != "duplicate" {
			return fmt.Errorf("resubmitted trigger %d reported %q, want duplicate", i, result)
		}
	}

	logger.Get().Info(ctx, "delivery dedupe verified", logger.Int("resubmitted", len(sample)))
	return nil
}

// fetchAwards retrieves and logs one member's awards summary.
func fetchAwards(ctx context.Context, config *Config, personID string) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/awards?person_id="+personID)
	if err != nil {
		return fmt.Errorf("failed to fetch awards: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read awards response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("awards fetch failed with status: %d", resp.StatusCode)
	}

	var summary struct {
		CurrentStreak int `json:"current_streak"`
		Earned        []struct {
			ID string `json:"id"`
		} `json:"earned"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return fmt.Errorf("failed to decode awards response: %w", err)
	}

	logger.Get().Info(ctx, "sample member awards",
		logger.String("personID", personID),
		logger.Int("currentStreak", summary.CurrentStreak),
		logger.Int("earned", len(summary.Earned)))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, triggersPerSecond float64

	if stats.TriggersSubmitted > 0 {
		successRate = float64(stats.TriggersSuccessful) / float64(stats.TriggersSubmitted) * 100
	}
	if stats.Duration > 0 {
		triggersPerSecond = float64(stats.TriggersSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("triggersGenerated", stats.TriggersGenerated),
		logger.Int("triggersSubmitted", stats.TriggersSubmitted),
		logger.Int("triggersSuccessful", stats.TriggersSuccessful),
		logger.Int("triggersDuplicate", stats.TriggersDuplicate),
		logger.Int("triggersFailed", stats.TriggersFailed),
		logger.Int("awardsGranted", stats.AwardsGranted),
		logger.Duration("duration", stats.Duration),
		logger.Any("successRate", successRate),
		logger.Any("triggersPerSecond", triggersPerSecond))
}
