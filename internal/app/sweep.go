package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kelsall/accolade/internal/adapters/mq/queue"
	"github.com/kelsall/accolade/internal/adapters/mq/worker"
	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/pkg/logger"
	"github.com/kelsall/accolade/pkg/metrics"
)

// enqueueRetryDelay paces the producer when sweep workers fall behind.
const enqueueRetryDelay = 10 * time.Millisecond

// SweepResult reports the outcome of one bulk sweep.
type SweepResult struct {
	Checked int `json:"checked"`
	Awarded int `json:"awarded"`
}

// Sweep re-evaluates every recently-active member with a scheduled trigger.
// Members are fanned out over a run-scoped queue and worker pool; ordering
// is immaterial because grants are idempotent per person. The error return
// covers only the member listing — per-member evaluation failures are
// swallowed inside Evaluate as usual.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	s.mu.RLock()
	reader := s.reader
	workers := s.sweepWorkerCount
	queueSize := s.sweepQueueSize
	windowDays := s.activeWindowDays
	s.mu.RUnlock()

	start := time.Now()
	since := s.now().AddDate(0, 0, -windowDays)
	members, err := reader.ActiveMembers(ctx, since)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list active members: %w", err)
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(queueSize))
	pool := worker.NewPool(workers, q, s, worker.WithLogger(s.logger))

	go func() {
		defer func() { _ = q.Close() }()
		for _, personID := range members {
			trig := model.ScheduledTrigger{PersonID: personID}
			for !q.Enqueue(ctx, trig) {
				if ctx.Err() != nil {
					return
				}
				time.Sleep(enqueueRetryDelay)
			}
		}
	}()

	pool.Run(ctx)

	result := SweepResult{
		Checked: pool.Processed(),
		Awarded: pool.Awarded(),
	}
	elapsed := time.Since(start)
	metrics.RecordSweep(result.Checked, result.Awarded, float64(elapsed.Milliseconds()), time.Now().Unix())
	s.logger.Info(ctx, "bulk sweep finished",
		logger.Int("checked", result.Checked),
		logger.Int("awarded", result.Awarded),
		logger.Duration("elapsed", elapsed),
	)
	return result, nil
}
