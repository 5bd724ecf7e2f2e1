// Package worker runs the sweep worker pool that drains the trigger queue.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kelsall/accolade/internal/adapters/mq/queue"
	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/pkg/logger"
	"github.com/kelsall/accolade/pkg/metrics"
)

// Dispatcher evaluates one trigger. The sweep reuses the same entry point
// external triggers hit; it never errors, per the engine contract.
type Dispatcher interface {
	Evaluate(ctx context.Context, trig queue.Trigger) []award.ID
}

// Pool fans a closed queue out over count workers and drains it. A Pool is
// single-use: create one per sweep run.
type Pool struct {
	count      int
	queue      queue.Queue
	dispatcher Dispatcher

	processed atomic.Int64
	awarded   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a worker pool over q.
func NewPool(count int, q queue.Queue, dispatcher Dispatcher, opts ...Option) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{
		count:      count,
		queue:      q,
		dispatcher: dispatcher,
		logger:     logger.Named("sweep-worker"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes triggers until the queue is closed and drained, or ctx is
// cancelled. It blocks until all workers have stopped.
func (p *Pool) Run(ctx context.Context) {
	metrics.UpdateWorkerCount(p.count)
	defer metrics.UpdateWorkerCount(0)

	var wg sync.WaitGroup
	triggers := p.queue.Dequeue(ctx)
	for i := 0; i < p.count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case trig, ok := <-triggers:
					if !ok {
						return
					}
					granted := p.dispatcher.Evaluate(ctx, trig)
					p.processed.Add(1)
					p.awarded.Add(int64(len(granted)))
					metrics.UpdateQueueSize(p.queue.Len(ctx))
				}
			}
		}()
	}
	wg.Wait()
}

// Processed returns the number of triggers evaluated so far.
func (p *Pool) Processed() int {
	return int(p.processed.Load())
}

// Awarded returns the number of awards granted so far.
func (p *Pool) Awarded() int {
	return int(p.awarded.Load())
}
