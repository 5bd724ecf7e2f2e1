// Package app wires the award engine: trigger dispatch, delivery dedupe,
// and the bulk sweep.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/dedupe"
	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/internal/domain/rules"
	"github.com/kelsall/accolade/internal/domain/streak"
	"github.com/kelsall/accolade/pkg/logger"
	"github.com/kelsall/accolade/pkg/metrics"
)

// Service is the engine's sole public surface: a stateless trigger router
// over the rule evaluators, plus the bulk sweep. All persistent state lives
// in the ledger and the club database; concurrent Evaluate calls coordinate
// only through the ledger's atomic insert-if-absent.
type Service struct {
	mu sync.RWMutex

	// Core components
	reader   history.Reader
	ledger   ledger.Ledger
	deps     *rules.Deps
	byKind   map[model.TriggerKind][]rules.Evaluator
	crosscut rules.Evaluator
	streaks  *streak.Calculator
	deduper  dedupe.Deduper

	// Configuration
	sweepWorkerCount int
	sweepQueueSize   int
	dedupeSize       int
	activeWindowDays int
	now              func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithReader sets the history reader. Defaults to the in-memory reader.
func WithReader(reader history.Reader) Option {
	return func(s *Service) {
		if reader != nil {
			s.reader = reader
		}
	}
}

// WithLedger sets the grant ledger. Defaults to the in-memory ledger.
func WithLedger(led ledger.Ledger) Option {
	return func(s *Service) {
		if led != nil {
			s.ledger = led
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSweepWorkerCount sets the number of sweep workers.
func WithSweepWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.sweepWorkerCount = count
		}
	}
}

// WithSweepQueueSize bounds the sweep trigger queue.
func WithSweepQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.sweepQueueSize = size
		}
	}
}

// WithDedupeSize sets the size of the delivery dedupe cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithActiveWindowDays sets how recent an eligible RSVP must be for sweep
// inclusion.
func WithActiveWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.activeWindowDays = days
		}
	}
}

// WithClock overrides the service's notion of now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sweepWorkerCount: 4,
		sweepQueueSize:   10_000,
		dedupeSize:       50_000,
		activeWindowDays: 90,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.reader == nil {
		s.reader = history.NewMemoryReader()
		s.logger.Info(ctx, "using in-memory history reader")
	}
	if s.ledger == nil {
		s.ledger = ledger.NewMemoryLedger()
		s.logger.Info(ctx, "using in-memory grant ledger")
	}

	s.deps = rules.NewDeps(s.reader, s.ledger, rules.WithClock(s.now))
	s.streaks = streak.NewCalculator(s.reader)
	s.deduper = dedupe.NewRingDeduper(dedupe.WithMaxSize(s.dedupeSize))

	s.crosscut = rules.NewCrosscutEvaluator(s.deps)
	s.byKind = map[model.TriggerKind][]rules.Evaluator{
		model.TriggerRSVP:         {rules.NewRSVPEvaluator(s.deps)},
		model.TriggerAttendance:   {rules.NewAttendanceEvaluator(s.deps)},
		model.TriggerTeamAssigned: {rules.NewTeamEvaluator(s.deps)},
		model.TriggerProfileLoad:  {rules.NewProfileEvaluator(s.deps)},
		model.TriggerScheduled:    {rules.NewScheduledEvaluator(s.deps)},
	}

	s.started = true
	s.logger.Info(ctx, "award engine started",
		logger.Int("sweepWorkers", s.sweepWorkerCount),
		logger.Int("sweepQueueSize", s.sweepQueueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("activeWindowDays", s.activeWindowDays),
	)
	return nil
}

// Stop shuts the service down. There is no in-flight state to drain; sweep
// runs own their queues and pools.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "award engine stopped")
}

// Evaluate routes one trigger through its evaluators plus the cross-cutting
// checks and returns the award ids granted during this call. It never
// returns an error: evaluator failures are logged, counted, and swallowed,
// and the worst case is an empty list. Re-evaluation is always safe.
func (s *Service) Evaluate(ctx context.Context, trig model.Trigger) []award.ID {
	if trig == nil || trig.Person() == "" {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordTriggerProcessed(string(trig.Kind()))

	s.mu.RLock()
	kindEvaluators := s.byKind[trig.Kind()]
	crosscut := s.crosscut
	s.mu.RUnlock()

	var granted []award.ID
	for _, ev := range kindEvaluators {
		granted = append(granted, s.runEvaluator(ctx, ev, trig)...)
	}
	if crosscut != nil {
		granted = append(granted, s.runEvaluator(ctx, crosscut, trig)...)
	}
	return granted
}

// runEvaluator isolates one evaluator: its error or panic never aborts the
// remaining evaluators. Grants made before a mid-evaluator failure stand;
// the next trigger re-evaluates whatever was missed.
func (s *Service) runEvaluator(ctx context.Context, ev rules.Evaluator, trig model.Trigger) (granted []award.ID) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordEvaluatorError(ev.Name())
			s.logger.Error(ctx, "evaluator panicked",
				logger.String("evaluator", ev.Name()),
				logger.String("person", trig.Person()),
				logger.Any("panic", r),
			)
		}
	}()

	granted, err := ev.Evaluate(ctx, trig)
	if err != nil {
		metrics.RecordEvaluatorError(ev.Name())
		s.logger.Warn(ctx, "evaluator failed; skipping",
			logger.String("evaluator", ev.Name()),
			logger.String("person", trig.Person()),
			logger.Error(err),
		)
	}
	return granted
}

// SeenDelivery atomically checks and records a trigger delivery id, letting
// the HTTP layer skip redelivered triggers. Unknown/empty ids are never
// deduplicated.
func (s *Service) SeenDelivery(ctx context.Context, deliveryID string) bool {
	if deliveryID == "" {
		return false
	}
	seen := s.deduper.SeenAndRecord(ctx, deliveryID)
	if seen {
		metrics.RecordTriggerDuplicate()
	}
	return seen
}

// GrantsFor exposes the ledger read model for the awards endpoint.
func (s *Service) GrantsFor(ctx context.Context, personID string) ([]ledger.Grant, error) {
	return s.ledger.GrantsFor(ctx, personID)
}

// CurrentStreak exposes the streak calculator for the awards endpoint.
func (s *Service) CurrentStreak(ctx context.Context, personID string) (int, error) {
	return s.streaks.Current(ctx, personID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"started":          s.started,
		"sweepWorkers":     s.sweepWorkerCount,
		"sweepQueueSize":   s.sweepQueueSize,
		"dedupeSize":       s.dedupeSize,
		"activeWindowDays": s.activeWindowDays,
		"dedupeTracked":    s.dedupeTracked(),
		"catalogSize":      len(award.Catalog()),
	}
}

func (s *Service) dedupeTracked() int {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
