// Package rules implements the per-trigger award predicates.
//
// Each evaluator receives the full trigger and returns the award ids it
// newly granted. Evaluators check HasGrant before expensive predicate work
// where practical, but correctness never depends on that pre-check: the
// ledger's atomic insert-if-absent is what prevents duplicate grants under
// concurrent triggers.
package rules

import (
	"context"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/internal/domain/streak"
	"github.com/kelsall/accolade/pkg/metrics"
)

// Evaluator is one rule family, keyed to a trigger kind by the dispatcher.
// A trigger of the wrong concrete type, or one missing the fields a rule
// needs, is "not applicable": the evaluator returns no grants and no error.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, trig model.Trigger) ([]award.ID, error)
}

// Deps bundles what every evaluator needs.
type Deps struct {
	Reader  history.Reader
	Ledger  ledger.Ledger
	Streaks *streak.Calculator
	Now     func() time.Time
}

// NewDeps creates evaluator dependencies with a real clock unless one is set.
func NewDeps(reader history.Reader, led ledger.Ledger, opts ...DepsOption) *Deps {
	d := &Deps{
		Reader:  reader,
		Ledger:  led,
		Streaks: streak.NewCalculator(reader),
		Now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DepsOption applies a configuration option to Deps.
type DepsOption func(*Deps)

// WithClock overrides the evaluators' notion of now.
func WithClock(now func() time.Time) DepsOption {
	return func(d *Deps) {
		if now != nil {
			d.Now = now
		}
	}
}

// grant records awardID for personID unless already held. It returns true
// iff this call created the grant.
func (d *Deps) grant(ctx context.Context, personID string, awardID award.ID, meta ledger.Meta) (bool, error) {
	has, err := d.Ledger.HasGrant(ctx, personID, awardID)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	if meta.Source == "" {
		meta.Source = ledger.SourceAuto
	}
	start := time.Now()
	inserted, err := d.Ledger.InsertIfAbsent(ctx, personID, awardID, meta)
	metrics.RecordLedgerInsertLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return false, err
	}
	if inserted {
		metrics.RecordAwardGranted(string(awardID))
	} else {
		// A concurrent trigger got there first; already granted, not an error.
		metrics.RecordGrantConflict()
	}
	return inserted, nil
}

// hasGrant is the cheap pre-check used to skip expensive predicates.
func (d *Deps) hasGrant(ctx context.Context, personID string, awardID award.ID) bool {
	has, err := d.Ledger.HasGrant(ctx, personID, awardID)
	if err != nil {
		// Fail open: the predicate runs and InsertIfAbsent still dedupes.
		return false
	}
	return has
}

// eligibleHistory fetches a person's full past RSVP history on eligible
// kinds, all responses included. Temporal detectors and milestone counts
// share this read.
func (d *Deps) eligibleHistory(ctx context.Context, personID string) ([]model.RSVPRecord, error) {
	return d.Reader.EligibleRSVPs(ctx, personID, history.Query{
		Kinds:    model.EligibleKinds(),
		OnlyPast: true,
	})
}

// attendedCount counts attended sessions in a record set: yes responses
// that were not cancelled late.
func attendedCount(rsvps []model.RSVPRecord) int {
	n := 0
	for _, rec := range rsvps {
		if rec.Response == model.ResponseYes && !rec.CancelledLate {
			n++
		}
	}
	return n
}
