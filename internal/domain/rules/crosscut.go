package rules

import (
	"context"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
)

// milestoneLadder maps lifetime attended-session thresholds to awards.
var milestoneLadder = []struct {
	count int
	id    award.ID
}{
	{5, award.Milestone5},
	{10, award.Milestone10},
	{25, award.Milestone25},
	{50, award.Milestone50},
	{100, award.Milestone100},
	{200, award.Milestone200},
}

// streakLadder maps live-streak thresholds to awards.
var streakLadder = []struct {
	length int
	id     award.ID
}{
	{2, award.BackToBack},
	{3, award.HatTrick},
	{8, award.EverPresent},
	{24, award.IronLungs},
}

// CrosscutEvaluator runs on every trigger kind: milestone-ladder and
// streak-threshold checks.
type CrosscutEvaluator struct {
	deps *Deps
}

// NewCrosscutEvaluator creates the cross-cutting evaluator.
func NewCrosscutEvaluator(deps *Deps) *CrosscutEvaluator {
	return &CrosscutEvaluator{deps: deps}
}

func (e *CrosscutEvaluator) Name() string { return "crosscut" }

func (e *CrosscutEvaluator) Evaluate(ctx context.Context, trig model.Trigger) ([]award.ID, error) {
	personID := trig.Person()
	if personID == "" {
		return nil, nil
	}

	var granted []award.ID
	add := func(id award.ID) error {
		ok, err := e.deps.grant(ctx, personID, id, ledger.Meta{})
		if err != nil {
			return err
		}
		if ok {
			granted = append(granted, id)
		}
		return nil
	}

	// Lifetime milestones. A grant at a threshold is permanent even if the
	// underlying count could never regress anyway.
	if e.anyMilestonePending(ctx, personID) {
		recs, err := e.deps.eligibleHistory(ctx, personID)
		if err != nil {
			return granted, err
		}
		lifetime := attendedCount(recs)
		for _, m := range milestoneLadder {
			if lifetime >= m.count {
				if err := add(m.id); err != nil {
					return granted, err
				}
			}
		}
	}

	// Streak thresholds. Thresholds below the live streak that were somehow
	// missed are granted along with the one just crossed; the ledger keeps
	// all of them exactly-once.
	if e.anyStreakPending(ctx, personID) {
		current, err := e.deps.Streaks.Current(ctx, personID)
		if err != nil {
			return granted, err
		}
		for _, s := range streakLadder {
			if current >= s.length {
				if err := add(s.id); err != nil {
					return granted, err
				}
			}
		}
	}

	return granted, nil
}

func (e *CrosscutEvaluator) anyMilestonePending(ctx context.Context, personID string) bool {
	for _, m := range milestoneLadder {
		if !e.deps.hasGrant(ctx, personID, m.id) {
			return true
		}
	}
	return false
}

func (e *CrosscutEvaluator) anyStreakPending(ctx context.Context, personID string) bool {
	for _, s := range streakLadder {
		if !e.deps.hasGrant(ctx, personID, s.id) {
			return true
		}
	}
	return false
}
