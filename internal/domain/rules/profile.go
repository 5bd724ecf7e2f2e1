package rules

import (
	"context"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
)

// Reliability thresholds over full history.
const (
	forwardPlannerMin  = 20
	forwardPlannerLead = 24 * time.Hour
	steady25Min        = 25
	steady50Min        = 50
	quickDrawMin       = 15
	quickDrawWindow    = 24 * time.Hour
)

// Anniversaries are elapsed wall-clock years since the first yes RSVP, not
// calendar years.
const yearHours = 24 * 365.25

var anniversaryAwards = []struct {
	years float64
	id    award.ID
}{
	{1, award.Anniversary1},
	{5, award.Anniversary5},
	{10, award.Anniversary10},
}

// ProfileEvaluator handles rules that fire when a member opens their
// profile or awards page.
type ProfileEvaluator struct {
	deps *Deps
}

// NewProfileEvaluator creates the profile-load evaluator.
func NewProfileEvaluator(deps *Deps) *ProfileEvaluator {
	return &ProfileEvaluator{deps: deps}
}

func (e *ProfileEvaluator) Name() string { return "profile" }

func (e *ProfileEvaluator) Evaluate(ctx context.Context, trig model.Trigger) ([]award.ID, error) {
	t, ok := trig.(model.ProfileLoadTrigger)
	if !ok {
		return nil, nil
	}

	granted, err := anniversaries(ctx, e.deps, t.PersonID)
	if err != nil {
		return granted, err
	}

	reliability, err := e.reliability(ctx, t.PersonID)
	if err != nil {
		return granted, err
	}
	granted = append(granted, reliability...)

	return granted, nil
}

// reliability computes the full-history counting awards from one read of
// the person's complete RSVP history.
func (e *ProfileEvaluator) reliability(ctx context.Context, personID string) ([]award.ID, error) {
	all, err := e.deps.Reader.EligibleRSVPs(ctx, personID, history.Query{})
	if err != nil {
		return nil, err
	}

	now := e.deps.Now()
	ahead, quick, lateCancels := 0, 0, 0
	attendedSessions := 0
	for _, rec := range all {
		if rec.CancelledLate {
			lateCancels++
		}
		if rec.Response != model.ResponseYes {
			continue
		}
		if !rec.RespondedAt.IsZero() && rec.Event.StartsAt.Sub(rec.RespondedAt) > forwardPlannerLead {
			ahead++
		}
		if !rec.Event.VisibleFrom.IsZero() && rec.RespondedAt.Sub(rec.Event.VisibleFrom) <= quickDrawWindow {
			quick++
		}
		if !rec.CancelledLate && isEligible(rec.Event.Kind) && rec.Event.StartsAt.Before(now) {
			attendedSessions++
		}
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

	if ahead >= forwardPlannerMin {
		if err := add(award.ForwardPlanner); err != nil {
			return granted, err
		}
	}
	if lateCancels == 0 && attendedSessions >= steady25Min {
		if err := add(award.Steady25); err != nil {
			return granted, err
		}
	}
	if lateCancels == 0 && attendedSessions >= steady50Min {
		if err := add(award.Steady50); err != nil {
			return granted, err
		}
	}
	if quick >= quickDrawMin {
		if err := add(award.QuickDraw); err != nil {
			return granted, err
		}
	}
	return granted, nil
}

// anniversaries grants tenure awards; shared by the profile and scheduled
// evaluators.
func anniversaries(ctx context.Context, deps *Deps, personID string) ([]award.ID, error) {
	first, err := deps.Reader.FirstYesRSVP(ctx, personID)
	if err != nil {
		return nil, err
	}
	if first == nil || first.RespondedAt.IsZero() {
		return nil, nil
	}

	elapsed := deps.Now().Sub(first.RespondedAt).Hours()
	var granted []award.ID
	for _, a := range anniversaryAwards {
		if elapsed < a.years*yearHours {
			continue
		}
		ok, err := deps.grant(ctx, personID, a.id, ledger.Meta{})
		if err != nil {
			return granted, err
		}
		if ok {
			granted = append(granted, a.id)
		}
	}
	return granted, nil
}

func isEligible(kind model.EventKind) bool {
	for _, k := range model.EligibleKinds() {
		if kind == k {
			return true
		}
	}
	return false
}
