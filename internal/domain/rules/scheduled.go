package rules

import (
	"context"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/internal/domain/temporal"
)

// The spring/summer window runs April through September. The seasonal award
// is only evaluated while now falls inside it.
const (
	summerWindowStart = time.April
	summerWindowEnd   = time.September
	summerStalwartMin = 10
)

// ScheduledEvaluator handles the cron-tick rules: anniversary re-checks,
// the seasonal window, and the season centurion.
type ScheduledEvaluator struct {
	deps *Deps
}

// NewScheduledEvaluator creates the scheduled-trigger evaluator.
func NewScheduledEvaluator(deps *Deps) *ScheduledEvaluator {
	return &ScheduledEvaluator{deps: deps}
}

func (e *ScheduledEvaluator) Name() string { return "scheduled" }

func (e *ScheduledEvaluator) Evaluate(ctx context.Context, trig model.Trigger) ([]award.ID, error) {
	t, ok := trig.(model.ScheduledTrigger)
	if !ok {
		return nil, nil
	}

	granted, err := anniversaries(ctx, e.deps, t.PersonID)
	if err != nil {
		return granted, err
	}

	add := func(id award.ID) error {
		ok, err := e.deps.grant(ctx, t.PersonID, id, ledger.Meta{})
		if err != nil {
			return err
		}
		if ok {
			granted = append(granted, id)
		}
		return nil
	}

	needSummer := e.inSummerWindow() && !e.deps.hasGrant(ctx, t.PersonID, award.SummerStalwart)
	needCenturion := !e.deps.hasGrant(ctx, t.PersonID, award.SeasonCenturion)
	if !needSummer && !needCenturion {
		return granted, nil
	}

	recs, err := e.deps.eligibleHistory(ctx, t.PersonID)
	if err != nil {
		return granted, err
	}

	if needSummer && e.summerAttendance(recs) >= summerStalwartMin {
		if err := add(award.SummerStalwart); err != nil {
			return granted, err
		}
	}
	if needCenturion && temporal.SeasonCenturion(recs) {
		if err := add(award.SeasonCenturion); err != nil {
			return granted, err
		}
	}

	return granted, nil
}

func (e *ScheduledEvaluator) inSummerWindow() bool {
	month := e.deps.Now().Month()
	return month >= summerWindowStart && month <= summerWindowEnd
}

// summerAttendance counts attended sessions inside the current year's
// summer window, up to now.
func (e *ScheduledEvaluator) summerAttendance(recs []model.RSVPRecord) int {
	now := e.deps.Now()
	windowStart := time.Date(now.Year(), summerWindowStart, 1, 0, 0, 0, 0, now.Location())
	count := 0
	for _, rec := range recs {
		if rec.Response != model.ResponseYes || rec.CancelledLate {
			continue
		}
		start := rec.Event.StartsAt
		if start.Before(windowStart) || start.After(now) {
			continue
		}
		count++
	}
	return count
}
