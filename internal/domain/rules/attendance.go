package rules

import (
	"context"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
)

const (
	weekdayRegularMin = 10
	newYearWindowDays = 7
)

// trackedWeekdays maps the club's regular session days to their awards.
var trackedWeekdays = map[time.Weekday]award.ID{
	time.Monday:    award.MondayRegular,
	time.Wednesday: award.WednesdayRegular,
	time.Friday:    award.FridayRegular,
	time.Sunday:    award.SundayRegular,
}

// AttendanceEvaluator handles rules that fire when attendance is marked.
type AttendanceEvaluator struct {
	deps *Deps
}

// NewAttendanceEvaluator creates the attendance-trigger evaluator.
func NewAttendanceEvaluator(deps *Deps) *AttendanceEvaluator {
	return &AttendanceEvaluator{deps: deps}
}

func (e *AttendanceEvaluator) Name() string { return "attendance" }

func (e *AttendanceEvaluator) Evaluate(ctx context.Context, trig model.Trigger) ([]award.ID, error) {
	t, ok := trig.(model.AttendanceTrigger)
	if !ok {
		return nil, nil
	}
	rec := t.Attendance
	if rec.Status != model.StatusPresent && rec.Status != model.StatusLate {
		return nil, nil
	}
	if rec.Event.StartsAt.IsZero() {
		return nil, nil
	}

	var granted []award.ID
	meta := ledger.Meta{EventID: rec.EventID}

	if id, tracked := trackedWeekdays[rec.Event.StartsAt.Weekday()]; tracked && !e.deps.hasGrant(ctx, t.PersonID, id) {
		count, err := e.deps.Reader.AttendanceCountByWeekday(ctx, t.PersonID, rec.Event.StartsAt.Weekday())
		if err != nil {
			return granted, err
		}
		if count >= weekdayRegularMin {
			ok, err := e.deps.grant(ctx, t.PersonID, id, meta)
			if err != nil {
				return granted, err
			}
			if ok {
				granted = append(granted, id)
			}
		}
	}

	// First week of January, any year, once per person.
	if rec.Event.StartsAt.Month() == time.January && rec.Event.StartsAt.Day() <= newYearWindowDays {
		ok, err := e.deps.grant(ctx, t.PersonID, award.NewYearSplash, meta)
		if err != nil {
			return granted, err
		}
		if ok {
			granted = append(granted, award.NewYearSplash)
		}
	}

	return granted, nil
}
