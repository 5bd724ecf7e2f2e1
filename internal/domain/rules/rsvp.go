package rules

import (
	"context"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/internal/domain/temporal"
)

// RSVP timing boundaries. Early bird is strict (>7 days); last-minute is
// inclusive at 2 hours but excludes RSVPs after the start.
const (
	earlyBirdLead   = 7 * 24 * time.Hour
	lastMinuteLead  = 2 * time.Hour
	thirteenthPrior = 12
	fullBenchTotal  = 24
)

// RSVPEvaluator handles rules that fire on a yes RSVP.
type RSVPEvaluator struct {
	deps *Deps
}

// NewRSVPEvaluator creates the RSVP-trigger evaluator.
func NewRSVPEvaluator(deps *Deps) *RSVPEvaluator {
	return &RSVPEvaluator{deps: deps}
}

func (e *RSVPEvaluator) Name() string { return "rsvp" }

func (e *RSVPEvaluator) Evaluate(ctx context.Context, trig model.Trigger) ([]award.ID, error) {
	t, ok := trig.(model.RSVPTrigger)
	if !ok {
		return nil, nil
	}
	rec := t.RSVP
	if rec.Response != model.ResponseYes || rec.EventID == "" {
		return nil, nil
	}

	var granted []award.ID
	add := func(id award.ID, meta ledger.Meta) error {
		ok, err := e.deps.grant(ctx, t.PersonID, id, meta)
		if err != nil {
			return err
		}
		if ok {
			granted = append(granted, id)
		}
		return nil
	}
	eventMeta := ledger.Meta{EventID: rec.EventID}

	// Firsts. The count==1 check happens after the club app stored the
	// triggering RSVP; two near-simultaneous first RSVPs can both observe
	// count 1, and the ledger still collapses them to one grant.
	if err := e.firsts(ctx, t.PersonID, rec, add); err != nil {
		return granted, err
	}

	// Per-event headcount rules.
	prior, err := e.deps.Reader.EventYesCount(ctx, rec.EventID, rec.RespondedAt)
	if err != nil {
		return granted, err
	}
	if prior == thirteenthPrior {
		if err := add(award.ThirteenthPlayer, eventMeta); err != nil {
			return granted, err
		}
	}
	total, err := e.deps.Reader.EventYesCount(ctx, rec.EventID, time.Time{})
	if err != nil {
		return granted, err
	}
	if total >= fullBenchTotal {
		if err := add(award.FullBench, eventMeta); err != nil {
			return granted, err
		}
	}

	// Location heuristics. Empty locations are not classifiable.
	if rec.Event.Location != "" {
		if !matchesAny(rec.Event.Location, homeLocations) {
			if err := add(award.RoadTrip, eventMeta); err != nil {
				return granted, err
			}
		}
		if !matchesAny(rec.Event.Location, ukPlaces) {
			if err := add(award.InternationalWaters, eventMeta); err != nil {
				return granted, err
			}
		}
	}

	// Title keywords.
	if matchesAny(rec.Event.Title, []string{campKeyword}) {
		if err := add(award.CampSpirit, eventMeta); err != nil {
			return granted, err
		}
	}
	if matchesAny(rec.Event.Title, bigStageKeywords) {
		if err := add(award.BigStage, eventMeta); err != nil {
			return granted, err
		}
	}

	// Timing.
	if !rec.RespondedAt.IsZero() && !rec.Event.StartsAt.IsZero() {
		lead := rec.Event.StartsAt.Sub(rec.RespondedAt)
		if lead > earlyBirdLead {
			if err := add(award.EarlyBird, eventMeta); err != nil {
				return granted, err
			}
		}
		if lead > 0 && lead <= lastMinuteLead {
			if err := add(award.LastMinuteHero, eventMeta); err != nil {
				return granted, err
			}
		}
	}

	// Temporal patterns over full history, skipped when all already held.
	if err := e.patterns(ctx, t.PersonID, add); err != nil {
		return granted, err
	}

	return granted, nil
}

// firsts grants first-ever and first-of-kind awards.
func (e *RSVPEvaluator) firsts(ctx context.Context, personID string, rec model.RSVPRecord, add func(award.ID, ledger.Meta) error) error {
	meta := ledger.Meta{EventID: rec.EventID}

	all, err := e.deps.Reader.EligibleRSVPs(ctx, personID, history.Query{OnlyYes: true, MaxRows: 2})
	if err != nil {
		return err
	}
	if len(all) == 1 {
		if err := add(award.FirstDip, meta); err != nil {
			return err
		}
	}

	firstOfKind := map[model.EventKind]award.ID{
		model.KindMatch:      award.FirstMatch,
		model.KindTournament: award.FirstTournament,
	}
	if id, tracked := firstOfKind[rec.Event.Kind]; tracked {
		ofKind, err := e.deps.Reader.EligibleRSVPs(ctx, personID, history.Query{
			Kinds:   []model.EventKind{rec.Event.Kind},
			OnlyYes: true,
			MaxRows: 2,
		})
		if err != nil {
			return err
		}
		if len(ofKind) == 1 {
			if err := add(id, meta); err != nil {
				return err
			}
		}
	}
	return nil
}

// patterns runs the boolean temporal detectors, fetching history only when
// at least one pattern award is still unheld.
func (e *RSVPEvaluator) patterns(ctx context.Context, personID string, add func(award.ID, ledger.Meta) error) error {
	detectors := []struct {
		id     award.ID
		detect func([]model.RSVPRecord) bool
	}{
		{award.PerfectWeek, temporal.PerfectWeek},
		{award.UnbrokenMonth, temporal.UnbrokenMonth},
		{award.StreakSaver, temporal.StreakSaver},
	}

	pending := detectors[:0]
	for _, d := range detectors {
		if !e.deps.hasGrant(ctx, personID, d.id) {
			pending = append(pending, d)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	recs, err := e.deps.eligibleHistory(ctx, personID)
	if err != nil {
		return err
	}
	for _, d := range pending {
		if d.detect(recs) {
			if err := add(d.id, ledger.Meta{}); err != nil {
				return err
			}
		}
	}
	return nil
}
