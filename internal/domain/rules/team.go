package rules

import (
	"context"
	"strings"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
)

const (
	colorLoyaltyMin    = 5
	positionLoyaltyMin = 10
	captainRole        = "captain"
)

// positionAwards maps each playing position to its loyalty award.
var positionAwards = map[model.PositionCode]award.ID{
	model.PositionGoalkeeper: award.GoalkeeperGuild,
	model.PositionDefender:   award.AnchorDefender,
	model.PositionCentre:     award.CentreStalwart,
	model.PositionWing:       award.WingWizard,
}

// TeamEvaluator handles rules that fire on a play-activity team assignment.
type TeamEvaluator struct {
	deps *Deps
}

// NewTeamEvaluator creates the team-assignment evaluator.
func NewTeamEvaluator(deps *Deps) *TeamEvaluator {
	return &TeamEvaluator{deps: deps}
}

func (e *TeamEvaluator) Name() string { return "team" }

func (e *TeamEvaluator) Evaluate(ctx context.Context, trig model.Trigger) ([]award.ID, error) {
	t, ok := trig.(model.TeamAssignedTrigger)
	if !ok {
		return nil, nil
	}
	a := t.Assignment
	if a.Activity != model.ActivityPlay {
		return nil, nil
	}

	var granted []award.ID
	add := func(id award.ID) error {
		ok, err := e.deps.grant(ctx, t.PersonID, id, ledger.Meta{EventID: a.EventID})
		if err != nil {
			return err
		}
		if ok {
			granted = append(granted, id)
		}
		return nil
	}

	// One read covers colour counts, position counts, and utility.
	assignments, err := e.deps.Reader.TeamAssignments(ctx, t.PersonID, history.AssignmentFilter{
		Activity: model.ActivityPlay,
	})
	if err != nil {
		return granted, err
	}

	white, black := 0, 0
	positionCounts := make(map[model.PositionCode]int)
	for _, rec := range assignments {
		name := strings.ToLower(rec.TeamName)
		switch {
		case strings.Contains(name, "white"):
			white++
		case strings.Contains(name, "black"):
			black++
		}
		if rec.Position != "" {
			positionCounts[rec.Position]++
		}
	}

	if white >= colorLoyaltyMin {
		if err := add(award.WhiteLoyalist); err != nil {
			return granted, err
		}
	}
	if black >= colorLoyaltyMin {
		if err := add(award.BlackLoyalist); err != nil {
			return granted, err
		}
	}

	// Assigned to a team matching neither colour.
	if name := strings.ToLower(a.TeamName); name != "" &&
		!strings.Contains(name, "white") && !strings.Contains(name, "black") {
		if err := add(award.ThirdTeam); err != nil {
			return granted, err
		}
	}

	// First name on the sheet, picked by a captain.
	if a.AssignedBy != "" && !e.deps.hasGrant(ctx, t.PersonID, award.CaptainsPick) {
		total, err := e.deps.Reader.EventAssignmentCount(ctx, a.EventID)
		if err != nil {
			return granted, err
		}
		if total == 1 {
			isCaptain, err := e.deps.Reader.HasGroupRole(ctx, a.AssignedBy, captainRole)
			if err != nil {
				return granted, err
			}
			if isCaptain {
				if err := add(award.CaptainsPick); err != nil {
					return granted, err
				}
			}
		}
	}

	// Per-position loyalty and playing every position at least once.
	if id, tracked := positionAwards[a.Position]; tracked && positionCounts[a.Position] >= positionLoyaltyMin {
		if err := add(id); err != nil {
			return granted, err
		}
	}
	playedAll := true
	for _, pos := range model.AllPositions() {
		if positionCounts[pos] == 0 {
			playedAll = false
			break
		}
	}
	if playedAll {
		if err := add(award.UtilityPlayer); err != nil {
			return granted, err
		}
	}

	return granted, nil
}
