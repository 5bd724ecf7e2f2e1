package api

import (
	"net/http"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/pkg/logger"
)

// AwardsHandler serves a member's earned and locked awards.
type AwardsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewAwardsHandler creates a handler for GET /awards.
func NewAwardsHandler(deps Dependencies) *AwardsHandler {
	return &AwardsHandler{
		deps:   deps,
		logger: logger.Named("api"),
	}
}

type earnedAward struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Source      string    `json:"source"`
	EventID     string    `json:"event_id,omitempty"`
	AwardedAt   time.Time `json:"awarded_at"`
}

type lockedAward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type awardsResponse struct {
	PersonID      string        `json:"person_id"`
	CurrentStreak int           `json:"current_streak"`
	Earned        []earnedAward `json:"earned"`
	Locked        []lockedAward `json:"locked"`
}

// HandleGetAwards handles GET /awards?person_id=. Earned awards come back
// in grant order, locked ones in catalog order.
func (h *AwardsHandler) HandleGetAwards(w http.ResponseWriter, r *http.Request) {
	const op = "api.HandleGetAwards"

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", wrap(op, ErrMethodNotAllowed))
		return
	}

	personID := r.URL.Query().Get("person_id")
	if personID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}

	ctx := r.Context()
	grants, err := h.deps.GrantsFor(ctx, personID)
	if err != nil {
		h.logger.Error(ctx, "grant lookup failed",
			logger.String("person_id", personID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", wrap(op, err))
		return
	}

	streak, err := h.deps.CurrentStreak(ctx, personID)
	if err != nil {
		h.logger.Warn(ctx, "streak lookup failed",
			logger.String("person_id", personID), logger.Error(err))
		streak = 0
	}

	earnedSet := make(map[award.ID]bool, len(grants))
	earned := make([]earnedAward, 0, len(grants))
	for _, g := range grants {
		earnedSet[g.AwardID] = true
		def, ok := award.Lookup(g.AwardID)
		if !ok {
			// Grants for retired award ids stay in the ledger but are
			// not surfaced.
			continue
		}
		earned = append(earned, earnedAward{
			ID:          string(def.ID),
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Source:      string(g.Source),
			EventID:     g.EventID,
			AwardedAt:   g.AwardedAt,
		})
	}

	catalog := award.Catalog()
	locked := make([]lockedAward, 0, len(catalog))
	for _, def := range catalog {
		if earnedSet[def.ID] {
			continue
		}
		locked = append(locked, lockedAward{
			ID:          string(def.ID),
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
		})
	}

	writeJSON(w, http.StatusOK, awardsResponse{
		PersonID:      personID,
		CurrentStreak: streak,
		Earned:        earned,
		Locked:        locked,
	})
}
