package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/pkg/logger"
)

// TriggersHandler accepts trigger deliveries from the club app.
type TriggersHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewTriggersHandler creates a handler for POST /triggers.
func NewTriggersHandler(deps Dependencies) *TriggersHandler {
	return &TriggersHandler{
		deps:   deps,
		logger: logger.Named("api"),
	}
}

type eventContext struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	VisibleFrom time.Time `json:"visible_from,omitempty"`
}

func (e eventContext) toModel() model.EventInfo {
	return model.EventInfo{
		ID:          e.ID,
		Kind:        model.EventKind(e.Kind),
		Title:       e.Title,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		VisibleFrom: e.VisibleFrom,
	}
}

type rsvpContext struct {
	Event         eventContext `json:"event"`
	Response      string       `json:"response"`
	RespondedAt   time.Time    `json:"responded_at"`
	CancelledLate bool         `json:"cancelled_late,omitempty"`
}

type attendanceContext struct {
	Event       eventContext `json:"event"`
	Status      string       `json:"status"`
	CheckedInAt time.Time    `json:"checked_in_at,omitempty"`
}

type teamContext struct {
	EventID    string    `json:"event_id"`
	TeamID     string    `json:"team_id,omitempty"`
	TeamName   string    `json:"team_name,omitempty"`
	Activity   string    `json:"activity"`
	Position   string    `json:"position,omitempty"`
	AssignedBy string    `json:"assigned_by,omitempty"`
	AssignedAt time.Time `json:"assigned_at,omitempty"`
}

type triggerRequest struct {
	DeliveryID string             `json:"delivery_id"`
	PersonID   string             `json:"person_id"`
	Kind       string             `json:"kind"`
	RSVP       *rsvpContext       `json:"rsvp,omitempty"`
	Attendance *attendanceContext `json:"attendance,omitempty"`
	Team       *teamContext       `json:"team,omitempty"`
}

func (r triggerRequest) validate() error {
	if r.PersonID == "" {
		return fmt.Errorf("person_id is required")
	}
	switch model.TriggerKind(r.Kind) {
	case model.TriggerRSVP, model.TriggerAttendance, model.TriggerTeamAssigned,
		model.TriggerProfileLoad, model.TriggerScheduled:
		return nil
	default:
		return fmt.Errorf("unknown trigger kind %q", r.Kind)
	}
}

// toTrigger builds the typed trigger. A missing context block yields a
// trigger with zero-valued records; evaluators treat those as not
// applicable rather than errors.
func (r triggerRequest) toTrigger() model.Trigger {
	switch model.TriggerKind(r.Kind) {
	case model.TriggerRSVP:
		trig := model.RSVPTrigger{PersonID: r.PersonID}
		if r.RSVP != nil {
			trig.RSVP = model.RSVPRecord{
				EventID:       r.RSVP.Event.ID,
				PersonID:      r.PersonID,
				Response:      model.RSVPResponse(r.RSVP.Response),
				RespondedAt:   r.RSVP.RespondedAt,
				CancelledLate: r.RSVP.CancelledLate,
				Event:         r.RSVP.Event.toModel(),
			}
		}
		return trig
	case model.TriggerAttendance:
		trig := model.AttendanceTrigger{PersonID: r.PersonID}
		if r.Attendance != nil {
			trig.Attendance = model.AttendanceRecord{
				EventID:     r.Attendance.Event.ID,
				PersonID:    r.PersonID,
				Status:      model.AttendanceStatus(r.Attendance.Status),
				CheckedInAt: r.Attendance.CheckedInAt,
				Event:       r.Attendance.Event.toModel(),
			}
		}
		return trig
	case model.TriggerTeamAssigned:
		trig := model.TeamAssignedTrigger{PersonID: r.PersonID}
		if r.Team != nil {
			trig.Assignment = model.TeamAssignmentRecord{
				EventID:    r.Team.EventID,
				PersonID:   r.PersonID,
				TeamID:     r.Team.TeamID,
				TeamName:   r.Team.TeamName,
				Activity:   model.TeamActivity(r.Team.Activity),
				Position:   model.PositionCode(r.Team.Position),
				AssignedBy: r.Team.AssignedBy,
				AssignedAt: r.Team.AssignedAt,
			}
		}
		return trig
	case model.TriggerProfileLoad:
		return model.ProfileLoadTrigger{PersonID: r.PersonID}
	default:
		return model.ScheduledTrigger{PersonID: r.PersonID}
	}
}

type triggerResponse struct {
	Granted   []string `json:"granted"`
	Duplicate bool     `json:"duplicate"`
}

// HandlePostTrigger handles POST /triggers. Deliveries that repeat a
// delivery_id are acknowledged without re-evaluation so the club app can
// retry safely.
func (h *TriggersHandler) HandlePostTrigger(w http.ResponseWriter, r *http.Request) {
	const op = "api.HandlePostTrigger"

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", wrap(op, ErrMethodNotAllowed))
		return
	}

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	if req.DeliveryID != "" && h.deps.SeenDelivery(ctx, req.DeliveryID) {
		h.logger.Debug(ctx, "duplicate delivery skipped",
			logger.String("delivery_id", req.DeliveryID),
			logger.String("person_id", req.PersonID))
		writeJSON(w, http.StatusOK, triggerResponse{Granted: []string{}, Duplicate: true})
		return
	}

	granted := h.deps.Evaluate(ctx, req.toTrigger())
	ids := make([]string, 0, len(granted))
	for _, id := range granted {
		ids = append(ids, string(id))
	}
	writeJSON(w, http.StatusOK, triggerResponse{Granted: ids, Duplicate: false})
}
