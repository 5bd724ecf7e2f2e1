// Package model contains domain models passed between layers.
package model

import "time"

// EventKind classifies a club event.
type EventKind string

// Known event kinds, mirroring the club app's event table.
const (
	KindSession       EventKind = "session"
	KindTraining      EventKind = "training"
	KindLadiesSession EventKind = "ladies_session"
	KindMatch         EventKind = "match"
	KindTournament    EventKind = "tournament"
	KindSocial        EventKind = "social"
)

// EligibleKinds returns the event kinds that count toward attendance,
// streaks, and milestones.
func EligibleKinds() []EventKind {
	return []EventKind{KindSession, KindTraining, KindLadiesSession}
}

// RSVPResponse is a member's answer to an event invitation.
type RSVPResponse string

const (
	ResponseYes   RSVPResponse = "yes"
	ResponseNo    RSVPResponse = "no"
	ResponseMaybe RSVPResponse = "maybe"
)

// AttendanceStatus records what actually happened at the event.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

// TeamActivity classifies what a member was assigned to do at an event.
type TeamActivity string

const (
	ActivityPlay       TeamActivity = "play"
	ActivitySwimSets   TeamActivity = "swim_sets"
	ActivityNotPlaying TeamActivity = "not_playing"
	ActivityOther      TeamActivity = "other"
)

// PositionCode identifies one of the four playing positions.
type PositionCode string

const (
	PositionGoalkeeper PositionCode = "gk"
	PositionDefender   PositionCode = "def"
	PositionCentre     PositionCode = "ctr"
	PositionWing       PositionCode = "wng"
)

// AllPositions returns the four playing positions.
func AllPositions() []PositionCode {
	return []PositionCode{PositionGoalkeeper, PositionDefender, PositionCentre, PositionWing}
}

// EventInfo carries the event columns joined onto history records.
type EventInfo struct {
	ID          string
	Kind        EventKind
	Title       string
	Location    string
	StartsAt    time.Time
	VisibleFrom time.Time // when the event became visible to members
}

// RSVPRecord is a member's response to an event, joined with event info.
// Owned and mutated by the club app; read-only here.
type RSVPRecord struct {
	EventID       string
	PersonID      string
	Response      RSVPResponse
	RespondedAt   time.Time
	CancelledLate bool
	Event         EventInfo
}

// AttendanceRecord is a member's recorded presence at an event.
type AttendanceRecord struct {
	EventID     string
	PersonID    string
	Status      AttendanceStatus
	CheckedInAt time.Time
	Event       EventInfo
}

// TeamAssignmentRecord is a member's team/position assignment for an event.
type TeamAssignmentRecord struct {
	EventID    string
	PersonID   string
	TeamID     string // empty when no team was assigned
	TeamName   string
	Activity   TeamActivity
	Position   PositionCode // empty when no position was assigned
	AssignedBy string       // person id of the assigner
	AssignedAt time.Time
}
