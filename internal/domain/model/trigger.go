package model

// TriggerKind names the external action that caused an evaluation.
type TriggerKind string

const (
	TriggerRSVP         TriggerKind = "rsvp"
	TriggerAttendance   TriggerKind = "attendance"
	TriggerTeamAssigned TriggerKind = "team_assigned"
	TriggerProfileLoad  TriggerKind = "profile_load"
	TriggerScheduled    TriggerKind = "scheduled"
)

// Trigger is the sealed union of per-kind evaluation contexts. Each concrete
// type carries exactly the fields its evaluators need; dispatch is a type
// switch, not a string comparison on loosely typed payloads.
type Trigger interface {
	Kind() TriggerKind
	Person() string

	sealed()
}

// RSVPTrigger fires when a member submits an RSVP. The engine only evaluates
// "yes" responses; others are routed but produce no grants.
type RSVPTrigger struct {
	PersonID string
	RSVP     RSVPRecord
}

func (t RSVPTrigger) Kind() TriggerKind { return TriggerRSVP }
func (t RSVPTrigger) Person() string    { return t.PersonID }
func (RSVPTrigger) sealed()             {}

// AttendanceTrigger fires when attendance is marked for a member.
type AttendanceTrigger struct {
	PersonID   string
	Attendance AttendanceRecord
}

func (t AttendanceTrigger) Kind() TriggerKind { return TriggerAttendance }
func (t AttendanceTrigger) Person() string    { return t.PersonID }
func (AttendanceTrigger) sealed()             {}

// TeamAssignedTrigger fires when a team assignment is recorded for a member.
type TeamAssignedTrigger struct {
	PersonID   string
	Assignment TeamAssignmentRecord
}

func (t TeamAssignedTrigger) Kind() TriggerKind { return TriggerTeamAssigned }
func (t TeamAssignedTrigger) Person() string    { return t.PersonID }
func (TeamAssignedTrigger) sealed()             {}

// ProfileLoadTrigger fires when a member opens their profile or awards page.
type ProfileLoadTrigger struct {
	PersonID string
}

func (t ProfileLoadTrigger) Kind() TriggerKind { return TriggerProfileLoad }
func (t ProfileLoadTrigger) Person() string    { return t.PersonID }
func (ProfileLoadTrigger) sealed()             {}

// ScheduledTrigger fires from the cron tick, directly or via the bulk sweep.
type ScheduledTrigger struct {
	PersonID string
}

func (t ScheduledTrigger) Kind() TriggerKind { return TriggerScheduled }
func (t ScheduledTrigger) Person() string    { return t.PersonID }
func (ScheduledTrigger) sealed()             {}
