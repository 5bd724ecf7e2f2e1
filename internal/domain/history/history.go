// Package history defines read-only access to the club app's activity data.
//
// The engine never mutates RSVP, attendance, or team records. Every
// evaluation re-reads current state through this interface; there is no
// caching or snapshotting layer in front of it.
package history

import (
	"context"
	"time"

	"github.com/kelsall/accolade/internal/domain/model"
)

// Query narrows an RSVP history read. A zero MaxRows means no cap; callers
// doing bounded scans (the streak calculator) must set it explicitly.
type Query struct {
	Kinds    []model.EventKind
	MaxRows  int
	OnlyPast bool // only events that have already started
	OnlyYes  bool // only response == yes
}

// AssignmentFilter narrows a team-assignment history read. Zero values match
// everything.
type AssignmentFilter struct {
	Activity model.TeamActivity
	Position model.PositionCode
	MaxRows  int
}

// Reader provides parameterized, read-only queries over club history.
// Implementations must return RSVP collections ordered by event start time
// descending.
type Reader interface {
	// EligibleRSVPs returns a person's RSVPs matching q, event info joined,
	// ordered by event start time descending.
	EligibleRSVPs(ctx context.Context, personID string, q Query) ([]model.RSVPRecord, error)

	// EventYesCount counts non-late-cancelled yes RSVPs on one event.
	// A non-zero until restricts to responses submitted strictly before it.
	EventYesCount(ctx context.Context, eventID string, until time.Time) (int, error)

	// AttendanceCountByWeekday counts a person's present/late attendances
	// falling on the given weekday.
	AttendanceCountByWeekday(ctx context.Context, personID string, weekday time.Weekday) (int, error)

	// TeamAssignments returns a person's team assignments matching f,
	// newest first.
	TeamAssignments(ctx context.Context, personID string, f AssignmentFilter) ([]model.TeamAssignmentRecord, error)

	// EventAssignmentCount counts team assignments recorded for one event,
	// across all members.
	EventAssignmentCount(ctx context.Context, eventID string) (int, error)

	// HasGroupRole reports whether a person holds the named role in any group.
	HasGroupRole(ctx context.Context, personID, role string) (bool, error)

	// FirstYesRSVP returns a person's earliest yes RSVP by event start time,
	// or nil when they have none.
	FirstYesRSVP(ctx context.Context, personID string) (*model.RSVPRecord, error)

	// ActiveMembers lists person ids with at least one eligible-kind RSVP on
	// an event starting at or after since.
	ActiveMembers(ctx context.Context, since time.Time) ([]string, error)
}
