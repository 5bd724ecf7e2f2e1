package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kelsall/accolade/internal/domain/model"
)

// MemoryReader implements Reader over in-process slices. It backs dev mode
// and test fixtures; the production reader lives in adapters/clubdb.
type MemoryReader struct {
	mu          sync.RWMutex
	rsvps       []model.RSVPRecord
	attendance  []model.AttendanceRecord
	assignments []model.TeamAssignmentRecord
	roles       map[string]map[string]bool // person -> role -> held
	now         func() time.Time
}

// MemoryOption applies a configuration option to the MemoryReader.
type MemoryOption func(*MemoryReader)

// WithClock overrides the reader's notion of now, used by OnlyPast filters.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryReader) {
		if now != nil {
			r.now = now
		}
	}
}

// NewMemoryReader creates an empty in-memory reader.
func NewMemoryReader(opts ...MemoryOption) *MemoryReader {
	r := &MemoryReader{
		roles: make(map[string]map[string]bool),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddRSVP records an RSVP fixture row.
func (r *MemoryReader) AddRSVP(rec model.RSVPRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rsvps = append(r.rsvps, rec)
}

// AddAttendance records an attendance fixture row.
func (r *MemoryReader) AddAttendance(rec model.AttendanceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attendance = append(r.attendance, rec)
}

// AddAssignment records a team-assignment fixture row.
func (r *MemoryReader) AddAssignment(rec model.TeamAssignmentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, rec)
}

// SetRole marks a person as holding (or not holding) a group role.
func (r *MemoryReader) SetRole(personID, role string, held bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.roles[personID] == nil {
		r.roles[personID] = make(map[string]bool)
	}
	r.roles[personID][role] = held
}

func (r *MemoryReader) EligibleRSVPs(ctx context.Context, personID string, q Query) ([]model.RSVPRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var out []model.RSVPRecord
	for _, rec := range r.rsvps {
		if rec.PersonID != personID {
			continue
		}
		if q.OnlyYes && rec.Response != model.ResponseYes {
			continue
		}
		if q.OnlyPast && rec.Event.StartsAt.After(now) {
			continue
		}
		if len(q.Kinds) > 0 && !kindMatches(rec.Event.Kind, q.Kinds) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Event.StartsAt.After(out[j].Event.StartsAt)
	})
	if q.MaxRows > 0 && len(out) > q.MaxRows {
		out = out[:q.MaxRows]
	}
	return out, nil
}

func (r *MemoryReader) EventYesCount(ctx context.Context, eventID string, until time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.rsvps {
		if rec.EventID != eventID || rec.Response != model.ResponseYes || rec.CancelledLate {
			continue
		}
		if !until.IsZero() && !rec.RespondedAt.Before(until) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *MemoryReader) AttendanceCountByWeekday(ctx context.Context, personID string, weekday time.Weekday) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.attendance {
		if rec.PersonID != personID {
			continue
		}
		if rec.Status != model.StatusPresent && rec.Status != model.StatusLate {
			continue
		}
		if rec.Event.StartsAt.Weekday() == weekday {
			count++
		}
	}
	return count, nil
}

func (r *MemoryReader) TeamAssignments(ctx context.Context, personID string, f AssignmentFilter) ([]model.TeamAssignmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.TeamAssignmentRecord
	for _, rec := range r.assignments {
		if rec.PersonID != personID {
			continue
		}
		if f.Activity != "" && rec.Activity != f.Activity {
			continue
		}
		if f.Position != "" && rec.Position != f.Position {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssignedAt.After(out[j].AssignedAt)
	})
	if f.MaxRows > 0 && len(out) > f.MaxRows {
		out = out[:f.MaxRows]
	}
	return out, nil
}

func (r *MemoryReader) EventAssignmentCount(ctx context.Context, eventID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.assignments {
		if rec.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryReader) HasGroupRole(ctx context.Context, personID, role string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[personID][role], nil
}

func (r *MemoryReader) FirstYesRSVP(ctx context.Context, personID string) (*model.RSVPRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var first *model.RSVPRecord
	for i := range r.rsvps {
		rec := r.rsvps[i]
		if rec.PersonID != personID || rec.Response != model.ResponseYes {
			continue
		}
		if first == nil || rec.Event.StartsAt.Before(first.Event.StartsAt) {
			first = &rec
		}
	}
	return first, nil
}

func (r *MemoryReader) ActiveMembers(ctx context.Context, since time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, rec := range r.rsvps {
		if !kindMatches(rec.Event.Kind, model.EligibleKinds()) {
			continue
		}
		if rec.Event.StartsAt.Before(since) {
			continue
		}
		if !seen[rec.PersonID] {
			seen[rec.PersonID] = true
			out = append(out, rec.PersonID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func kindMatches(kind model.EventKind, kinds []model.EventKind) bool {
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
