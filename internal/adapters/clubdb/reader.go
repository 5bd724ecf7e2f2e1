// Package clubdb implements the history reader over the club app's sqlite
// database. Every method is a read; this package never writes.
package clubdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/pkg/metrics"
)

const rsvpColumns = `
	r.event_id, r.person_id, r.response, r.responded_at, COALESCE(r.cancelled_late, 0),
	e.kind, COALESCE(e.title, ''), COALESCE(e.location, ''), e.starts_at, e.visible_from`

// Reader implements history.Reader against the club database.
type Reader struct {
	db  *sql.DB
	now func() time.Time
}

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithClock overrides the reader's notion of now, used by OnlyPast filters.
func WithClock(now func() time.Time) Option {
	return func(r *Reader) {
		if now != nil {
			r.now = now
		}
	}
}

// Open opens the club database read-only.
func Open(path string, opts ...Option) (*Reader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_loc=UTC", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open club db: %w", err)
	}

	r := &Reader{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the underlying database handle.
func (r *Reader) Close() error {
	return r.db.Close()
}

func observe(start time.Time) {
	metrics.RecordHistoryQueryLatency(float64(time.Since(start).Milliseconds()))
}

func (r *Reader) EligibleRSVPs(ctx context.Context, personID string, q history.Query) ([]model.RSVPRecord, error) {
	defer observe(time.Now())

	var sb strings.Builder
	sb.WriteString(`SELECT ` + rsvpColumns + `
		FROM rsvps r
		JOIN events e ON e.id = r.event_id
		WHERE r.person_id = ?`)
	args := []any{personID}

	if q.OnlyYes {
		sb.WriteString(` AND r.response = 'yes'`)
	}
	if q.OnlyPast {
		sb.WriteString(` AND e.starts_at <= ?`)
		args = append(args, r.now().UTC())
	}
	if len(q.Kinds) > 0 {
		sb.WriteString(` AND e.kind IN (` + placeholders(len(q.Kinds)) + `)`)
		for _, k := range q.Kinds {
			args = append(args, string(k))
		}
	}
	sb.WriteString(` ORDER BY e.starts_at DESC`)
	if q.MaxRows > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.MaxRows)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query rsvps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.RSVPRecord
	for rows.Next() {
		rec, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rsvps: %w", err)
	}
	return out, nil
}

func (r *Reader) EventYesCount(ctx context.Context, eventID string, until time.Time) (int, error) {
	defer observe(time.Now())

	query := `SELECT COUNT(*) FROM rsvps
		WHERE event_id = ? AND response = 'yes' AND COALESCE(cancelled_late, 0) = 0`
	args := []any{eventID}
	if !until.IsZero() {
		query += ` AND responded_at < ?`
		args = append(args, until.UTC())
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count event rsvps: %w", err)
	}
	return count, nil
}

func (r *Reader) AttendanceCountByWeekday(ctx context.Context, personID string, weekday time.Weekday) (int, error) {
	defer observe(time.Now())

	// strftime('%w') numbers days 0=Sunday..6=Saturday, same as time.Weekday.
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance a
		 JOIN events e ON e.id = a.event_id
		 WHERE a.person_id = ?
		   AND a.status IN ('present', 'late')
		   AND CAST(strftime('%w', e.starts_at) AS INTEGER) = ?`,
		personID, int(weekday),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count weekday attendance: %w", err)
	}
	return count, nil
}

func (r *Reader) TeamAssignments(ctx context.Context, personID string, f history.AssignmentFilter) ([]model.TeamAssignmentRecord, error) {
	defer observe(time.Now())

	var sb strings.Builder
	sb.WriteString(`SELECT a.event_id, a.person_id, COALESCE(a.team_id, ''), COALESCE(t.name, ''),
			a.activity, COALESCE(a.position_code, ''), COALESCE(a.assigned_by, ''), a.assigned_at
		FROM team_assignments a
		LEFT JOIN teams t ON t.id = a.team_id
		WHERE a.person_id = ?`)
	args := []any{personID}

	if f.Activity != "" {
		sb.WriteString(` AND a.activity = ?`)
		args = append(args, string(f.Activity))
	}
	if f.Position != "" {
		sb.WriteString(` AND a.position_code = ?`)
		args = append(args, string(f.Position))
	}
	sb.WriteString(` ORDER BY a.assigned_at DESC`)
	if f.MaxRows > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.MaxRows)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.TeamAssignmentRecord
	for rows.Next() {
		var rec model.TeamAssignmentRecord
		var activity, position string
		if err := rows.Scan(&rec.EventID, &rec.PersonID, &rec.TeamID, &rec.TeamName,
			&activity, &position, &rec.AssignedBy, &rec.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		rec.Activity = model.TeamActivity(activity)
		rec.Position = model.PositionCode(position)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

func (r *Reader) EventAssignmentCount(ctx context.Context, eventID string) (int, error) {
	defer observe(time.Now())

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_assignments WHERE event_id = ?`, eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count event assignments: %w", err)
	}
	return count, nil
}

func (r *Reader) HasGroupRole(ctx context.Context, personID, role string) (bool, error) {
	defer observe(time.Now())

	var held bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM memberships WHERE person_id = ? AND role = ?)`,
		personID, role,
	).Scan(&held)
	if err != nil {
		return false, fmt.Errorf("query role: %w", err)
	}
	return held, nil
}

func (r *Reader) FirstYesRSVP(ctx context.Context, personID string) (*model.RSVPRecord, error) {
	defer observe(time.Now())

	row := r.db.QueryRowContext(ctx, `SELECT `+rsvpColumns+`
		FROM rsvps r
		JOIN events e ON e.id = r.event_id
		WHERE r.person_id = ? AND r.response = 'yes'
		ORDER BY e.starts_at ASC
		LIMIT 1`, personID)

	rec, err := scanRSVP(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Reader) ActiveMembers(ctx context.Context, since time.Time) ([]string, error) {
	defer observe(time.Now())

	kinds := model.EligibleKinds()
	query := `SELECT DISTINCT r.person_id
		FROM rsvps r
		JOIN events e ON e.id = r.event_id
		WHERE e.kind IN (` + placeholders(len(kinds)) + `) AND e.starts_at >= ?
		ORDER BY r.person_id`
	args := make([]any, 0, len(kinds)+1)
	for _, k := range kinds {
		args = append(args, string(k))
	}
	args = append(args, since.UTC())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRSVP(s scanner) (model.RSVPRecord, error) {
	var rec model.RSVPRecord
	var response, kind string
	var respondedAt, visibleFrom sql.NullTime
	err := s.Scan(&rec.EventID, &rec.PersonID, &response, &respondedAt, &rec.CancelledLate,
		&kind, &rec.Event.Title, &rec.Event.Location, &rec.Event.StartsAt, &visibleFrom)
	if err != nil {
		if err == sql.ErrNoRows {
			return rec, err
		}
		return rec, fmt.Errorf("scan rsvp: %w", err)
	}
	rec.Response = model.RSVPResponse(response)
	rec.Event.ID = rec.EventID
	rec.Event.Kind = model.EventKind(kind)
	if respondedAt.Valid {
		rec.RespondedAt = respondedAt.Time
	}
	if visibleFrom.Valid {
		rec.Event.VisibleFrom = visibleFrom.Time
	}
	return rec, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
