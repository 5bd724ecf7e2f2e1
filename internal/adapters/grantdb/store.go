// Package grantdb implements the grant ledger on sqlite.
//
// The (person_id, award_id) uniqueness constraint is what makes grants
// exactly-once: InsertIfAbsent is a single INSERT OR IGNORE, never a
// check-then-insert two-step, so concurrent callers racing on the same
// award collapse to one row no matter how they interleave.
package grantdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS person_awards (
	id         TEXT PRIMARY KEY,
	person_id  TEXT NOT NULL,
	award_id   TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT 'auto',
	event_id   TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	awarded_at TIMESTAMP NOT NULL,
	UNIQUE (person_id, award_id)
);
CREATE INDEX IF NOT EXISTS idx_person_awards_person ON person_awards(person_id);
`

// Store implements ledger.Ledger on a sqlite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithClock overrides the timestamp source for awarded-at times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating if needed) the grant database at path. WAL keeps
// readers unblocked while triggers write.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_loc=UTC", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open grant db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply grant schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) HasGrant(ctx context.Context, personID string, awardID award.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM person_awards WHERE person_id = ? AND award_id = ?)`,
		personID, string(awardID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query grant: %w", err)
	}
	return exists, nil
}

func (s *Store) InsertIfAbsent(ctx context.Context, personID string, awardID award.ID, meta ledger.Meta) (bool, error) {
	source := meta.Source
	if source == "" {
		source = ledger.SourceAuto
	}

	start := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO person_awards (id, person_id, award_id, source, event_id, notes, awarded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), personID, string(awardID), string(source), meta.EventID, meta.Notes, s.now().UTC(),
	)
	metrics.RecordLedgerInsertLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return false, fmt.Errorf("insert grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert grant result: %w", err)
	}
	return n == 1, nil
}

func (s *Store) GrantsFor(ctx context.Context, personID string) ([]ledger.Grant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_id, award_id, source, event_id, notes, awarded_at
		 FROM person_awards
		 WHERE person_id = ?
		 ORDER BY awarded_at ASC, award_id ASC`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ledger.Grant
	for rows.Next() {
		var g ledger.Grant
		var awardID, source string
		if err := rows.Scan(&g.ID, &g.PersonID, &awardID, &source, &g.EventID, &g.Notes, &g.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		g.AwardID = award.ID(awardID)
		g.Source = ledger.Source(source)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}
	return out, nil
}
