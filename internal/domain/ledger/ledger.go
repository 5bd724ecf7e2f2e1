// Package ledger defines the idempotent grant store.
//
// The ledger is the engine's only write surface. InsertIfAbsent is the only
// way a grant comes into existence, and it is atomic with respect to the
// (person, award) uniqueness constraint: concurrent callers racing to grant
// the same award end up with exactly one stored row. Grants are never
// updated or deleted.
package ledger

import (
	"context"
	"time"

	"github.com/kelsall/accolade/internal/domain/award"
)

// Source records how a grant came to be.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
)

// Meta carries the optional context stored alongside a grant.
type Meta struct {
	Source  Source
	EventID string // event that satisfied the predicate, when there is one
	Notes   string
}

// Grant is one stored (person, award) row.
type Grant struct {
	ID        string // uuid
	PersonID  string
	AwardID   award.ID
	Source    Source
	EventID   string
	Notes     string
	AwardedAt time.Time
}

// Ledger provides idempotent grant storage.
type Ledger interface {
	// HasGrant reports whether person already holds awardID.
	HasGrant(ctx context.Context, personID string, awardID award.ID) (bool, error)

	// InsertIfAbsent records a grant unless one already exists. It returns
	// true iff this call performed the insert. A false return is "already
	// granted", not an error; racing callers must treat it that way.
	InsertIfAbsent(ctx context.Context, personID string, awardID award.ID, meta Meta) (bool, error)

	// GrantsFor returns all of a person's grants, oldest first.
	GrantsFor(ctx context.Context, personID string) ([]Grant, error)
}
