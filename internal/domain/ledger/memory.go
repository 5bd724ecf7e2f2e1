package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kelsall/accolade/internal/domain/award"
)

type grantKey struct {
	personID string
	awardID  award.ID
}

// MemoryLedger implements Ledger with a mutex-guarded map. The check and the
// insert happen under one lock, which gives the same at-most-once guarantee
// the sqlite ledger gets from its uniqueness constraint.
type MemoryLedger struct {
	mu     sync.RWMutex
	grants map[grantKey]Grant
	now    func() time.Time
}

// MemoryOption applies a configuration option to the MemoryLedger.
type MemoryOption func(*MemoryLedger)

// WithClock overrides the timestamp source for awarded-at times.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLedger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger(opts ...MemoryOption) *MemoryLedger {
	l := &MemoryLedger{
		grants: make(map[grantKey]Grant),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLedger) HasGrant(ctx context.Context, personID string, awardID award.ID) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.grants[grantKey{personID, awardID}]
	return ok, nil
}

func (l *MemoryLedger) InsertIfAbsent(ctx context.Context, personID string, awardID award.ID, meta Meta) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := grantKey{personID, awardID}
	if _, ok := l.grants[key]; ok {
		return false, nil
	}

	source := meta.Source
	if source == "" {
		source = SourceAuto
	}
	l.grants[key] = Grant{
		ID:        uuid.NewString(),
		PersonID:  personID,
		AwardID:   awardID,
		Source:    source,
		EventID:   meta.EventID,
		Notes:     meta.Notes,
		AwardedAt: l.now(),
	}
	return true, nil
}

func (l *MemoryLedger) GrantsFor(ctx context.Context, personID string) ([]Grant, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Grant
	for key, g := range l.grants {
		if key.personID == personID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AwardedAt.Equal(out[j].AwardedAt) {
			return out[i].AwardID < out[j].AwardID
		}
		return out[i].AwardedAt.Before(out[j].AwardedAt)
	})
	return out, nil
}
