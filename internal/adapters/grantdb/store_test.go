package grantdb

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/ledger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grants.db")
	store, err := Open(path)
	require.NoError(t, err, "open store")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	ok, err := store.InsertIfAbsent(ctx, "alice", award.FirstDip, ledger.Meta{EventID: "evt_1"})
	require.NoError(t, err)
	assert.True(t, ok, "first insert should win")

	ok, err = store.InsertIfAbsent(ctx, "alice", award.FirstDip, ledger.Meta{})
	require.NoError(t, err)
	assert.False(t, ok, "repeat insert should be a no-op")

	has, err := store.HasGrant(ctx, "alice", award.FirstDip)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasGrant(ctx, "alice", award.FirstMatch)
	require.NoError(t, err)
	assert.False(t, has, "ungranted award should not exist")

	has, err = store.HasGrant(ctx, "bob", award.FirstDip)
	require.NoError(t, err)
	assert.False(t, has, "grants are per person")
}

func TestStore_GrantsFor(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "grants.db")
	store, err := Open(path, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.InsertIfAbsent(ctx, "alice", award.FirstDip, ledger.Meta{EventID: "evt_1", Notes: "opening night"})
	require.NoError(t, err)
	_, err = store.InsertIfAbsent(ctx, "alice", award.BackToBack, ledger.Meta{Source: ledger.SourceManual})
	require.NoError(t, err)
	_, err = store.InsertIfAbsent(ctx, "bob", award.FirstDip, ledger.Meta{})
	require.NoError(t, err)

	grants, err := store.GrantsFor(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, grants, 2)

	byAward := make(map[award.ID]ledger.Grant, len(grants))
	for _, g := range grants {
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, "alice", g.PersonID)
		assert.True(t, g.AwardedAt.Equal(fixed), "awarded_at should use the injected clock")
		byAward[g.AwardID] = g
	}

	assert.Equal(t, ledger.SourceAuto, byAward[award.FirstDip].Source)
	assert.Equal(t, "evt_1", byAward[award.FirstDip].EventID)
	assert.Equal(t, "opening night", byAward[award.FirstDip].Notes)
	assert.Equal(t, ledger.SourceManual, byAward[award.BackToBack].Source)

	grants, err = store.GrantsFor(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, grants, "unknown person has no grants")
}

func TestStore_ConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan bool, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.InsertIfAbsent(ctx, "alice", award.HatTrick, ledger.Meta{})
			if err == nil && ok {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	assert.Equal(t, 1, won, "exactly one racer should win the insert")

	grants, err := store.GrantsFor(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestStore_ReopenKeepsGrants(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grants.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.InsertIfAbsent(ctx, "alice", award.FirstDip, ledger.Meta{})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	has, err := reopened.HasGrant(ctx, "alice", award.FirstDip)
	require.NoError(t, err)
	assert.True(t, has, "grants should survive reopen")
}
