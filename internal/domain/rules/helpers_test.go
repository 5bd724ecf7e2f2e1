package rules

import (
	"time"

	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
)

// testNow pins the clock for every rules test.
var testNow = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestReader() *history.MemoryReader {
	return history.NewMemoryReader(history.WithClock(testClock))
}

func newTestDeps(reader *history.MemoryReader) *Deps {
	return NewDeps(reader, ledger.NewMemoryLedger(), WithClock(testClock))
}

func sessionAt(id string, startsAt time.Time) model.EventInfo {
	return model.EventInfo{ID: id, Kind: model.KindSession, StartsAt: startsAt}
}

func yesRSVP(personID string, event model.EventInfo, respondedAt time.Time) model.RSVPRecord {
	return model.RSVPRecord{
		EventID:     event.ID,
		PersonID:    personID,
		Response:    model.ResponseYes,
		RespondedAt: respondedAt,
		Event:       event,
	}
}

// seedSessions adds n attended weekly sessions ending daysAgoLast days before
// testNow, returning the reader rows it created.
func seedSessions(reader *history.MemoryReader, personID string, n, daysAgoLast int) {
	for i := 0; i < n; i++ {
		start := testNow.AddDate(0, 0, -daysAgoLast-7*i)
		ev := sessionAt("seed_"+start.Format("20060102"), start)
		reader.AddRSVP(yesRSVP(personID, ev, start.AddDate(0, 0, -2)))
	}
}
