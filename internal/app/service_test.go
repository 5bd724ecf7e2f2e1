package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	app "github.com/kelsall/accolade/internal/app"
	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/model"
	"github.com/kelsall/accolade/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var testNow = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func sessionRSVP(personID, eventID string, startsAt time.Time) model.RSVPRecord {
	return model.RSVPRecord{
		EventID:     eventID,
		PersonID:    personID,
		Response:    model.ResponseYes,
		RespondedAt: startsAt.AddDate(0, 0, -2),
		Event: model.EventInfo{
			ID:       eventID,
			Kind:     model.KindSession,
			StartsAt: startsAt,
			Title:    "Club Session",
		},
	}
}

// failingReader errors on every RSVP lookup, driving the evaluators into
// their failure path.
type failingReader struct {
	*history.MemoryReader
}

func (r *failingReader) EligibleRSVPs(ctx context.Context, personID string, q history.Query) ([]model.RSVPRecord, error) {
	return nil, errors.New("history unavailable")
}

func startedService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	svc := app.New(append([]app.Option{app.WithClock(testClock)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := app.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := app.New(
			app.WithSweepWorkerCount(8),
			app.WithSweepQueueSize(50_000),
			app.WithDedupeSize(25_000),
			app.WithActiveWindowDays(30),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should be marked as started", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["catalogSize"], ShouldBeGreaterThan, 0)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Evaluate(t *testing.T) {
	Convey("Given a started service over fixture history", t, func() {
		ctx := context.Background()
		reader := history.NewMemoryReader(history.WithClock(testClock))
		svc := startedService(t, app.WithReader(reader))

		rsvp := sessionRSVP("alice", "evt_first", testNow.AddDate(0, 0, -1))
		reader.AddRSVP(rsvp)
		trig := model.RSVPTrigger{PersonID: "alice", RSVP: rsvp}

		Convey("When evaluating a member's first session RSVP", func() {
			granted := svc.Evaluate(ctx, trig)

			Convey("Then the first-session award is granted", func() {
				So(granted, ShouldContain, award.FirstDip)
			})

			Convey("And re-evaluating the same trigger grants nothing new", func() {
				again := svc.Evaluate(ctx, trig)
				So(again, ShouldNotContain, award.FirstDip)

				grants, err := svc.GrantsFor(ctx, "alice")
				So(err, ShouldBeNil)
				firsts := 0
				for _, g := range grants {
					if g.AwardID == award.FirstDip {
						firsts++
					}
				}
				So(firsts, ShouldEqual, 1)
			})
		})

		Convey("When the trigger is nil or anonymous", func() {
			So(svc.Evaluate(ctx, nil), ShouldBeEmpty)
			So(svc.Evaluate(ctx, model.ProfileLoadTrigger{}), ShouldBeEmpty)
		})
	})

	Convey("Given a service whose history reader fails", t, func() {
		ctx := context.Background()
		reader := &failingReader{MemoryReader: history.NewMemoryReader()}
		svc := startedService(t, app.WithReader(reader))

		Convey("When evaluating a trigger", func() {
			granted := svc.Evaluate(ctx, model.ProfileLoadTrigger{PersonID: "alice"})

			Convey("Then the failure is swallowed and nothing is granted", func() {
				So(granted, ShouldBeEmpty)
			})
		})
	})
}

func TestService_SeenDelivery(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(t)

		Convey("When checking a new delivery ID", func() {
			So(svc.SeenDelivery(ctx, "dlv_123"), ShouldBeFalse)

			Convey("Then checking it again reports a duplicate", func() {
				So(svc.SeenDelivery(ctx, "dlv_123"), ShouldBeTrue)
			})
		})

		Convey("When the delivery ID is empty", func() {
			So(svc.SeenDelivery(ctx, ""), ShouldBeFalse)
			So(svc.SeenDelivery(ctx, ""), ShouldBeFalse)
		})
	})
}

func TestService_Sweep(t *testing.T) {
	Convey("Given a started service with several active members", t, func() {
		ctx := context.Background()
		reader := history.NewMemoryReader(history.WithClock(testClock))
		svc := startedService(t,
			app.WithReader(reader),
			app.WithSweepWorkerCount(2),
		)

		// Six attended weekly sessions per member: enough for the first
		// milestone and the short streak awards.
		for _, personID := range []string{"alice", "bob", "carol"} {
			for i := 0; i < 6; i++ {
				startsAt := testNow.AddDate(0, 0, -7*(i+1))
				rsvp := sessionRSVP(personID, fmt.Sprintf("evt_%s_%d", personID, i), startsAt)
				reader.AddRSVP(rsvp)
			}
		}

		Convey("When running a sweep", func() {
			result, err := svc.Sweep(ctx)

			Convey("Then every active member is checked", func() {
				So(err, ShouldBeNil)
				So(result.Checked, ShouldEqual, 3)
				So(result.Awarded, ShouldBeGreaterThan, 0)
			})

			Convey("And each member now holds the milestone award", func() {
				So(err, ShouldBeNil)
				for _, personID := range []string{"alice", "bob", "carol"} {
					grants, err := svc.GrantsFor(ctx, personID)
					So(err, ShouldBeNil)
					ids := make([]award.ID, 0, len(grants))
					for _, g := range grants {
						ids = append(ids, g.AwardID)
					}
					So(ids, ShouldContain, award.Milestone5)
				}
			})

			Convey("And a second sweep awards nothing new", func() {
				So(err, ShouldBeNil)
				again, err := svc.Sweep(ctx)
				So(err, ShouldBeNil)
				So(again.Checked, ShouldEqual, 3)
				So(again.Awarded, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a service with no recent activity", t, func() {
		ctx := context.Background()
		reader := history.NewMemoryReader(history.WithClock(testClock))
		svc := startedService(t, app.WithReader(reader))

		Convey("When running a sweep", func() {
			result, err := svc.Sweep(ctx)

			Convey("Then nothing is checked or awarded", func() {
				So(err, ShouldBeNil)
				So(result.Checked, ShouldEqual, 0)
				So(result.Awarded, ShouldEqual, 0)
			})
		})
	})
}

func TestService_CurrentStreak(t *testing.T) {
	Convey("Given a member with consecutive attended sessions", t, func() {
		ctx := context.Background()
		reader := history.NewMemoryReader(history.WithClock(testClock))
		svc := startedService(t, app.WithReader(reader))

		for i := 0; i < 3; i++ {
			reader.AddRSVP(sessionRSVP("alice", fmt.Sprintf("evt_%d", i), testNow.AddDate(0, 0, -7*(i+1))))
		}

		Convey("When reading the current streak", func() {
			streak, err := svc.CurrentStreak(ctx, "alice")

			Convey("Then it counts the unbroken run", func() {
				So(err, ShouldBeNil)
				So(streak, ShouldEqual, 3)
			})
		})

		Convey("When reading a member with no history", func() {
			streak, err := svc.CurrentStreak(ctx, "nobody")

			Convey("Then the streak is zero", func() {
				So(err, ShouldBeNil)
				So(streak, ShouldEqual, 0)
			})
		})
	})
}
