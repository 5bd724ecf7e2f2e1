package temporal

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/kelsall/accolade/internal/domain/model"
)

func session(id string, startsAt time.Time, attended bool) model.RSVPRecord {
	rec := model.RSVPRecord{
		EventID:  id,
		PersonID: "p1",
		Response: model.ResponseYes,
		Event: model.EventInfo{
			ID:       id,
			Kind:     model.KindSession,
			StartsAt: startsAt,
		},
	}
	if !attended {
		rec.Response = model.ResponseNo
	}
	return rec
}

func TestPerfectWeek(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 19, 0, 0, 0, time.UTC)

	Convey("Given a week with two sessions", t, func() {
		Convey("When both were attended", func() {
			recs := []model.RSVPRecord{
				session("mon", monday, true),
				session("wed", monday.AddDate(0, 0, 2), true),
			}

			Convey("Then the week is perfect", func() {
				So(PerfectWeek(recs), ShouldBeTrue)
			})
		})

		Convey("When one was missed", func() {
			recs := []model.RSVPRecord{
				session("mon", monday, true),
				session("wed", monday.AddDate(0, 0, 2), false),
			}

			Convey("Then the week is not perfect", func() {
				So(PerfectWeek(recs), ShouldBeFalse)
			})
		})

		Convey("When an attended session was cancelled late", func() {
			late := session("wed", monday.AddDate(0, 0, 2), true)
			late.CancelledLate = true
			recs := []model.RSVPRecord{
				session("mon", monday, true),
				late,
			}

			Convey("Then the week is not perfect", func() {
				So(PerfectWeek(recs), ShouldBeFalse)
			})
		})
	})

	Convey("Given a week with a single attended session", t, func() {
		recs := []model.RSVPRecord{session("mon", monday, true)}

		Convey("Then one session is not enough", func() {
			So(PerfectWeek(recs), ShouldBeFalse)
		})
	})

	Convey("Given sessions split across a week boundary", t, func() {
		// Sunday and the following Monday are different ISO weeks.
		sunday := monday.AddDate(0, 0, -1)
		recs := []model.RSVPRecord{
			session("sun", sunday, true),
			session("mon", monday, true),
		}

		Convey("Then neither week qualifies", func() {
			So(PerfectWeek(recs), ShouldBeFalse)
		})
	})
}

func TestUnbrokenMonth(t *testing.T) {
	Convey("Given a month with four attended sessions", t, func() {
		var recs []model.RSVPRecord
		for i := 0; i < 4; i++ {
			recs = append(recs, session(fmt.Sprintf("s%d", i),
				time.Date(2026, time.March, 3+7*i, 19, 0, 0, 0, time.UTC), true))
		}

		Convey("Then the month is unbroken", func() {
			So(UnbrokenMonth(recs), ShouldBeTrue)
		})

		Convey("When a fifth session in the month was missed", func() {
			recs := append(recs, session("miss",
				time.Date(2026, time.March, 31, 19, 0, 0, 0, time.UTC), false))

			Convey("Then the month no longer qualifies", func() {
				So(UnbrokenMonth(recs), ShouldBeFalse)
			})
		})
	})

	Convey("Given a month with only three sessions", t, func() {
		var recs []model.RSVPRecord
		for i := 0; i < 3; i++ {
			recs = append(recs, session(fmt.Sprintf("s%d", i),
				time.Date(2026, time.April, 2+7*i, 19, 0, 0, 0, time.UTC), true))
		}

		Convey("Then three is below the floor", func() {
			So(UnbrokenMonth(recs), ShouldBeFalse)
		})
	})
}

func TestStreakSaver(t *testing.T) {
	monday := time.Date(2026, time.February, 2, 19, 0, 0, 0, time.UTC)

	Convey("Given attendance, a week-long gap, then attendance again", t, func() {
		recs := []model.RSVPRecord{
			session("before", monday, true),
			session("after", monday.AddDate(0, 0, 14), true),
		}

		Convey("Then the comeback is detected", func() {
			So(StreakSaver(recs), ShouldBeTrue)
		})
	})

	Convey("Given attendance on consecutive weeks", t, func() {
		recs := []model.RSVPRecord{
			session("w1", monday, true),
			session("w2", monday.AddDate(0, 0, 7), true),
			session("w3", monday.AddDate(0, 0, 14), true),
		}

		Convey("Then there is no gap to come back from", func() {
			So(StreakSaver(recs), ShouldBeFalse)
		})
	})

	Convey("Given a gap with no return", t, func() {
		recs := []model.RSVPRecord{session("only", monday, true)}

		Convey("Then nothing is detected", func() {
			So(StreakSaver(recs), ShouldBeFalse)
		})
	})

	Convey("Given the gap week had a session the person skipped", t, func() {
		recs := []model.RSVPRecord{
			session("before", monday, true),
			session("skipped", monday.AddDate(0, 0, 7), false),
			session("after", monday.AddDate(0, 0, 14), true),
		}

		Convey("Then the skipped week still counts as a gap", func() {
			So(StreakSaver(recs), ShouldBeTrue)
		})
	})
}

func TestSeasonCenturion(t *testing.T) {
	Convey("Given one hundred attended sessions in one season", t, func() {
		var recs []model.RSVPRecord
		start := time.Date(2025, time.September, 1, 19, 0, 0, 0, time.UTC)
		for i := 0; i < 100; i++ {
			recs = append(recs, session(fmt.Sprintf("s%d", i), start.AddDate(0, 0, i*3), true))
		}

		Convey("Then the season makes a centurion", func() {
			So(SeasonCenturion(recs), ShouldBeTrue)
		})
	})

	Convey("Given the hundred sessions straddle the September boundary", t, func() {
		var recs []model.RSVPRecord
		// Fifty in the season ending August 2025, fifty in the next.
		for i := 0; i < 50; i++ {
			recs = append(recs, session(fmt.Sprintf("a%d", i),
				time.Date(2025, time.June, 1, 19, 0, 0, 0, time.UTC).AddDate(0, 0, i), true))
		}
		for i := 0; i < 50; i++ {
			recs = append(recs, session(fmt.Sprintf("b%d", i),
				time.Date(2025, time.October, 1, 19, 0, 0, 0, time.UTC).AddDate(0, 0, i), true))
		}

		Convey("Then neither season reaches one hundred", func() {
			So(SeasonCenturion(recs), ShouldBeFalse)
		})
	})

	Convey("Given late cancels inside an otherwise full season", t, func() {
		var recs []model.RSVPRecord
		start := time.Date(2025, time.October, 1, 19, 0, 0, 0, time.UTC)
		for i := 0; i < 100; i++ {
			rec := session(fmt.Sprintf("s%d", i), start.AddDate(0, 0, i*2), true)
			if i < 5 {
				rec.CancelledLate = true
			}
			recs = append(recs, rec)
		}

		Convey("Then ninety-five attended is not enough", func() {
			So(SeasonCenturion(recs), ShouldBeFalse)
		})
	})
}
