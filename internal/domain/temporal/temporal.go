// Package temporal detects historical attendance patterns over grouped time
// windows. Detectors answer "has this ever happened", so they take a
// person's full eligible RSVP history rather than a capped window, and they
// are pure functions: the rules layer fetches history once and fans it out.
package temporal

import (
	"time"

	"github.com/kelsall/accolade/internal/domain/model"
)

const (
	// minWeekSessions is the floor for a week to qualify for perfect-week.
	minWeekSessions = 2
	// minMonthSessions is the floor for a month to qualify for unbroken-month.
	minMonthSessions = 4
	// centurionTarget is the attended-session count that makes a season.
	centurionTarget = 100
	// seasonStartMonth anchors the Sep-Aug club season.
	seasonStartMonth = time.September
)

func attended(rec model.RSVPRecord) bool {
	return rec.Response == model.ResponseYes && !rec.CancelledLate
}

type weekKey struct {
	year int
	week int
}

func weekOf(t time.Time) weekKey {
	y, w := t.ISOWeek()
	return weekKey{year: y, week: w}
}

type monthKey struct {
	year  int
	month time.Month
}

type bucket struct {
	total    int
	attended int
}

// PerfectWeek reports whether any ISO week with at least two session events
// saw the person attend every one of them.
func PerfectWeek(rsvps []model.RSVPRecord) bool {
	buckets := make(map[weekKey]*bucket)
	for _, rec := range rsvps {
		if rec.Event.Kind != model.KindSession {
			continue
		}
		key := weekOf(rec.Event.StartsAt)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.total++
		if attended(rec) {
			b.attended++
		}
	}
	for _, b := range buckets {
		if b.total >= minWeekSessions && b.attended == b.total {
			return true
		}
	}
	return false
}

// UnbrokenMonth reports whether any calendar month with at least four
// session events saw the person attend every one of them.
func UnbrokenMonth(rsvps []model.RSVPRecord) bool {
	buckets := make(map[monthKey]*bucket)
	for _, rec := range rsvps {
		if rec.Event.Kind != model.KindSession {
			continue
		}
		start := rec.Event.StartsAt
		key := monthKey{year: start.Year(), month: start.Month()}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.total++
		if attended(rec) {
			b.attended++
		}
	}
	for _, b := range buckets {
		if b.total >= minMonthSessions && b.attended == b.total {
			return true
		}
	}
	return false
}

// StreakSaver reports whether the person ever attended a session, went a
// full calendar week without attending any, and attended again the week
// after. The comparison is positional over calendar-ordered week starts,
// never over event-id adjacency.
func StreakSaver(rsvps []model.RSVPRecord) bool {
	attendedWeeks := make(map[time.Time]bool)
	for _, rec := range rsvps {
		if rec.Event.Kind != model.KindSession || !attended(rec) {
			continue
		}
		attendedWeeks[weekStart(rec.Event.StartsAt)] = true
	}
	for start := range attendedWeeks {
		gap := start.AddDate(0, 0, 7)
		back := start.AddDate(0, 0, 14)
		if !attendedWeeks[gap] && attendedWeeks[back] {
			return true
		}
	}
	return false
}

// SeasonCenturion reports whether any Sep-Aug season reached one hundred
// attended eligible sessions. A session's season is its own year when the
// month is September or later, otherwise the previous year.
func SeasonCenturion(rsvps []model.RSVPRecord) bool {
	eligible := model.EligibleKinds()
	counts := make(map[int]int)
	for _, rec := range rsvps {
		if !attended(rec) || !isEligibleKind(rec.Event.Kind, eligible) {
			continue
		}
		counts[seasonOf(rec.Event.StartsAt)]++
	}
	for _, n := range counts {
		if n >= centurionTarget {
			return true
		}
	}
	return false
}

// weekStart normalizes a time to the Monday of its ISO week, in UTC.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func seasonOf(t time.Time) int {
	if t.Month() >= seasonStartMonth {
		return t.Year()
	}
	return t.Year() - 1
}

func isEligibleKind(kind model.EventKind, kinds []model.EventKind) bool {
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
