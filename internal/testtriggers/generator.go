package testtriggers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/kelsall/accolade/pkg/logger"
)

// Probability constants, expressed out of 100.
const (
	yesRate     = 70 // chance a member RSVPs yes to a session
	presentRate = 85 // chance a yes RSVP turns into a present mark
	lateRate    = 10 // chance a present member is marked late instead
)

// Session schedule shape. Three tracked weekdays per simulated week.
var sessionWeekdays = []time.Weekday{time.Monday, time.Wednesday, time.Friday}

var sessionLocations = []string{"Leys Pools", "Hinksey Outdoor Pool", "Blackbird Leys", "Ferry Leisure Centre"}

// randInt returns a uniform random int in [0, n) using crypto/rand.
func randInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func chance(pct int) bool {
	return randInt(100) < pct
}

// generateTriggers builds a plausible RSVP and attendance history for the
// configured members over past weeks of sessions.
func generateTriggers(ctx context.Context, config *Config, stats *Stats) ([]Trigger, error) {
	logger.Get().Info(ctx, "generating triggers",
		logger.Int("members", config.NumMembers),
		logger.Int("weeks", config.NumWeeks))

	members := make([]string, config.NumMembers)
	for i := range members {
		members[i] = "person_" + uuid.New().String()[:8]
	}

	now := time.Now().UTC()
	var triggers []Trigger

	for week := config.NumWeeks; week > 0; week-- {
		for _, wd := range sessionWeekdays {
			startsAt := sessionStart(now, week, wd)
			if startsAt.After(now) {
				continue
			}
			event := EventContext{
				ID:          fmt.Sprintf("evt_%s", startsAt.Format("20060102_1504")),
				Kind:        "session",
				Title:       "Club Session",
				Location:    sessionLocations[randInt(len(sessionLocations))],
				StartsAt:    startsAt.Format(time.RFC3339),
				VisibleFrom: startsAt.AddDate(0, 0, -14).Format(time.RFC3339),
			}
			for _, personID := range members {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("context cancelled during trigger generation: %w", err)
				}
				if !chance(yesRate) {
					continue
				}
				respondedAt := startsAt.AddDate(0, 0, -1-randInt(10))
				triggers = append(triggers, Trigger{
					DeliveryID: uuid.New().String(),
					PersonID:   personID,
					Kind:       "rsvp",
					RSVP: &RSVPContext{
						Event:       event,
						Response:    "yes",
						RespondedAt: respondedAt.Format(time.RFC3339),
					},
				})
				if chance(presentRate) {
					status := "present"
					if chance(lateRate) {
						status = "late"
					}
					triggers = append(triggers, Trigger{
						DeliveryID: uuid.New().String(),
						PersonID:   personID,
						Kind:       "attendance",
						Attendance: &AttendanceContext{
							Event:       event,
							Status:      status,
							CheckedInAt: startsAt.Format(time.RFC3339),
						},
					})
				}
			}
		}
	}

	stats.TriggersGenerated = len(triggers)
	logger.Get().Info(ctx, "generated triggers successfully", logger.Int("count", len(triggers)))
	return triggers, nil
}

// sessionStart returns the 19:00 start time of the session on weekday wd,
// weeksAgo weeks before now.
func sessionStart(now time.Time, weeksAgo int, wd time.Weekday) time.Time {
	day := now.AddDate(0, 0, -7*weeksAgo)
	offset := int(wd) - int(day.Weekday())
	day = day.AddDate(0, 0, offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 19, 0, 0, 0, time.UTC)
}
