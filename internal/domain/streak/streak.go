// Package streak computes a member's current consecutive-attendance streak.
package streak

import (
	"context"
	"fmt"

	"github.com/kelsall/accolade/internal/domain/history"
	"github.com/kelsall/accolade/internal/domain/model"
)

// scanLimit caps the history walk. Streaks longer than 50 are only
// distinguished beyond the cap if a break falls inside the first 50 rows;
// an accepted approximation that keeps the query bounded.
const scanLimit = 50

// Calculator walks recent eligible attendance to find the live streak.
type Calculator struct {
	reader history.Reader
}

// NewCalculator creates a Calculator over the given history reader.
func NewCalculator(reader history.Reader) *Calculator {
	return &Calculator{reader: reader}
}

// Current returns the person's current streak: the run of most-recent yes
// RSVPs on eligible, already-started events, ending at the first
// late-cancelled record (which is not counted). Older records past the
// break are irrelevant, so the walk stops there.
func (c *Calculator) Current(ctx context.Context, personID string) (int, error) {
	rsvps, err := c.reader.EligibleRSVPs(ctx, personID, history.Query{
		Kinds:    model.EligibleKinds(),
		MaxRows:  scanLimit,
		OnlyPast: true,
		OnlyYes:  true,
	})
	if err != nil {
		return 0, fmt.Errorf("fetch streak history: %w", err)
	}

	count := 0
	for _, rec := range rsvps {
		if rec.CancelledLate {
			break
		}
		count++
	}
	return count, nil
}
