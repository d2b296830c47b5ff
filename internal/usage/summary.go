package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
)

const (
	day              = 24 * time.Hour
	week             = 7 * day
	projectionDays   = 30
	comparisonWindow = 2 * week
)

// Snapshot holds derived metrics as of one instant, rounded to 2 decimals
type Snapshot struct {
	CurrentUsage      float64
	DailyAverage      float64
	WeeklyTotal       float64
	MonthlyProjection float64
	SavingsPercentage float64
}

// Calculator composes rolling windows into a Snapshot
type Calculator struct {
	store Store
	loc   *time.Location
}

// NewCalculator creates a calculator that groups calendar days in loc
func NewCalculator(store Store, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{store: store, loc: loc}
}

// Summarize computes the user's snapshot as of now.
//
// A single store read covers [now-14d, now); the 24h, 7d and previous-week
// windows are carved out of it. If the read fails no snapshot is produced.
func (c *Calculator) Summarize(ctx context.Context, userID uuid.UUID, now time.Time) (Snapshot, error) {
	span := Trailing(now, comparisonWindow)
	samples, err := c.store.SamplesInWindow(ctx, userID, span.Start, span.End)
	if err != nil {
		return Snapshot{}, apperr.Wrap(apperr.DataUnavailable, "usage data unavailable", err)
	}

	last24h := Trailing(now, day)
	lastWeek := Trailing(now, week)
	previousWeek := Window{Start: span.Start, End: lastWeek.Start}

	var current, weekly, previous float64
	var weekSamples []Sample
	for _, s := range ownedWithin(samples, userID, span) {
		switch {
		case lastWeek.Contains(s.Timestamp):
			weekly += s.Amount
			weekSamples = append(weekSamples, s)
			if last24h.Contains(s.Timestamp) {
				current += s.Amount
			}
		case previousWeek.Contains(s.Timestamp):
			previous += s.Amount
		}
	}

	dailyAverage := 0.0
	if days := rollup(weekSamples, CalendarDay, c.loc); len(days) > 0 {
		sum := 0.0
		for _, d := range days {
			sum += d.total
		}
		dailyAverage = sum / float64(len(days))
	}

	return Snapshot{
		CurrentUsage:      Round2(current),
		DailyAverage:      Round2(dailyAverage),
		WeeklyTotal:       Round2(weekly),
		MonthlyProjection: Round2(dailyAverage * projectionDays),
		SavingsPercentage: Round2(savingsPercentage(previous, weekly)),
	}, nil
}

// savingsPercentage is positive when usage went down week over week
func savingsPercentage(previous, current float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (previous - current) / previous * 100
}
