package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageQueries(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	// Friday
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	repo := newFakeRepo()
	add := func(ts time.Time, amount float64) {
		repo.samples = append(repo.samples, db.UsageSample{ID: uuid.New(), UserID: user, RecordedAt: ts, Amount: amount})
	}
	add(time.Date(2026, 10, 16, 9, 15, 0, 0, time.UTC), 1.2) // today
	add(time.Date(2026, 10, 16, 9, 45, 0, 0, time.UTC), 0.8) // today
	add(time.Date(2026, 10, 12, 20, 0, 0, 0, time.UTC), 3)   // Monday
	add(time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC), 50)  // last Saturday
	add(time.Date(2026, 10, 16, 16, 0, 0, 0, time.UTC), 99)  // future

	q := NewUsageQueries(
		usage.NewEngine(repo, time.UTC, clock),
		usage.NewCalculator(repo, time.UTC),
		clock,
	)

	t.Run("daily", func(t *testing.T) {
		got, err := q.Daily(ctx, user)

		require.NoError(t, err)
		assert.Equal(t, []usage.Bucket{{Label: "9:00", Total: 2}}, got)
	})

	t.Run("weekly starts on sunday", func(t *testing.T) {
		got, err := q.Weekly(ctx, user)

		require.NoError(t, err)
		assert.Equal(t, []usage.Bucket{
			{Label: "Mon", Total: 3},
			{Label: "Fri", Total: 2},
		}, got)
	})

	t.Run("range by day", func(t *testing.T) {
		got, err := q.Range(ctx, user, now.AddDate(0, 0, -7), time.Time{}, usage.CalendarDay)

		require.NoError(t, err)
		assert.Equal(t, []usage.Bucket{
			{Label: "2026-10-10", Total: 50},
			{Label: "2026-10-12", Total: 3},
			{Label: "2026-10-16", Total: 2},
		}, got)
	})

	t.Run("range requires start before end", func(t *testing.T) {
		_, err := q.Range(ctx, user, now, now.Add(-time.Hour), usage.HourOfDay)
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))

		_, err = q.Range(ctx, user, now, now, usage.HourOfDay)
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))
	})

	t.Run("summary uses the rolling week", func(t *testing.T) {
		snap, err := q.Summary(ctx, user)

		require.NoError(t, err)
		assert.Equal(t, 55.0, snap.WeeklyTotal)
		assert.Equal(t, 2.0, snap.CurrentUsage)
	})
}
