package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/usage"
)

// UsageQueries serves the dashboard's rollups and summary. Weekly rollups
// follow the calendar week (Sunday start); the summary uses a rolling 7 days.
type UsageQueries struct {
	engine *usage.Engine
	calc   *usage.Calculator
	now    usage.Clock
}

// NewUsageQueries creates the query service
func NewUsageQueries(engine *usage.Engine, calc *usage.Calculator, now usage.Clock) *UsageQueries {
	if now == nil {
		now = usage.SystemClock
	}
	return &UsageQueries{engine: engine, calc: calc, now: now}
}

// Daily is today's hourly rollup
func (q *UsageQueries) Daily(ctx context.Context, userID uuid.UUID) ([]usage.Bucket, error) {
	return q.engine.Aggregate(ctx, userID, usage.Today(q.now(), q.engine.Location()), usage.HourOfDay)
}

// Weekly is this calendar week's rollup by weekday
func (q *UsageQueries) Weekly(ctx context.Context, userID uuid.UUID) ([]usage.Bucket, error) {
	return q.engine.Aggregate(ctx, userID, usage.CalendarWeek(q.now(), q.engine.Location()), usage.DayOfWeek)
}

// Range rolls up an explicit window; a zero end means now
func (q *UsageQueries) Range(ctx context.Context, userID uuid.UUID, start, end time.Time, g usage.Granularity) ([]usage.Bucket, error) {
	if end.IsZero() {
		end = q.now()
	}
	if !start.Before(end) {
		return nil, apperr.New(apperr.ValidationFailure, "start must be before end")
	}
	return q.engine.Aggregate(ctx, userID, usage.Window{Start: start, End: end}, g)
}

// Summary is the user's derived-metrics snapshot as of now
func (q *UsageQueries) Summary(ctx context.Context, userID uuid.UUID) (usage.Snapshot, error) {
	return q.calc.Summarize(ctx, userID, q.now())
}
