package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/septivank/energy-harmony/internal/apperr"
)

// Engine answers rollup queries against a Store
type Engine struct {
	store Store
	loc   *time.Location
	now   Clock
}

// NewEngine creates an engine that derives bucket keys in loc
func NewEngine(store Store, loc *time.Location, now Clock) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = SystemClock
	}
	return &Engine{store: store, loc: loc, now: now}
}

// Location returns the bucketing location
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Aggregate rolls up the user's samples in w by granularity.
// A zero w.End is read from the engine clock. An empty or inverted window
// yields an empty result.
func (e *Engine) Aggregate(ctx context.Context, userID uuid.UUID, w Window, g Granularity) ([]Bucket, error) {
	if w.End.IsZero() {
		w.End = e.now()
	}
	if !w.Start.Before(w.End) {
		return []Bucket{}, nil
	}

	samples, err := e.store.SamplesInWindow(ctx, userID, w.Start, w.End)
	if err != nil {
		return nil, apperr.Wrap(apperr.DataUnavailable, "usage data unavailable", err)
	}

	return Rollup(ownedWithin(samples, userID, w), g, e.loc), nil
}

// ownedWithin keeps only the user's samples that fall inside w
func ownedWithin(samples []Sample, userID uuid.UUID, w Window) []Sample {
	return lo.Filter(samples, func(s Sample, _ int) bool {
		return s.UserID == userID && w.Contains(s.Timestamp)
	})
}
