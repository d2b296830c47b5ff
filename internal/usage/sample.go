// Package usage turns raw usage samples into time-bucketed rollups and
// derived summary metrics.
//
// Every query is scoped to a single user. Samples are immutable once
// recorded, so the Engine and Calculator hold no mutable state and are safe
// for concurrent use.
package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sample is one recorded energy reading in kWh
type Sample struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	DeviceID  *uuid.UUID
	Timestamp time.Time
	Amount    float64
}

// Store provides read access to recorded samples.
type Store interface {
	// SamplesInWindow returns the user's samples with start <= timestamp < end,
	// in ascending timestamp order.
	SamplesInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]Sample, error)
}

// Window is a half-open time range [Start, End).
// A zero End means "now" when the window is evaluated.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Clock returns the current time
type Clock func() time.Time

// SystemClock reads the wall clock
func SystemClock() time.Time {
	return time.Now()
}
