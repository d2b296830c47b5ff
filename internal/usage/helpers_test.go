package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// memStore honours the Store contract over an in-memory slice
type memStore struct {
	samples []Sample
	err     error
	calls   int
}

func (m *memStore) SamplesInWindow(_ context.Context, userID uuid.UUID, start, end time.Time) ([]Sample, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []Sample
	for _, s := range m.samples {
		if s.UserID == userID && !s.Timestamp.Before(start) && s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) add(userID uuid.UUID, ts time.Time, amount float64) {
	m.samples = append(m.samples, Sample{
		ID:        uuid.New(),
		UserID:    userID,
		Timestamp: ts,
		Amount:    amount,
	})
}

// leakyStore ignores the user and window filters
type leakyStore struct {
	samples []Sample
}

func (l *leakyStore) SamplesInWindow(context.Context, uuid.UUID, time.Time, time.Time) ([]Sample, error) {
	return l.samples, nil
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 14, hour, minute, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
