package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/mq"
	"github.com/septivank/energy-harmony/internal/repository"
	"github.com/septivank/energy-harmony/internal/usage"
)

// fakeRepo mimics repository.Repository in memory
type fakeRepo struct {
	mu      sync.Mutex
	users   []db.User
	devices []db.Device
	budgets []db.Budget
	samples []db.UsageSample

	recent    []float64
	recentErr error
	insertErr error
	clock     time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{clock: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeRepo) CreateUser(_ context.Context, name, email, hash string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	u := db.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash, CreatedAt: f.tick()}
	f.users = append(f.users, u)
	return &u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) ListDevices(_ context.Context, userID uuid.UUID) ([]db.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Device{}
	for _, d := range f.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetDevice(_ context.Context, userID, deviceID uuid.UUID) (*db.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.devices {
		if d.ID == deviceID && d.UserID == userID {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) CreateDevice(_ context.Context, device *db.Device) (*db.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := *device
	d.ID = uuid.New()
	d.CreatedAt = f.tick()
	f.devices = append(f.devices, d)
	return &d, nil
}

func (f *fakeRepo) UpdateDevice(_ context.Context, device *db.Device) (*db.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.devices {
		if d.ID == device.ID && d.UserID == device.UserID {
			f.devices[i] = *device
			out := *device
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) DeleteDevice(_ context.Context, userID, deviceID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.devices {
		if d.ID == deviceID && d.UserID == userID {
			f.devices = append(f.devices[:i], f.devices[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRepo) CreateBudget(_ context.Context, userID uuid.UUID, amount float64, period string) (*db.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := db.Budget{ID: uuid.New(), UserID: userID, Amount: amount, Period: period, CreatedAt: f.tick()}
	f.budgets = append(f.budgets, b)
	return &b, nil
}

func (f *fakeRepo) LatestBudget(_ context.Context, userID uuid.UUID) (*db.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var owned []db.Budget
	for _, b := range f.budgets {
		if b.UserID == userID {
			owned = append(owned, b)
		}
	}
	if len(owned) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	return &owned[0], nil
}

func (f *fakeRepo) InsertUsageSample(_ context.Context, sample *db.UsageSample) (*db.UsageSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	s := *sample
	s.ID = uuid.New()
	f.samples = append(f.samples, s)
	return &s, nil
}

func (f *fakeRepo) RecentAmounts(context.Context, uuid.UUID, *uuid.UUID, int) ([]float64, error) {
	return f.recent, f.recentErr
}

func (f *fakeRepo) SamplesInWindow(_ context.Context, userID uuid.UUID, start, end time.Time) ([]usage.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []usage.Sample
	for _, s := range f.samples {
		if s.UserID == userID && !s.RecordedAt.Before(start) && s.RecordedAt.Before(end) {
			out = append(out, usage.Sample{ID: s.ID, UserID: s.UserID, DeviceID: s.DeviceID, Timestamp: s.RecordedAt, Amount: s.Amount})
		}
	}
	return out, nil
}

type fakePublisher struct {
	events []mq.UsageRecordedEvent
	err    error
}

func (p *fakePublisher) PublishUsageRecorded(_ context.Context, event mq.UsageRecordedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeTokens struct {
	err error
}

func (f fakeTokens) Issue(userID uuid.UUID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID.String(), nil
}

var errBoom = errors.New("boom")

func f64(v float64) *float64 { return &v }
func boolPtr(v bool) *bool   { return &v }
