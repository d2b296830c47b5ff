package httpserver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/auth"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/service"
	"github.com/septivank/energy-harmony/internal/usage"
)

const testSecret = "test-secret"

type fakeAuth struct {
	result *service.AuthResult
	err    error
}

func (f *fakeAuth) Register(context.Context, string, string, string) (*service.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuth) Login(context.Context, string, string) (*service.AuthResult, error) {
	return f.result, f.err
}

type rangeCall struct {
	userID     uuid.UUID
	start, end time.Time
	g          usage.Granularity
}

type fakeUsage struct {
	buckets  []usage.Bucket
	snapshot usage.Snapshot
	err      error

	userID    uuid.UUID
	lastRange rangeCall
}

func (f *fakeUsage) Daily(_ context.Context, userID uuid.UUID) ([]usage.Bucket, error) {
	f.userID = userID
	return f.buckets, f.err
}

func (f *fakeUsage) Weekly(_ context.Context, userID uuid.UUID) ([]usage.Bucket, error) {
	f.userID = userID
	return f.buckets, f.err
}

func (f *fakeUsage) Range(_ context.Context, userID uuid.UUID, start, end time.Time, g usage.Granularity) ([]usage.Bucket, error) {
	f.lastRange = rangeCall{userID: userID, start: start, end: end, g: g}
	return f.buckets, f.err
}

func (f *fakeUsage) Summary(_ context.Context, userID uuid.UUID) (usage.Snapshot, error) {
	f.userID = userID
	return f.snapshot, f.err
}

type fakeRecorder struct {
	err  error
	last service.RecordRequest
}

func (f *fakeRecorder) Record(_ context.Context, req service.RecordRequest) (*db.UsageSample, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &db.UsageSample{
		ID:         uuid.New(),
		UserID:     req.UserID,
		DeviceID:   req.DeviceID,
		RecordedAt: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
		Amount:     *req.Usage,
		Source:     req.Source,
	}, nil
}

// fakeDevices keeps devices per owner
type fakeDevices struct {
	devices map[uuid.UUID]db.Device
}

func newFakeDevices() *fakeDevices {
	return &fakeDevices{devices: map[uuid.UUID]db.Device{}}
}

func (f *fakeDevices) List(_ context.Context, userID uuid.UUID) ([]db.Device, error) {
	var out []db.Device
	for _, d := range f.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDevices) Create(_ context.Context, userID uuid.UUID, in service.DeviceInput) (*db.Device, error) {
	if in.Name == "" || in.Type == "" {
		return nil, apperr.New(apperr.ValidationFailure, "name and type are required")
	}
	d := db.Device{ID: uuid.New(), UserID: userID, Name: in.Name, Type: in.Type, IsActive: true}
	f.devices[d.ID] = d
	return &d, nil
}

func (f *fakeDevices) Update(_ context.Context, userID, deviceID uuid.UUID, in service.DeviceInput) (*db.Device, error) {
	d, ok := f.devices[deviceID]
	if !ok || d.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "Device not found")
	}
	if in.Name != "" {
		d.Name = in.Name
	}
	f.devices[deviceID] = d
	return &d, nil
}

func (f *fakeDevices) Delete(_ context.Context, userID, deviceID uuid.UUID) error {
	d, ok := f.devices[deviceID]
	if !ok || d.UserID != userID {
		return apperr.New(apperr.NotFound, "Device not found")
	}
	delete(f.devices, deviceID)
	return nil
}

type fakeBudgets struct {
	current *db.Budget
}

func (f *fakeBudgets) Current(context.Context, uuid.UUID) (*db.Budget, error) {
	if f.current == nil {
		return nil, apperr.New(apperr.NotFound, "No budget found")
	}
	return f.current, nil
}

func (f *fakeBudgets) Create(_ context.Context, userID uuid.UUID, amount *float64, period string) (*db.Budget, error) {
	if amount == nil {
		return nil, apperr.New(apperr.ValidationFailure, "amount is required")
	}
	if period == "" {
		period = service.PeriodWeekly
	}
	f.current = &db.Budget{ID: uuid.New(), UserID: userID, Amount: *amount, Period: period}
	return f.current, nil
}

type testEnv struct {
	srv      *Server
	tokens   *auth.TokenIssuer
	auth     *fakeAuth
	usage    *fakeUsage
	recorder *fakeRecorder
	devices  *fakeDevices
	budgets  *fakeBudgets
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tokens:   auth.NewTokenIssuer(testSecret, time.Hour),
		auth:     &fakeAuth{},
		usage:    &fakeUsage{},
		recorder: &fakeRecorder{},
		devices:  newFakeDevices(),
		budgets:  &fakeBudgets{},
	}
	env.srv = New(Deps{
		Auth:     env.auth,
		Tokens:   env.tokens,
		Usage:    env.usage,
		Recorder: env.recorder,
		Devices:  env.devices,
		Budgets:  env.budgets,
	})
	return env
}

func (e *testEnv) bearer(userID uuid.UUID) string {
	token, err := e.tokens.Issue(userID)
	if err != nil {
		panic(err)
	}
	return "Bearer " + token
}
