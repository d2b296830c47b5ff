// Package httpserver exposes the dashboard REST API.
package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/logging"
	"github.com/septivank/energy-harmony/internal/service"
	"github.com/septivank/energy-harmony/internal/usage"
	"go.uber.org/zap"
)

// Authenticator registers and logs in users
type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

// TokenVerifier resolves a bearer token to a user id
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// UsageReader serves rollups and the summary snapshot
type UsageReader interface {
	Daily(ctx context.Context, userID uuid.UUID) ([]usage.Bucket, error)
	Weekly(ctx context.Context, userID uuid.UUID) ([]usage.Bucket, error)
	Range(ctx context.Context, userID uuid.UUID, start, end time.Time, g usage.Granularity) ([]usage.Bucket, error)
	Summary(ctx context.Context, userID uuid.UUID) (usage.Snapshot, error)
}

// UsageRecorder stores a single reading
type UsageRecorder interface {
	Record(ctx context.Context, req service.RecordRequest) (*db.UsageSample, error)
}

// DeviceManager is the device CRUD surface
type DeviceManager interface {
	List(ctx context.Context, userID uuid.UUID) ([]db.Device, error)
	Create(ctx context.Context, userID uuid.UUID, in service.DeviceInput) (*db.Device, error)
	Update(ctx context.Context, userID, deviceID uuid.UUID, in service.DeviceInput) (*db.Device, error)
	Delete(ctx context.Context, userID, deviceID uuid.UUID) error
}

// BudgetManager reads and sets budgets
type BudgetManager interface {
	Current(ctx context.Context, userID uuid.UUID) (*db.Budget, error)
	Create(ctx context.Context, userID uuid.UUID, amount *float64, period string) (*db.Budget, error)
}

// Deps are the services behind the API
type Deps struct {
	Auth           Authenticator
	Tokens         TokenVerifier
	Usage          UsageReader
	Recorder       UsageRecorder
	Devices        DeviceManager
	Budgets        BudgetManager
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

type Server struct {
	deps   Deps
	logger *zap.Logger
	mux    *http.ServeMux
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Server{
		deps:   deps,
		logger: deps.Logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := newRequestID()

	w.Header().Set("X-Request-Id", reqID)
	rr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	ctx := withRequestID(r.Context(), reqID)
	if s.deps.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.RequestTimeout)
		defer cancel()
	}
	r = r.WithContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			rr.status = http.StatusInternalServerError

			// Headers may already be out; then we can only log.
			if !rr.wroteHeader {
				writeMessage(rr, http.StatusInternalServerError, serverErrorMessage)
			}

			s.logger.Error("panic handling request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", reqID),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
		}

		dur := time.Since(start)
		observeHTTPRequest(r, rr.status, dur)

		if r.URL.Path != "/healthz" && r.URL.Path != "/metrics" {
			logging.WithRequestID(s.logger, reqID).Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rr.status),
				zap.Duration("duration", dur.Truncate(time.Millisecond)),
			)
		}
	}()

	s.mux.ServeHTTP(rr, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	s.mux.HandleFunc("GET /api/usage/daily", s.authenticated(s.handleDailyUsage))
	s.mux.HandleFunc("GET /api/usage/weekly", s.authenticated(s.handleWeeklyUsage))
	s.mux.HandleFunc("GET /api/usage/range", s.authenticated(s.handleRangeUsage))
	s.mux.HandleFunc("POST /api/usage", s.authenticated(s.handleRecordUsage))
	s.mux.HandleFunc("GET /api/summary", s.authenticated(s.handleSummary))

	s.mux.HandleFunc("GET /api/devices", s.authenticated(s.handleListDevices))
	s.mux.HandleFunc("POST /api/devices", s.authenticated(s.handleCreateDevice))
	s.mux.HandleFunc("PUT /api/devices/{id}", s.authenticated(s.handleUpdateDevice))
	s.mux.HandleFunc("DELETE /api/devices/{id}", s.authenticated(s.handleDeleteDevice))

	s.mux.HandleFunc("GET /api/budget", s.authenticated(s.handleGetBudget))
	s.mux.HandleFunc("POST /api/budget", s.authenticated(s.handleCreateBudget))

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("/api/", s.handleAPINotFound)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found")
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(p)
}

func newRequestID() string {
	var b [6]byte // 12 hex chars
	if _, err := rand.Read(b[:]); err != nil {
		return "000000000000"
	}
	return hex.EncodeToString(b[:])
}
