package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/usage"
	"go.uber.org/zap"
)

const serverErrorMessage = "Server error"

type messageJSON struct {
	Message string `json:"message"`
}

type userJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponseJSON struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type usageRowJSON struct {
	Time  string  `json:"time"`
	Usage float64 `json:"usage"`
}

type summaryJSON struct {
	CurrentUsage      float64 `json:"currentUsage"`
	DailyAverage      float64 `json:"dailyAverage"`
	WeeklyTotal       float64 `json:"weeklyTotal"`
	MonthlyProjection float64 `json:"monthlyProjection"`
	SavingsPercentage float64 `json:"savingsPercentage"`
}

type deviceJSON struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Consumption float64 `json:"consumption"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt"`
}

type budgetJSON struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Amount    float64 `json:"amount"`
	Period    string  `json:"period"`
	CreatedAt string  `json:"createdAt"`
}

type sampleJSON struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	DeviceID      *string `json:"deviceId"`
	Timestamp     string  `json:"timestamp"`
	Usage         float64 `json:"usage"`
	Source        string  `json:"source"`
	AnomalyReason *string `json:"anomalyReason,omitempty"`
}

func toUserJSON(u *db.User) userJSON {
	return userJSON{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

func toUsageRows(buckets []usage.Bucket) []usageRowJSON {
	return lo.Map(buckets, func(b usage.Bucket, _ int) usageRowJSON {
		return usageRowJSON{Time: b.Label, Usage: b.Total}
	})
}

func toSummaryJSON(s usage.Snapshot) summaryJSON {
	return summaryJSON{
		CurrentUsage:      s.CurrentUsage,
		DailyAverage:      s.DailyAverage,
		WeeklyTotal:       s.WeeklyTotal,
		MonthlyProjection: s.MonthlyProjection,
		SavingsPercentage: s.SavingsPercentage,
	}
}

func toDeviceJSON(d db.Device) deviceJSON {
	return deviceJSON{
		ID:          d.ID.String(),
		UserID:      d.UserID.String(),
		Name:        d.Name,
		Type:        d.Type,
		Consumption: d.Consumption,
		IsActive:    d.IsActive,
		CreatedAt:   formatTime(d.CreatedAt),
	}
}

func toBudgetJSON(b *db.Budget) budgetJSON {
	return budgetJSON{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		Amount:    b.Amount,
		Period:    b.Period,
		CreatedAt: formatTime(b.CreatedAt),
	}
}

func toSampleJSON(s *db.UsageSample) sampleJSON {
	out := sampleJSON{
		ID:            s.ID.String(),
		UserID:        s.UserID.String(),
		Timestamp:     formatTime(s.RecordedAt),
		Usage:         s.Amount,
		Source:        s.Source,
		AnomalyReason: s.AnomalyReason,
	}
	if s.DeviceID != nil {
		out.DeviceID = lo.ToPtr(s.DeviceID.String())
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, messageJSON{Message: message})
}

// writeError maps err's kind to a status. Causes are logged, never sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch apperr.KindOf(err) {
	case apperr.ValidationFailure:
		writeMessage(w, http.StatusBadRequest, apperr.MessageOf(err, "Invalid request"))
	case apperr.InvalidCredential:
		writeMessage(w, http.StatusUnauthorized, apperr.MessageOf(err, "Invalid credentials"))
	case apperr.NotFound:
		writeMessage(w, http.StatusNotFound, apperr.MessageOf(err, "Not found"))
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.ValidationFailure, "Invalid JSON body", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
