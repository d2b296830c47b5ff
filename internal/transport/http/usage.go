package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/service"
	"github.com/septivank/energy-harmony/internal/usage"
)

type recordUsageRequestJSON struct {
	DeviceID  string   `json:"deviceId"`
	Usage     *float64 `json:"usage"`
	Timestamp string   `json:"timestamp"`
}

func (s *Server) handleDailyUsage(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	buckets, err := s.deps.Usage.Daily(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toUsageRows(buckets))
}

func (s *Server) handleWeeklyUsage(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	buckets, err := s.deps.Usage.Weekly(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toUsageRows(buckets))
}

// handleRangeUsage rolls up [start, end). start is required, end defaults to
// now and granularity to "day". Both times are RFC3339; an unescaped "+"
// offset arrives as a space and is accepted.
func (s *Server) handleRangeUsage(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	q := r.URL.Query()

	start, err := parseQueryTime(q.Get("start"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid start")
		return
	}

	var end time.Time
	if v := q.Get("end"); v != "" {
		if end, err = parseQueryTime(v); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid end")
			return
		}
	}

	g := usage.CalendarDay
	if v := q.Get("granularity"); v != "" {
		if g, err = usage.ParseGranularity(v); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid granularity")
			return
		}
	}

	buckets, err := s.deps.Usage.Range(r.Context(), userID, start, end, g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toUsageRows(buckets))
}

func parseQueryTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil && strings.Contains(v, " ") {
		return time.Parse(time.RFC3339, strings.ReplaceAll(v, " ", "+"))
	}
	return t, err
}

func (s *Server) handleRecordUsage(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req recordUsageRequestJSON
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var deviceID *uuid.UUID
	if req.DeviceID != "" {
		id, err := uuid.Parse(req.DeviceID)
		if err != nil {
			// Not a device id this user could own
			s.writeError(w, r, apperr.New(apperr.NotFound, "Device not found"))
			return
		}
		deviceID = &id
	}

	sample, err := s.deps.Recorder.Record(r.Context(), service.RecordRequest{
		UserID:    userID,
		DeviceID:  deviceID,
		Usage:     req.Usage,
		Timestamp: req.Timestamp,
		Source:    service.SourceAPI,
		RequestID: requestIDFrom(r.Context()),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusCreated, toSampleJSON(sample))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	snap, err := s.deps.Usage.Summary(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toSummaryJSON(snap))
}
