package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/anomaly"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/logging"
	"github.com/septivank/energy-harmony/internal/mq"
	"github.com/septivank/energy-harmony/internal/repository"
	"github.com/septivank/energy-harmony/internal/usage"
	"github.com/septivank/energy-harmony/internal/validator"
	"go.uber.org/zap"
)

// Sample sources
const (
	SourceAPI   = "api"
	SourceQueue = "queue"
)

// SampleStore appends usage samples
type SampleStore interface {
	InsertUsageSample(ctx context.Context, sample *db.UsageSample) (*db.UsageSample, error)
	RecentAmounts(ctx context.Context, userID uuid.UUID, deviceID *uuid.UUID, limit int) ([]float64, error)
}

// DeviceLookup resolves a device owned by a user
type DeviceLookup interface {
	GetDevice(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error)
}

// EventPublisher announces stored samples
type EventPublisher interface {
	PublishUsageRecorded(ctx context.Context, event mq.UsageRecordedEvent) error
}

// RecordRequest is one reading to store
type RecordRequest struct {
	UserID    uuid.UUID
	DeviceID  *uuid.UUID
	Usage     *float64
	Timestamp string
	Source    string
	RequestID string
}

// Recorder validates, stores and announces usage samples
type Recorder struct {
	samples       SampleStore
	devices       DeviceLookup
	publisher     EventPublisher
	validator     *validator.Validator
	detector      *anomaly.Detector
	historyWindow int
	now           usage.Clock
	logger        *zap.Logger
}

// RecorderConfig holds the recorder's collaborators
type RecorderConfig struct {
	Samples       SampleStore
	Devices       DeviceLookup
	Publisher     EventPublisher
	Validator     *validator.Validator
	Detector      *anomaly.Detector
	HistoryWindow int
	Clock         usage.Clock
	Logger        *zap.Logger
}

// NewRecorder creates a new recorder
func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.Clock == nil {
		cfg.Clock = usage.SystemClock
	}
	if cfg.Publisher == nil {
		cfg.Publisher = mq.NopPublisher{}
	}
	return &Recorder{
		samples:       cfg.Samples,
		devices:       cfg.Devices,
		publisher:     cfg.Publisher,
		validator:     cfg.Validator,
		detector:      cfg.Detector,
		historyWindow: cfg.HistoryWindow,
		now:           cfg.Clock,
		logger:        cfg.Logger,
	}
}

// Record stores one sample for the user. A device id must belong to the
// user. Spikes are stored but annotated with the anomaly reason.
func (r *Recorder) Record(ctx context.Context, req RecordRequest) (*db.UsageSample, error) {
	logger := logging.WithUserID(r.logger, req.UserID.String())
	if req.RequestID != "" {
		logger = logging.WithRequestID(logger, req.RequestID)
	}

	amount, recordedAt, result := r.validator.ValidateSample(validator.SampleData{
		Usage:     req.Usage,
		Timestamp: req.Timestamp,
	}, r.now())
	if !result.IsValid {
		return nil, apperr.New(apperr.ValidationFailure, result.Reason)
	}

	if req.DeviceID != nil {
		if _, err := r.devices.GetDevice(ctx, req.UserID, *req.DeviceID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.Wrap(apperr.NotFound, "Device not found", err)
			}
			return nil, apperr.Wrap(apperr.Internal, "", err)
		}
	}

	var anomalyReason *string
	recent, err := r.samples.RecentAmounts(ctx, req.UserID, req.DeviceID, r.historyWindow)
	if err != nil {
		logger.Warn("failed to get recent samples for anomaly detection", zap.Error(err))
	} else if reason := r.detector.Check(amount, recent); reason != "" {
		anomalyReason = &reason
		logger.Info("usage spike detected", zap.Float64("usage", amount), zap.String("reason", reason))
	}

	stored, err := r.samples.InsertUsageSample(ctx, &db.UsageSample{
		UserID:        req.UserID,
		DeviceID:      req.DeviceID,
		RecordedAt:    recordedAt,
		Amount:        amount,
		Source:        req.Source,
		AnomalyReason: anomalyReason,
	})
	if err != nil {
		logger.Error("failed to insert usage sample", zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	samplesRecordedTotal.WithLabelValues(req.Source, strconv.FormatBool(anomalyReason != nil)).Inc()

	if err := r.publisher.PublishUsageRecorded(ctx, recordedEvent(stored, req.RequestID)); err != nil {
		// Sample is already stored
		logger.Error("failed to publish usage event", zap.Error(err), zap.String("sample_id", stored.ID.String()))
	}

	return stored, nil
}

func recordedEvent(s *db.UsageSample, requestID string) mq.UsageRecordedEvent {
	event := mq.UsageRecordedEvent{
		SampleID:  s.ID.String(),
		UserID:    s.UserID.String(),
		Usage:     s.Amount,
		Timestamp: s.RecordedAt.UTC().Format(time.RFC3339Nano),
		Source:    s.Source,
		RequestID: requestID,
	}
	if s.DeviceID != nil {
		event.DeviceID = s.DeviceID.String()
	}
	if s.AnomalyReason != nil {
		event.AnomalyReason = *s.AnomalyReason
	}
	return event
}
