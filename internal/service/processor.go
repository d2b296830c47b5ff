package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/logging"
	"go.uber.org/zap"
)

// IngestMessage is a usage reading delivered on the ingest queue
type IngestMessage struct {
	RequestID string   `json:"request_id"`
	UserID    string   `json:"user_id"`
	DeviceID  string   `json:"device_id,omitempty"`
	Usage     *float64 `json:"usage"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// ProcessorService turns ingest queue messages into stored samples
type ProcessorService struct {
	recorder *Recorder
	logger   *zap.Logger
}

// NewProcessorService creates a new processor service
func NewProcessorService(recorder *Recorder, logger *zap.Logger) *ProcessorService {
	return &ProcessorService{recorder: recorder, logger: logger}
}

// ProcessMessage records one ingest message. Any error sends the message to
// the dead-letter queue.
func (s *ProcessorService) ProcessMessage(ctx context.Context, body []byte) error {
	var msg IngestMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	reqLogger := logging.WithRequestID(s.logger, msg.RequestID)

	userID, err := uuid.Parse(msg.UserID)
	if err != nil {
		return fmt.Errorf("invalid user_id %q: %w", msg.UserID, err)
	}

	var deviceID *uuid.UUID
	if msg.DeviceID != "" {
		id, err := uuid.Parse(msg.DeviceID)
		if err != nil {
			return fmt.Errorf("invalid device_id %q: %w", msg.DeviceID, err)
		}
		deviceID = &id
	}

	sample, err := s.recorder.Record(ctx, RecordRequest{
		UserID:    userID,
		DeviceID:  deviceID,
		Usage:     msg.Usage,
		Timestamp: msg.Timestamp,
		Source:    SourceQueue,
		RequestID: msg.RequestID,
	})
	if err != nil {
		return fmt.Errorf("failed to record sample: %w", err)
	}

	reqLogger.Info("message processed successfully",
		zap.String("sample_id", sample.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}
