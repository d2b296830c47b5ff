package db

import (
	"time"

	"github.com/google/uuid"
)

// User is a dashboard account
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Device is a metered appliance owned by a user
type Device struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Type        string
	Consumption float64
	IsActive    bool
	CreatedAt   time.Time
}

// Budget is a usage target; the newest one per user is current
type Budget struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    float64
	Period    string
	CreatedAt time.Time
}

// UsageSample is a recorded reading as stored in usage_samples
type UsageSample struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DeviceID      *uuid.UUID
	RecordedAt    time.Time
	Amount        float64
	Source        string
	AnomalyReason *string
}
