package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/repository"
)

// DeviceStore persists devices; every call is scoped to the owning user
type DeviceStore interface {
	ListDevices(ctx context.Context, userID uuid.UUID) ([]db.Device, error)
	GetDevice(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error)
	CreateDevice(ctx context.Context, device *db.Device) (*db.Device, error)
	UpdateDevice(ctx context.Context, device *db.Device) (*db.Device, error)
	DeleteDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}

// DeviceInput carries device fields from a request. Nil pointers and empty
// strings mean "not provided".
type DeviceInput struct {
	Name        string
	Type        string
	Consumption *float64
	IsActive    *bool
}

// DeviceService manages a user's devices
type DeviceService struct {
	devices DeviceStore
}

// NewDeviceService creates a new device service
func NewDeviceService(devices DeviceStore) *DeviceService {
	return &DeviceService{devices: devices}
}

// List returns all of the user's devices
func (s *DeviceService) List(ctx context.Context, userID uuid.UUID) ([]db.Device, error) {
	devices, err := s.devices.ListDevices(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	return devices, nil
}

// Create adds a device; name and type are required
func (s *DeviceService) Create(ctx context.Context, userID uuid.UUID, in DeviceInput) (*db.Device, error) {
	device := &db.Device{
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		Type:     strings.TrimSpace(in.Type),
		IsActive: true,
	}
	if device.Name == "" || device.Type == "" {
		return nil, apperr.New(apperr.ValidationFailure, "name and type are required")
	}
	if err := applyDeviceNumbers(device, in); err != nil {
		return nil, err
	}

	created, err := s.devices.CreateDevice(ctx, device)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	return created, nil
}

// Update changes the provided fields of a device the user owns
func (s *DeviceService) Update(ctx context.Context, userID, deviceID uuid.UUID, in DeviceInput) (*db.Device, error) {
	device, err := s.devices.GetDevice(ctx, userID, deviceID)
	if err != nil {
		return nil, deviceError(err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		device.Name = name
	}
	if typ := strings.TrimSpace(in.Type); typ != "" {
		device.Type = typ
	}
	if err := applyDeviceNumbers(device, in); err != nil {
		return nil, err
	}

	updated, err := s.devices.UpdateDevice(ctx, device)
	if err != nil {
		return nil, deviceError(err)
	}
	return updated, nil
}

// Delete removes a device the user owns
func (s *DeviceService) Delete(ctx context.Context, userID, deviceID uuid.UUID) error {
	if err := s.devices.DeleteDevice(ctx, userID, deviceID); err != nil {
		return deviceError(err)
	}
	return nil
}

func applyDeviceNumbers(device *db.Device, in DeviceInput) error {
	if in.Consumption != nil {
		if *in.Consumption < 0 {
			return apperr.New(apperr.ValidationFailure, "consumption must not be negative")
		}
		device.Consumption = *in.Consumption
	}
	if in.IsActive != nil {
		device.IsActive = *in.IsActive
	}
	return nil
}

func deviceError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Wrap(apperr.NotFound, "Device not found", err)
	}
	return apperr.Wrap(apperr.Internal, "", err)
}
