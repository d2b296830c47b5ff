package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/septivank/energy-harmony/internal/db"
)

const deviceColumns = `id, user_id, name, type, consumption, is_active, created_at`

func scanDevice(row pgx.Row) (*db.Device, error) {
	var d db.Device
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Type,
		&d.Consumption,
		&d.IsActive,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDevices returns the user's devices, oldest first
func (r *Repository) ListDevices(ctx context.Context, userID uuid.UUID) ([]db.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	devices := []db.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return devices, nil
}

// GetDevice returns the device only if userID owns it
func (r *Repository) GetDevice(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1 AND user_id = $2`

	d, err := scanDevice(r.pool.QueryRow(ctx, query, deviceID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// CreateDevice inserts a device
func (r *Repository) CreateDevice(ctx context.Context, device *db.Device) (*db.Device, error) {
	query := `
		INSERT INTO devices (user_id, name, type, consumption, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + deviceColumns

	d, err := scanDevice(r.pool.QueryRow(ctx, query,
		device.UserID,
		device.Name,
		device.Type,
		device.Consumption,
		device.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	return d, nil
}

// UpdateDevice overwrites the mutable fields of a device the user owns
func (r *Repository) UpdateDevice(ctx context.Context, device *db.Device) (*db.Device, error) {
	query := `
		UPDATE devices
		SET name = $3, type = $4, consumption = $5, is_active = $6
		WHERE id = $1 AND user_id = $2
		RETURNING ` + deviceColumns

	d, err := scanDevice(r.pool.QueryRow(ctx, query,
		device.ID,
		device.UserID,
		device.Name,
		device.Type,
		device.Consumption,
		device.IsActive,
	))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// DeleteDevice removes a device the user owns
func (r *Repository) DeleteDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM devices WHERE id = $1 AND user_id = $2`, deviceID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
