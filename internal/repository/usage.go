package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/usage"
)

// InsertUsageSample stores a sample and returns it with its generated id
func (r *Repository) InsertUsageSample(ctx context.Context, sample *db.UsageSample) (*db.UsageSample, error) {
	query := `
		INSERT INTO usage_samples (user_id, device_id, recorded_at, amount, source, anomaly_reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, device_id, recorded_at, amount, source, anomaly_reason
	`

	var s db.UsageSample
	err := r.pool.QueryRow(ctx, query,
		sample.UserID,
		sample.DeviceID,
		sample.RecordedAt,
		sample.Amount,
		sample.Source,
		sample.AnomalyReason,
	).Scan(
		&s.ID,
		&s.UserID,
		&s.DeviceID,
		&s.RecordedAt,
		&s.Amount,
		&s.Source,
		&s.AnomalyReason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert usage sample: %w", err)
	}

	return &s, nil
}

// SamplesInWindow implements usage.Store
func (r *Repository) SamplesInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]usage.Sample, error) {
	query := `
		SELECT id, user_id, device_id, recorded_at, amount
		FROM usage_samples
		WHERE user_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at
	`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage samples: %w", err)
	}
	defer rows.Close()

	var samples []usage.Sample
	for rows.Next() {
		var s usage.Sample
		if err := rows.Scan(&s.ID, &s.UserID, &s.DeviceID, &s.Timestamp, &s.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan usage sample: %w", err)
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return samples, nil
}

// RecentAmounts returns the user's latest sample amounts, newest first, for
// spike detection
func (r *Repository) RecentAmounts(ctx context.Context, userID uuid.UUID, deviceID *uuid.UUID, limit int) ([]float64, error) {
	query := `
		SELECT amount
		FROM usage_samples
		WHERE user_id = $1 AND device_id IS NOT DISTINCT FROM $2 AND anomaly_reason IS NULL
		ORDER BY recorded_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent amounts: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var value float64
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return values, nil
}
