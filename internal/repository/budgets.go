package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/db"
)

// CreateBudget inserts a budget
func (r *Repository) CreateBudget(ctx context.Context, userID uuid.UUID, amount float64, period string) (*db.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, amount, period)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, amount, period, created_at
	`

	var b db.Budget
	err := r.pool.QueryRow(ctx, query, userID, amount, period).Scan(
		&b.ID,
		&b.UserID,
		&b.Amount,
		&b.Period,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return &b, nil
}

// LatestBudget returns the user's most recently created budget
func (r *Repository) LatestBudget(ctx context.Context, userID uuid.UUID) (*db.Budget, error) {
	query := `
		SELECT id, user_id, amount, period, created_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var b db.Budget
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&b.ID,
		&b.UserID,
		&b.Amount,
		&b.Period,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return &b, nil
}
