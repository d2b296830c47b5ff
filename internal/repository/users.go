package repository

import (
	"context"
	"fmt"

	"github.com/septivank/energy-harmony/internal/db"
)

// CreateUser inserts a user; a taken email yields ErrDuplicate
func (r *Repository) CreateUser(ctx context.Context, name, email, passwordHash string) (*db.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, created_at
	`

	var user db.User
	err := r.pool.QueryRow(ctx, query, name, email, passwordHash).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail looks a user up by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var user db.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return &user, nil
}
