package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/repository"
)

// Budget periods
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// BudgetStore persists budgets
type BudgetStore interface {
	CreateBudget(ctx context.Context, userID uuid.UUID, amount float64, period string) (*db.Budget, error)
	LatestBudget(ctx context.Context, userID uuid.UUID) (*db.Budget, error)
}

// BudgetService manages usage budgets. The current budget is always the
// most recently created one.
type BudgetService struct {
	budgets BudgetStore
}

// NewBudgetService creates a new budget service
func NewBudgetService(budgets BudgetStore) *BudgetService {
	return &BudgetService{budgets: budgets}
}

// Current returns the user's latest budget
func (s *BudgetService) Current(ctx context.Context, userID uuid.UUID) (*db.Budget, error) {
	budget, err := s.budgets.LatestBudget(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Wrap(apperr.NotFound, "No budget found", err)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	return budget, nil
}

// Create records a new budget; an empty period defaults to weekly
func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, amount *float64, period string) (*db.Budget, error) {
	if amount == nil {
		return nil, apperr.New(apperr.ValidationFailure, "amount is required")
	}
	if *amount < 0 {
		return nil, apperr.New(apperr.ValidationFailure, "amount must not be negative")
	}

	switch period {
	case "":
		period = PeriodWeekly
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return nil, apperr.New(apperr.ValidationFailure, "period must be one of daily, weekly, monthly")
	}

	budget, err := s.budgets.CreateBudget(ctx, userID, *amount, period)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	return budget, nil
}
