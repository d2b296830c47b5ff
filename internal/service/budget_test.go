package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetService(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()

	t.Run("no budget yet", func(t *testing.T) {
		svc := NewBudgetService(newFakeRepo())

		_, err := svc.Current(ctx, user)
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
		assert.Equal(t, "No budget found", apperr.MessageOf(err, ""))
	})

	t.Run("current is the latest created", func(t *testing.T) {
		svc := NewBudgetService(newFakeRepo())
		_, err := svc.Create(ctx, user, f64(150), PeriodMonthly)
		require.NoError(t, err)
		_, err = svc.Create(ctx, user, f64(40), "")
		require.NoError(t, err)

		current, err := svc.Current(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, 40.0, current.Amount)
		assert.Equal(t, PeriodWeekly, current.Period)
	})

	t.Run("budgets are per user", func(t *testing.T) {
		svc := NewBudgetService(newFakeRepo())
		_, err := svc.Create(ctx, uuid.New(), f64(10), PeriodDaily)
		require.NoError(t, err)

		_, err = svc.Current(ctx, user)
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewBudgetService(newFakeRepo())

		_, err := svc.Create(ctx, user, nil, PeriodDaily)
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))

		_, err = svc.Create(ctx, user, f64(-5), PeriodDaily)
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))

		_, err = svc.Create(ctx, user, f64(5), "yearly")
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))
	})
}
