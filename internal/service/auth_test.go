package service

import (
	"context"
	"testing"

	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("register then login", func(t *testing.T) {
		svc := NewAuthService(newFakeRepo(), fakeTokens{}, zap.NewNop())

		reg, err := svc.Register(ctx, "Demo User", " Demo@Example.com ", "pa55word")
		require.NoError(t, err)
		assert.Equal(t, "demo@example.com", reg.User.Email)
		assert.Equal(t, "token-"+reg.User.ID.String(), reg.Token)
		assert.NotEqual(t, "pa55word", reg.User.PasswordHash)

		login, err := svc.Login(ctx, "demo@example.com", "pa55word")
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, login.User.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewAuthService(newFakeRepo(), fakeTokens{}, zap.NewNop())
		_, err := svc.Register(ctx, "A", "a@example.com", "x")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "B", "a@example.com", "y")
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))
		assert.Equal(t, "User already exists", apperr.MessageOf(err, ""))
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewAuthService(newFakeRepo(), fakeTokens{}, zap.NewNop())

		_, err := svc.Register(ctx, "", "a@example.com", "x")
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))

		_, err = svc.Login(ctx, "a@example.com", "")
		assert.Equal(t, apperr.ValidationFailure, apperr.KindOf(err))
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := NewAuthService(newFakeRepo(), fakeTokens{}, zap.NewNop())
		_, err := svc.Register(ctx, "A", "a@example.com", "right")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "a@example.com", "wrong")
		assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))

		_, err = svc.Login(ctx, "nobody@example.com", "right")
		assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))
	})

	t.Run("token failure is internal", func(t *testing.T) {
		svc := NewAuthService(newFakeRepo(), fakeTokens{err: errBoom}, zap.NewNop())

		_, err := svc.Register(ctx, "A", "a@example.com", "x")
		assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	})
}
