package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/apperr"
	"github.com/septivank/energy-harmony/internal/auth"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/septivank/energy-harmony/internal/repository"
	"go.uber.org/zap"
)

// UserStore persists accounts
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// TokenIssuer signs bearer tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// AuthResult is returned by register and login
type AuthResult struct {
	Token string
	User  *db.User
}

// AuthService registers and logs in users
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates an account and returns a token for it
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.ValidationFailure, "name, email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}

	user, err := s.users.CreateUser(ctx, name, email, hash)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.New(apperr.ValidationFailure, "User already exists")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login checks credentials and returns a fresh token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ValidationFailure, "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.InvalidCredential, "Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}

	err = auth.ComparePassword(user.PasswordHash, password)
	if errors.Is(err, auth.ErrPasswordMismatch) {
		return nil, apperr.New(apperr.InvalidCredential, "Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *db.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
