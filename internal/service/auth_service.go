package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eduvision/expenses/internal/auth"
	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/storage"
)

// AuthService handles registration, login and session lookups.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Session bundles a user with their freshly issued token.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new user account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, reg auth.Registration) (*Session, error) {
	user, err := s.authenticator.Register(ctx, reg)
	if err != nil {
		slog.Warn("Registration failed", "email", reg.Email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return &Session{User: user, Token: token}, nil
}

// Login authenticates a user and returns a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	return &Session{User: user, Token: token}, nil
}

// CurrentUser fetches the full user record for an authenticated user ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, nil
}
