package auth

import (
	"context"

	"github.com/eduvision/expenses/internal/models"
)

// Registration carries the fields needed to open a student account.
type Registration struct {
	Email      string
	Name       string
	Password   string
	Department string
	Year       int
}

// Authenticator defines the interface for authentication implementations.
// The abstraction allows swapping auth methods (password, SSO, etc.) without
// changing the service layer.
type Authenticator interface {
	// Register creates a new user account.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}
