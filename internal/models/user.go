package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered student account.
//
// Department and Year mirror the student directory so classmate lookups
// (same department, same year) work without an external profile service.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's university email address (unique, used for login).
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Department is the user's academic department (e.g., "CSE").
	Department string `json:"department"`

	// Year is the user's current year of study.
	Year int `json:"year"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updated_at"`
}

// NewUser creates a user with a generated ID and timestamps.
func NewUser(email, name, passwordHash, department string, year int) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Department:   department,
		Year:         year,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
