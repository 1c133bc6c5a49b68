package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name shown in groups and settlement suggestions.
	Name string

	// Email is the user's login address (unique, lower-case).
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix millisecond timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UnixMilli(),
	}
}

// Member is the identity reference a group renders: an opaque user ID and a display name.
type Member struct {
	ID   string
	Name string
}

// NormalizeEmail trims and lower-cases an email address.
// Emails are stored and looked up in this form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
