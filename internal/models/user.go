package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The checkout flow only ever needs the ID;
// the rest is for the auth surface.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login email, unique.
	Email string

	// Name is the display name.
	Name string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser constructs a user with a generated ID.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
