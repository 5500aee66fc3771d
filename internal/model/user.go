package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStatus is the lifecycle state of an account.
type UserStatus string

// UserStatusActive is the only status that may log in.
const UserStatusActive UserStatus = "active"

// UserStore defines persistence operations for accounts keyed by canonical
// mobile number.
type UserStore interface {
	GetByMobile(ctx context.Context, mobileNumber string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// Activate creates or updates the account inside one transaction and
	// reports whether the row was created by this call.
	Activate(ctx context.Context, activation Activation) (User, bool, error)
	TouchLastLogin(ctx context.Context, mobileNumber string, at time.Time) error
}

// User represents a stored account.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	MobileNumber string
	Status       UserStatus
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Profile is the projection of a user that may leave the server.
type Profile struct {
	ID           uuid.UUID
	MobileNumber string
	FirstName    string
	LastName     string
}

// Profile returns the public projection of u.
func (u User) Profile() Profile {
	return Profile{
		ID:           u.ID,
		MobileNumber: u.MobileNumber,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
	}
}

// Activation carries the fields written when a verified registration
// materializes an account.
type Activation struct {
	// ID is used only if the account does not exist yet.
	ID           uuid.UUID
	FirstName    string
	LastName     string
	MobileNumber string
	PasswordHash string
	At           time.Time
}

// PasswordHasher derives and checks stored password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}
