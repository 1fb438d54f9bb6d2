package domain

import (
	"context"
	"errors"
)

// ErrEmailTaken is returned by Create and Update when the email collides
// with an existing, different record. Implementations map their backend's
// unique-violation error to this one, so a racing duplicate write surfaces
// as a conflict rather than an infrastructure failure.
var ErrEmailTaken = errors.New("email already taken")

// UserRepository defines the data-access contract for the credential store.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on a driver directly.
type UserRepository interface {
	// Create persists a new user and assigns its ID.
	// Returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail returns the user matching the given email.
	// Email comparison is case-sensitive, exactly as stored.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id string) (*User, error)

	// Update replaces the mutable fields of the stored record identified by
	// user.ID. Returns ErrEmailTaken when the new email belongs to a
	// different record.
	Update(ctx context.Context, user *User) error
}
