// Package v1 provides authentication business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent common authentication
// failures. They are wrapped with operation context using fmt.Errorf("%w")
// when returned from business logic methods and checked at the web boundary
// with errors.Is, where they are translated to the HTTP response envelope.
package v1

import "errors"

// Sentinel errors for authentication operations.
var (
	// ErrMissingFields indicates required request fields are absent or empty.
	// HTTP Status: 400 Bad Request
	ErrMissingFields = errors.New("all fields are required")

	// ErrInvalidCredentials indicates a failed login or a wrong previous
	// password. The message is deliberately generic: a missing account and
	// a wrong password are indistinguishable to the caller.
	// HTTP Status: 400 Bad Request
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken indicates the email already belongs to another account.
	// HTTP Status: 400 Bad Request
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound indicates the authenticated id no longer resolves to
	// a record.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")
)
