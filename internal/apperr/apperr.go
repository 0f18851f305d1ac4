// Package apperr defines the error taxonomy shared across handlers and
// services: auth failures, connectivity problems, constraint conflicts,
// and plain not-found. Handlers map these onto HTTP statuses and
// user-facing messages in exactly one place.
package apperr

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInvalidCredentials covers a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionExpired covers unknown, revoked, or expired refresh tokens.
	ErrSessionExpired = errors.New("session expired, sign in again")
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateRoll is returned when a roll number is already taken
	// within a batch, whether caught against the loaded roster or by the
	// database unique constraint.
	ErrDuplicateRoll = errors.New("roll number already in use")
	// ErrNothingToSave is returned for a bulk save with no marked students.
	ErrNothingToSave = errors.New("no attendance marked")
)

// ValidationError carries a field-level message for bad input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NewValidation builds a field validation error.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsConnectivity reports whether err looks like a network-level failure
// rather than a database or application error.
func IsConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
