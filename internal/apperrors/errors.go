// Package apperrors defines the error taxonomy shared by services and
// handlers. Services return these sentinels (usually wrapped); handlers own
// the mapping to HTTP status codes.
package apperrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrValidation marks missing or malformed client input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate marks a storage uniqueness violation.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound marks a missing resource, including resources owned by
	// another user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials marks a failed login. Unknown email and wrong
	// password both produce it, so callers cannot probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Uniqueness is enforced only by the database, so concurrent
// duplicate inserts surface here rather than in application checks.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
