// Package finerr defines the error taxonomy shared by services, repositories
// and the HTTP layer. Repositories wrap driver errors into these sentinels so
// callers never match on pgx error codes directly.
package finerr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity does not exist (or is not
	// visible to the requesting user).
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, e.g. a second savings
	// goal for the same month or a duplicate generated occurrence.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is authenticated but the feature is
	// not available on their plan.
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest indicates invalid input.
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidRecurrence indicates contradictory recurrence state, e.g. an
	// installment counter past its total.
	ErrInvalidRecurrence = errors.New("invalid recurrence config")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// BadRequestf wraps ErrBadRequest with a formatted message.
func BadRequestf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrBadRequest)...)
}

// InvalidRecurrencef wraps ErrInvalidRecurrence with a formatted message.
func InvalidRecurrencef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidRecurrence)...)
}
