package errors

import (
	"errors"
	"fmt"
)

// Common error types for the obras server
var (
	// Directory errors
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
	ErrDuplicateUser        = errors.New("duplicate username in directory")
	ErrInvalidUserRecord    = errors.New("invalid user record")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSubmission       = errors.New("no credentials submitted")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInvalid  = errors.New("session invalid")
	ErrSessionExpired  = errors.New("session expired")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
