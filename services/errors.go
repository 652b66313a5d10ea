package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by every service. Callers match them with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrTooManyRequests   = errors.New("too many requests")
)

// Identity error codes
const (
	CodeInvalidEmail      = "invalid-email"
	CodeUserNotFound      = "user-not-found"
	CodeTooManyRequests   = "too-many-requests"
	CodeWrongPassword     = "wrong-password"
	CodeInvalidActionCode = "invalid-action-code"
)

// AuthError carries one of the identity error codes so clients can map it to text
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth/" + e.Code
	}
	return fmt.Sprintf("auth/%s: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authError(code string, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

// AuthErrorCode returns the identity error code carried by err, if any
func AuthErrorCode(err error) (string, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code, true
	}
	return "", false
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
