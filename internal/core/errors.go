package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the request carried no usable session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrSessionExpired means the session token exists but has passed its
	// expiry; the caller must invalidate it.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials means email/password authentication failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound covers both genuinely missing rows and rows owned by a
	// different user. The two are deliberately indistinguishable so that
	// probing cannot reveal another user's data.
	ErrNotFound = errors.New("not found")

	// ErrOverpayment means a payment would drive balance_due negative.
	ErrOverpayment = errors.New("payment exceeds balance due")

	// ErrConflict means a concurrent writer modified the invoice between
	// read and write. The caller may retry.
	ErrConflict = errors.New("concurrent modification")
)

// ValidationError reports malformed input, detected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
