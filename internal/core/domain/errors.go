package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for the HTTP layer.
type Kind string

const (
	KindTransient        Kind = "TRANSIENT"
	KindValidation       Kind = "VALIDATION"
	KindConflict         Kind = "CONFLICT"
	KindNotFound         Kind = "NOT_FOUND"
	KindExhaustedRetries Kind = "EXHAUSTED_RETRIES"
	KindInternal         Kind = "INTERNAL"
)

// Error carries a machine-readable kind, a user-facing message, and the
// internal cause. The cause is for logs only and is never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error wrapping an internal cause.
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Partner errors
var (
	ErrPartnerNotFound      = errors.New("partner not found")
	ErrPartnerAlreadyExists = errors.New("partner already exists")
)

// Pre-registration errors
var (
	ErrPreRegistrationNotFound = errors.New("pre-registration not found")
	ErrIncompleteRecord        = errors.New("pre-registration is missing fields required for promotion")
	ErrApprovedViaStatusUpdate = errors.New("approved status is only reachable through promotion")
	ErrInvalidPreRegStatus     = errors.New("invalid pre-registration status")
)

// Operation errors
var (
	ErrOperationNotFound      = errors.New("operation not found")
	ErrInvalidOperationStatus = errors.New("invalid operation status")
)
