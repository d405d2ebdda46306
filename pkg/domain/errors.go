package domain

import "errors"

// Failure kinds. Every error returned by the ledger services wraps exactly one of them.
var (
	// ErrInvalidArgument is returned for malformed or rule-violating input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when a referenced entity is absent or not owned by the caller.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when an operation clashes with existing state.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned when the caller could not be authenticated.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a domain failure with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

// NewError returns an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Kind returns the failure kind of err, or nil when err is not a domain failure.
func Kind(err error) error {
	for _, kind := range []error{ErrInvalidArgument, ErrNotFound, ErrConflict, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
