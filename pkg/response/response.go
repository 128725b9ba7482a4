package response

import (
	"errors"
	"fmt"
)

// Error is a failure that carries the HTTP status it is reported with.
// Cause is kept for logs and never shown to clients.
type Error struct {
	Code  int
	Err   error
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err, e.Cause)
	}
	return e.Err.Error()
}

// Message is the client-facing text, without the cause.
func (e *Error) Message() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any Error with the same status and message, so a wrapped
// sentinel still compares equal to the bare one.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

// Wrap attaches cause to a sentinel created by NewError. Anything else is
// wrapped with fmt.Errorf.
func Wrap(sentinel error, cause error) error {
	var e *Error
	if !errors.As(sentinel, &e) {
		return fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &Error{Code: e.Code, Err: e.Err, Cause: cause}
}
