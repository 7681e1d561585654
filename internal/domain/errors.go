package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification every core operation
// reports instead of leaking storage or transport errors to callers.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidState      ErrorKind = "invalid_state"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindAuthorization     ErrorKind = "authorization_error"
	KindConflict          ErrorKind = "conflict"
	KindInternal          ErrorKind = "internal_error"
)

// Error carries a kind plus a human message. It may wrap a lower-level
// cause for logs; callers dispatch on Kind only.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidStatef(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransitionf(format string, args ...any) error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Internalf wraps an unexpected collaborator failure.
func Internalf(cause error, format string, args ...any) error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind from any error in the chain, defaulting to
// internal for errors the core did not classify.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool { return err != nil && KindOf(err) == kind }
