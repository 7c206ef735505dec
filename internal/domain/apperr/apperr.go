// Package apperr defines the error taxonomy shared by the domain, the stores
// and the HTTP facade.
package apperr

import "errors"

// Error kinds. Callers classify with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
)

// Error is a classified error with a human readable message.
// Values are comparable, so a package-level sentinel built with Validation
// can be matched both by itself and by its kind.
type Error struct {
	kind error
	msg  string
}

// Error returns the message.
func (e *Error) Error() string {
	return e.msg
}

// Unwrap returns the kind so errors.Is(err, ErrValidation) works.
func (e *Error) Unwrap() error {
	return e.kind
}

// Validation returns an ErrValidation-kind error.
func Validation(msg string) error {
	return &Error{kind: ErrValidation, msg: msg}
}

// Duplicate returns an ErrDuplicateEntry-kind error.
func Duplicate(msg string) error {
	return &Error{kind: ErrDuplicateEntry, msg: msg}
}

// NotFound returns an ErrNotFound-kind error.
func NotFound(msg string) error {
	return &Error{kind: ErrNotFound, msg: msg}
}

// Forbidden returns an ErrForbidden-kind error for an authenticated caller
// acting outside their rights.
func Forbidden(msg string) error {
	return &Error{kind: ErrForbidden, msg: msg}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsDuplicate reports whether err is a duplicate entry error.
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicateEntry) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsForbidden reports whether err is a forbidden error.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
