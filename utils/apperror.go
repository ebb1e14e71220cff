package utils

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned when the acting identity lacks the capability
// an operation requires. Services raise it before touching the store.
var ErrNotAuthorized = errors.New("not authorized")

// ValidationError rejects an input before any store call is made.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
