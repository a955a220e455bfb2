package document

import (
	"errors"
	"fmt"
)

// ErrMissingRequiredField is returned when a quote lacks a mandatory value.
var ErrMissingRequiredField = errors.New("missing required field")

// MissingFieldError names the field that made rendering impossible.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }
