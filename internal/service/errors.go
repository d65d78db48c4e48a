package service

import (
	"errors"
	"fmt"
)

// ValidationError is a locally detected bad input. It is raised before
// any remote call, so a failed validation never moves cache state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalid(field, value string) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("has invalid value %q", value)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
