package sales

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel behind every InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the submitted field that could not be accepted.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
