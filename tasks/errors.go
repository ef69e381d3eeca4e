package tasks

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a task id does not exist or is owned by a
// different user. The two cases are indistinguishable to the caller.
var ErrNotFound = errors.New("task not found")

// ValidationError reports bad input shape or size.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
