package sim

import (
	"errors"
	"fmt"
)

// InvalidInputError reports simulation input that no algorithm can accept.
// The same input always produces the same error; there is nothing to retry.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// Invalidf creates an InvalidInputError with a formatted reason.
func Invalidf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is, or wraps, an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
