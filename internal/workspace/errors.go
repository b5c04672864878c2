package workspace

import "errors"

// Sentinel errors, matched with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// Is allows errors.Is() to match against ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
