package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds handlers need to tell apart.
// Services wrap these with context via fmt.Errorf("...: %w", err) so the
// handler layer can match with errors.Is and map to an HTTP status.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidKeyword = errors.New("invalid keyword")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicate      = errors.New("already exists")
)

// ValidationError aggregates schema-level field failures into a single
// user-facing message list.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Fields, ", ")
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
