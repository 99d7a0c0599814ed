package services

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is matched by every InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDatabaseNotConfigured is returned by place lookups when no database is connected.
	ErrDatabaseNotConfigured = errors.New("database not configured")
	// ErrPlaceNotFound is returned when a place id does not exist.
	ErrPlaceNotFound = errors.New("place not found")
)

// InvalidInputError names the offending marker or, with Index -1, the
// offending map parameter.
type InvalidInputError struct {
	Index int
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid input: parameter %s has invalid value %v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid input: marker %d has invalid %s %v", e.Index, e.Field, e.Value)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
