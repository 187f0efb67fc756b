package applications

import (
	"errors"
	"strings"
)

var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrAlreadyApplied = errors.New("you have already applied with this email")
	ErrUnknownKind    = errors.New("unknown application kind")
	ErrInvalidStatus  = errors.New("status must be pending, accepted or rejected")
	ErrNotFound       = errors.New("application not found")
)

// MissingFieldsError names the fields that were empty after trimming.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}
