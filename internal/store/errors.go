package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrConflict = errors.New("conflict")
)

// ConflictError reports a unique-constraint violation on Field.
// It matches ErrConflict under errors.Is.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "conflict"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) Unwrap() error { return e.Err }

// Conflict wraps a driver error as a ConflictError on field.
func Conflict(field string, err error) error {
	return &ConflictError{Field: field, Err: err}
}
