package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBusy is returned inside an Outcome when the same workflow value is
// already waiting on a remote call.
var ErrBusy = errors.New("operation already in progress")

// ErrNotConfirmed means the user declined, or never gave, confirmation.
var ErrNotConfirmed = errors.New("deletion not confirmed")

// ValidationError lists the fields that failed their rule.
type ValidationError struct {
	Invalid []string
}

func (e *ValidationError) Error() string {
	return "validation failed: invalid fields: " + strings.Join(e.Invalid, ", ")
}

// ConflictError means the identifier is already registered remotely.
type ConflictError struct {
	ID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("student %d already exists", e.ID)
}
