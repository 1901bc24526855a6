// Package storage defines the Storage interface, the contract the stub
// student API needs from a database backend.
//
// Handlers depend only on this interface, so tests can swap in any
// implementation and the SQLite backend stays an implementation detail.
package storage

import (
	"errors"

	"github.com/aanand-mishra/sinja/internal/types"
)

var (
	// ErrNotFound is returned when no student has the requested id.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicate is returned when saving an id that is already stored.
	ErrDuplicate = errors.New("student already exists")
)

// Storage is the database contract. Records are created once and never
// updated; there is deliberately no update method.
type Storage interface {
	// SaveStudent inserts a record under its caller-supplied id.
	// Returns ErrDuplicate if the id is taken.
	SaveStudent(student types.StudentRecord) error

	// GetStudentByID fetches a single student. Returns ErrNotFound if absent.
	GetStudentByID(id int64) (types.StudentRecord, error)

	// DeleteStudentByID removes a student. Returns ErrNotFound if absent.
	DeleteStudentByID(id int64) error
}
