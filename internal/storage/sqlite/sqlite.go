// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank-registered driver comes from mattn/go-sqlite3; its error type
// is also used to recognise primary-key conflicts.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/sinja/internal/config"
	"github.com/aanand-mishra/sinja/internal/storage"
	"github.com/aanand-mishra/sinja/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath, creating its directory
// and the students table if needed.
func New(cfg *config.Config) (*SQLite, error) {
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// id is supplied by the caller, not generated, so no AUTOINCREMENT.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id             INTEGER PRIMARY KEY,
			name           TEXT    NOT NULL,
			last_name      TEXT    NOT NULL,
			born_place     TEXT    NOT NULL,
			degree         TEXT    NOT NULL,
			place          TEXT    NOT NULL,
			score_admision INTEGER NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// SaveStudent inserts a new row. Placeholders keep user input out of the
// SQL text.
func (s *SQLite) SaveStudent(student types.StudentRecord) error {
	stmt, err := s.Db.Prepare(`
		INSERT INTO students (id, name, last_name, born_place, degree, place, score_admision)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("SaveStudent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		student.ID,
		student.Name,
		student.LastName,
		student.BornPlace,
		student.Degree,
		student.Place,
		student.ScoreAdmision,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("SaveStudent: id %d: %w", student.ID, storage.ErrDuplicate)
		}
		return fmt.Errorf("SaveStudent: exec: %w", err)
	}

	return nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.StudentRecord, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, name, last_name, born_place, degree, place, score_admision
		FROM students WHERE id = ? LIMIT 1
	`)
	if err != nil {
		return types.StudentRecord{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.StudentRecord
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.LastName,
		&student.BornPlace,
		&student.Degree,
		&student.Place,
		&student.ScoreAdmision,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.StudentRecord{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.StudentRecord{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}

	return nil
}
