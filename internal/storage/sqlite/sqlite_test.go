package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/sinja/internal/config"
	"github.com/aanand-mishra/sinja/internal/storage"
	"github.com/aanand-mishra/sinja/internal/types"
)

// setupTestStore opens a fresh database in a temp dir, closed on cleanup.
func setupTestStore(t *testing.T) *SQLite {
	t.Helper()
	cfg := &config.Config{StoragePath: filepath.Join(t.TempDir(), "nested", "students.db")}
	s, err := New(cfg)
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var ana = types.StudentRecord{
	ID:            1017,
	Name:          "Ana",
	LastName:      "Gómez",
	BornPlace:     "Cali",
	Degree:        "Derecho",
	Place:         "ANDES",
	ScoreAdmision: 420,
}

func TestSaveAndGet(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.SaveStudent(ana))

	got, err := s.GetStudentByID(ana.ID)
	require.NoError(t, err)
	require.Equal(t, ana, got)
}

func TestSave_Duplicate(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.SaveStudent(ana))
	err := s.SaveStudent(ana)
	require.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestGet_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetStudentByID(5)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SaveStudent(ana))

	require.NoError(t, s.DeleteStudentByID(ana.ID))

	_, err := s.GetStudentByID(ana.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, s.DeleteStudentByID(ana.ID), storage.ErrNotFound)
}
