package board

import (
	"errors"
	"fmt"

	"taskboard/internal/models"
)

var (
	// ErrInvalidIndex is returned when a drag-and-drop index falls outside
	// the column it addresses.
	ErrInvalidIndex = fmt.Errorf("%w: index out of range", models.ErrValidation)

	// ErrInvalidStatus is returned for an unknown board column.
	ErrInvalidStatus = fmt.Errorf("%w: unknown status", models.ErrValidation)

	// ErrOrderingField is returned when UpdateTask is asked to change status
	// or order, which only MoveTask and ReorderTask may do.
	ErrOrderingField = fmt.Errorf("%w: status and order change through MoveTask or ReorderTask", models.ErrValidation)

	ErrTimerRunning   = errors.New("timer is already running")
	ErrTimerCompleted = errors.New("timer is completed; reset it first")

	ErrRepositoryNil = errors.New("task repository is nil")
)

// PersistenceError reports that the repository rejected one or more writes
// of a single user operation. The in-memory view keeps the attempted change.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
