package Schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicDependency is returned when adding or restoring an edge
	// would close a cycle in the active dependency graph.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrDuplicateDependency is returned when an active edge already exists
	// for the same ordered task pair.
	ErrDuplicateDependency = errors.New("duplicate dependency")
	// ErrSelfReference is returned when predecessor and successor are the
	// same task.
	ErrSelfReference = errors.New("task cannot depend on itself")
	// ErrGraphInconsistent means the stored active edge set contains a
	// cycle. Insert-time validation should make this unreachable; hitting
	// it is an internal fault, not a user error.
	ErrGraphInconsistent = errors.New("schedule graph inconsistent")
	// ErrTaskLocked is returned when a date edit targets a locked task
	// without an explicit lock override.
	ErrTaskLocked = errors.New("task is locked")
	// ErrNotFound is returned for unknown task/dependency/baseline ids.
	ErrNotFound = errors.New("record not found")
)

// DependencyError wraps a dependency validation failure with the offending
// edge so callers can report it.
type DependencyError struct {
	Kind              error
	PredecessorTaskID uint
	SuccessorTaskID   uint
	Msg               string
}

func (e *DependencyError) Error() string {
	base := fmt.Sprintf("%s: %d -> %d", e.Kind.Error(), e.PredecessorTaskID, e.SuccessorTaskID)
	if e.Msg != "" {
		return base + ": " + e.Msg
	}
	return base
}

func (e *DependencyError) Unwrap() error { return e.Kind }

func dependencyErr(kind error, predID, succID uint) error {
	return &DependencyError{Kind: kind, PredecessorTaskID: predID, SuccessorTaskID: succID}
}
