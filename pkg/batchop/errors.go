package batchop

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFileSet indicates no files matched the given filters.
	ErrEmptyFileSet = errors.New("no files matched")
	// ErrAborted indicates the user declined the confirmation prompt.
	ErrAborted = errors.New("aborted")
	// ErrNothingToUndo indicates the undo ledger has no reversible
	// invocation for this context.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// NotUndoableError indicates the last invocation was recorded as
// irreversible, e.g. because its backups were skipped.
type NotUndoableError struct {
	Cmdline string
}

func (e *NotUndoableError) Error() string {
	return fmt.Sprintf("the last command cannot be undone: %q", e.Cmdline)
}

// PathCollisionError indicates a rename or move would produce a target path
// that already exists, or that two sources map to the same target. The
// operation is rejected before any file is touched.
type PathCollisionError struct {
	Path string
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("target path already exists or is claimed twice: %s", e.Path)
}

// NotADirectoryError indicates a move destination exists but is not a
// directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("destination is not a directory: %s", e.Path)
}
