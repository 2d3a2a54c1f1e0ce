package todo

import "errors"

// Validation errors
var (
	ErrEmptyTask   = errors.New("task description cannot be empty")
	ErrTaskTooLong = errors.New("task description cannot exceed 255 characters")
	ErrInvalidLine = errors.New("invalid line number")
	ErrInvalidPath = errors.New("path is outside the project root")
)

// Business logic errors
var (
	// ErrRootUnavailable indicates the project root itself cannot be
	// scanned. Unlike per-file errors this aborts the whole run.
	ErrRootUnavailable = errors.New("project root cannot be scanned")

	// ErrEntryNotFound indicates no TODO block starts at the given
	// (file, line) identity.
	ErrEntryNotFound = errors.New("no TODO block at that location")

	// ErrAlreadyDone indicates the block is already marked done.
	ErrAlreadyDone = errors.New("TODO block is already marked done")
)
