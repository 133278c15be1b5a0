package entity

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a path does not exist or is the wrong kind.
	ErrNotFound = fmt.Errorf("entity not found: %w", fs.ErrNotExist)

	// ErrInvalidPath is returned when a path has no parent or no file name
	// where one is required, or when it cannot be normalized.
	ErrInvalidPath = errors.New("invalid path")

	// ErrAlreadyExists is the underlying error of every conflict.
	ErrAlreadyExists = fmt.Errorf("destination exists: %w", fs.ErrExist)
)

// Status identifies the transfer a ConflictError was raised by.
type Status int

const (
	StatusNone Status = iota
	StatusCopyFile
	StatusMoveFile
	StatusCopyDirectory
	StatusMoveDirectory
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusCopyFile:
		return "copy_file"
	case StatusMoveFile:
		return "move_file"
	case StatusCopyDirectory:
		return "copy_directory"
	case StatusMoveDirectory:
		return "move_directory"
	default:
		return "none"
	}
}

// ConflictError is returned by CopyNew and MoveNew (and the CopyTo / MoveTo
// forms) when the destination already exists. It keeps a handle to the
// entity being transferred so that Recover can finish the job.
//
// For the move cases the handle is repointed to Destination once recovery
// succeeds.
type ConflictError struct {
	Err         error
	Status      Status
	File        *File
	Directory   *Directory
	Destination string
}

func (e *ConflictError) Error() string {
	return e.Err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Entity returns the entity the conflict was raised for.
func (e *ConflictError) Entity() Entity {
	switch e.Status {
	case StatusCopyFile, StatusMoveFile:
		return e.File
	case StatusCopyDirectory, StatusMoveDirectory:
		return e.Directory
	}
	return nil
}

// Recoverable reports whether the error carries enough context to retry.
func (e *ConflictError) Recoverable() bool {
	if !errors.Is(e.Err, fs.ErrExist) {
		return false
	}
	switch e.Status {
	case StatusCopyFile, StatusMoveFile:
		return e.File != nil
	case StatusCopyDirectory, StatusMoveDirectory:
		return e.Directory != nil
	}
	return false
}

// AsConflict extracts a *ConflictError from err.
func AsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// Recover performs the corrective transfer for a conflict. A nil error stays
// nil and any error that is not a recoverable conflict is returned unchanged.
func Recover(err error) error {
	if err == nil {
		return nil
	}
	conflict, ok := AsConflict(err)
	if !ok {
		return err
	}
	return conflict.Recover()
}

func alreadyExists(path string) error {
	return fmt.Errorf("the path '%s' already exists: %w", path, ErrAlreadyExists)
}

func invalidPath(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidPath)
}

// conflict builds the error for an occupied destination and reports it.
func (o *options) conflict(e *ConflictError) error {
	o.logger.Debug("destination exists",
		zap.String("status", e.Status.String()),
		zap.String("destination", e.Destination),
	)
	o.observer.Conflicted(e.Status, e.Destination)
	return e
}
