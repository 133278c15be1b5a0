package entity

import (
	"fmt"

	"go.uber.org/zap"
)

// Recover performs the transfer that raised the conflict, overwriting what
// is in the way:
//
//   - StatusCopyFile: the destination is removed and the file copied again.
//   - StatusMoveFile: the destination is removed and the file moved again.
//   - StatusCopyDirectory: the tree is merged into the destination, files
//     present on both sides are replaced.
//   - StatusMoveDirectory: a rename is tried first, then the same merge as
//     the copy case followed by removal of the source.
//
// After a successful move the carried File or Directory points at
// Destination. An error that is not Recoverable is returned unchanged.
func (e *ConflictError) Recover() error {
	if !e.Recoverable() {
		return e
	}
	// Clearing a destination that holds the source would delete it.
	if src := e.Entity().Path(); isWithin(src, e.Destination) {
		return invalidPath("'%s' is or contains the source '%s'", e.Destination, src)
	}

	var (
		o   *options
		err error
	)
	switch e.Status {
	case StatusCopyFile:
		o = e.File.opts
		err = e.recoverCopyFile()
	case StatusMoveFile:
		o = e.File.opts
		err = e.recoverMoveFile()
	case StatusCopyDirectory:
		o = e.Directory.opts
		err = transfer(e.Directory, e.Destination, modeCopy)
	case StatusMoveDirectory:
		o = e.Directory.opts
		err = e.recoverMoveDirectory()
	}

	o.observer.Recovered(e.Status, e.Destination, err)
	if err != nil {
		o.logger.Warn("recovery failed",
			zap.String("status", e.Status.String()),
			zap.String("destination", e.Destination),
			zap.Error(err),
		)
		return fmt.Errorf("recover %s at '%s': %w", e.Status, e.Destination, err)
	}
	o.logger.Debug("recovered",
		zap.String("status", e.Status.String()),
		zap.String("destination", e.Destination),
	)
	return nil
}

func (e *ConflictError) recoverCopyFile() error {
	f := e.File
	if err := f.opts.remove(e.Destination); err != nil {
		return err
	}
	n, err := f.opts.copyFile(f.path, e.Destination)
	if err != nil {
		return err
	}
	f.opts.observer.Transferred(OpCopy, f.path, e.Destination, n)
	return nil
}

func (e *ConflictError) recoverMoveFile() error {
	f := e.File
	if err := f.opts.remove(e.Destination); err != nil {
		return err
	}
	n, err := f.opts.relocateFile(f.path, e.Destination)
	if err != nil {
		return err
	}
	f.opts.observer.Transferred(OpMove, f.path, e.Destination, n)
	f.path = e.Destination
	return nil
}

func (e *ConflictError) recoverMoveDirectory() error {
	d := e.Directory
	if err := d.opts.backend.Rename(d.path, e.Destination); err != nil {
		if err := transfer(d, e.Destination, modeMove); err != nil {
			return err
		}
	}
	d.path = e.Destination
	return nil
}
