// Package entity unifies files and directories under a common capability model.
//
// An Entity is bound to an absolute, normalized path and exposes two
// capability sets:
//   - Info: path, name, metadata, size, permissions, parent lookup
//   - Entity: rename, permission changes, delete, copy, move
//
// Both *File and *Directory implement Entity.
//
// Copy and Move come in two shapes:
//   - CopyTo / MoveTo: append the entity's own name to a destination directory
//   - CopyNew / MoveNew: transfer to an exact destination path
//
// When the exact destination already exists the operation fails with a
// *ConflictError that carries the entity and the colliding destination, so
// the failure can be turned into a corrective action without re-deriving
// context:
//
//	f, err := entity.OpenFile("notes/todo.txt")
//	if err != nil {
//	    return err
//	}
//	if err := entity.Recover(f.CopyTo("/backup")); err != nil {
//	    return err
//	}
//
// Recovery is forward-only: a failure halfway through leaves whatever the
// partial transfer produced. Directories are transferred breadth-first, one
// directory's children at a time, and each file-level conflict is resolved
// in place before the walk continues.
//
// All I/O goes through a Backend. OS() is the default; Afero() adapts any
// afero.Fs. The suspend-capable forms of every operation live in package
// async.
package entity
