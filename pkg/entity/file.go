package entity

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const unknownName = "unknown_name"

// File is an Entity bound to a regular file.
type File struct {
	path string
	opts *options
}

// OpenFile opens an existing file. Missing paths and directories fail with
// ErrNotFound.
func OpenFile(path string, opts ...Option) (*File, error) {
	p, err := Normalize(path)
	if err != nil {
		return nil, err
	}
	return openFile(p, newOptions(opts))
}

func openFile(p string, o *options) (*File, error) {
	info, err := o.backend.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("the path '%s' does not exist: %w", p, ErrNotFound)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("the path '%s' is a directory, not a file: %w", p, ErrNotFound)
	}
	return &File{path: p, opts: o}, nil
}

// CreateFile creates (or truncates) a file, creating missing parent
// directories.
func CreateFile(path string, opts ...Option) (*File, error) {
	p, err := Normalize(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(p)
	if dir == p {
		return nil, invalidPath("'%s' has no parent", p)
	}

	o := newOptions(opts)
	if !o.isDir(dir) {
		if err := o.backend.MkdirAll(dir, dirPerm); err != nil {
			return nil, err
		}
	}
	w, err := o.backend.Create(p, filePerm)
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &File{path: p, opts: o}, nil
}

// UncheckedFile binds a File to path without normalizing it or checking that
// it exists. The caller guarantees path is an absolute, normalized path to an
// existing regular file, typically because it was just produced by a
// directory listing.
func UncheckedFile(path string, opts ...Option) *File {
	return &File{path: path, opts: newOptions(opts)}
}

func (f *File) String() string {
	return f.path
}

// Path returns the absolute path of the file.
func (f *File) Path() string {
	return f.path
}

// Name returns the final path component.
func (f *File) Name() string {
	return baseName(f.path)
}

// DisplayName returns the name used when presenting the file to a user.
func (f *File) DisplayName() string {
	if name := f.Name(); name != "" {
		return name
	}
	return unknownName
}

// Kind returns KindFile.
func (f *File) Kind() Kind {
	return KindFile
}

func (f *File) Metadata() (fs.FileInfo, error) {
	return metadata(f.opts, f.path)
}

// Size returns the length of the file in bytes, or 0 if it cannot be read.
func (f *File) Size() int64 {
	info, err := f.Metadata()
	if err != nil {
		return 0
	}
	return info.Size()
}

func (f *File) Permissions() (fs.FileMode, error) {
	return permissions(f.opts, f.path)
}

func (f *File) ReadOnly() (bool, error) {
	return readOnly(f.opts, f.path)
}

func (f *File) Parent() *Directory {
	return parent(f.opts, f.path)
}

// RealPath returns the file's path with every symbolic link resolved.
func (f *File) RealPath() (string, error) {
	return f.opts.backend.EvalSymlinks(f.path)
}

// Open opens the file for reading. The caller closes it.
func (f *File) Open() (io.ReadCloser, error) {
	return f.opts.backend.Open(f.path)
}

// ReadAll returns the full contents of the file.
func (f *File) ReadAll() ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// ContentType detects the MIME type of the file from its content, falling
// back to its extension and then to text/plain.
func (f *File) ContentType() string {
	if r, err := f.opts.backend.Open(f.path); err == nil {
		mtype, err := mimetype.DetectReader(r)
		r.Close()
		if err == nil && !mtype.Is("application/octet-stream") {
			return mtype.String()
		}
	}
	if t := mime.TypeByExtension(filepath.Ext(f.path)); t != "" {
		return t
	}
	return "text/plain"
}

// Rename renames the file in place. The current extension is kept, so
// renaming "/a/b.txt" to "c" yields "/a/c.txt".
func (f *File) Rename(name string) error {
	newPath, err := sibling(f.path, name)
	if err != nil {
		return err
	}
	if ext, ok := extension(f.Name()); ok {
		newPath = filepath.Join(filepath.Dir(newPath), setExtension(filepath.Base(newPath), ext))
	}
	if err := f.opts.backend.Rename(f.path, newPath); err != nil {
		return err
	}
	f.path = newPath
	return nil
}

func (f *File) SetReadOnly(readonly bool) error {
	return setReadOnly(f.opts, f.path, readonly)
}

func (f *File) SetPermissions(perm fs.FileMode) error {
	return f.opts.backend.Chmod(f.path, perm)
}

// Delete removes the file, even when it is read-only.
func (f *File) Delete() error {
	return f.opts.remove(f.path)
}

// CopyTo copies the file into dir under its own name.
func (f *File) CopyTo(dir string) error {
	dst, err := withFileName(f.Name(), dir)
	if err != nil {
		return err
	}
	return f.CopyNew(dst)
}

// CopyNew copies the file to exactly dst. If dst exists a *ConflictError
// with StatusCopyFile is returned.
func (f *File) CopyNew(dst string) error {
	dst, err := f.destination(dst)
	if err != nil {
		return err
	}
	exists, err := f.opts.exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return f.opts.conflict(&ConflictError{
			Err:         alreadyExists(dst),
			Status:      StatusCopyFile,
			File:        f,
			Destination: dst,
		})
	}

	n, err := f.opts.copyFile(f.path, dst)
	if err != nil {
		return err
	}
	f.opts.observer.Transferred(OpCopy, f.path, dst, n)
	return nil
}

// destination normalizes dst and rejects the file itself, including another
// name for it such as a hard link.
func (f *File) destination(dst string) (string, error) {
	dst, err := Normalize(dst)
	if err != nil {
		return "", err
	}
	if dst == f.path || f.opts.sameFile(f.path, dst) {
		return "", invalidPath("'%s' is the source itself", dst)
	}
	return dst, nil
}

// MoveTo moves the file into dir under its own name.
func (f *File) MoveTo(dir string) error {
	dst, err := withFileName(f.Name(), dir)
	if err != nil {
		return err
	}
	return f.MoveNew(dst)
}

// MoveNew moves the file to exactly dst and repoints f. If dst exists a
// *ConflictError with StatusMoveFile is returned.
func (f *File) MoveNew(dst string) error {
	dst, err := f.destination(dst)
	if err != nil {
		return err
	}
	exists, err := f.opts.exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return f.opts.conflict(&ConflictError{
			Err:         alreadyExists(dst),
			Status:      StatusMoveFile,
			File:        f,
			Destination: dst,
		})
	}

	dir := filepath.Dir(dst)
	if dir == dst {
		return invalidPath("'%s' has no parent", dst)
	}
	if err := f.opts.backend.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	n, err := f.opts.relocateFile(f.path, dst)
	if err != nil {
		return err
	}
	f.opts.observer.Transferred(OpMove, f.path, dst, n)
	f.opts.logger.Debug("moved file", zap.String("path", f.path), zap.String("destination", dst))
	f.path = dst
	return nil
}
