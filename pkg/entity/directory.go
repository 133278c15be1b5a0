package entity

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Directory is an Entity bound to a directory.
type Directory struct {
	path string
	opts *options
}

// OpenDirectory opens an existing directory. Missing paths and files fail
// with ErrNotFound.
func OpenDirectory(path string, opts ...Option) (*Directory, error) {
	p, err := Normalize(path)
	if err != nil {
		return nil, err
	}
	return openDirectory(p, newOptions(opts))
}

func openDirectory(p string, o *options) (*Directory, error) {
	if !o.isDir(p) {
		return nil, fmt.Errorf("the path '%s' is not a directory or does not exist: %w", p, ErrNotFound)
	}
	return &Directory{path: p, opts: o}, nil
}

// CreateDirectory creates a directory and any missing parents.
func CreateDirectory(path string, opts ...Option) (*Directory, error) {
	p, err := Normalize(path)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	if err := o.backend.MkdirAll(p, dirPerm); err != nil {
		return nil, err
	}
	return &Directory{path: p, opts: o}, nil
}

// UncheckedDirectory binds a Directory to path without normalizing it or
// checking that it exists. The caller guarantees path is an absolute,
// normalized path to an existing directory.
func UncheckedDirectory(path string, opts ...Option) *Directory {
	return &Directory{path: path, opts: newOptions(opts)}
}

func (d *Directory) String() string {
	return d.path
}

// Path returns the absolute path of the directory.
func (d *Directory) Path() string {
	return d.path
}

// Name returns the final path component, or "" for a filesystem root.
func (d *Directory) Name() string {
	return baseName(d.path)
}

// Kind returns KindDirectory.
func (d *Directory) Kind() Kind {
	return KindDirectory
}

func (d *Directory) Metadata() (fs.FileInfo, error) {
	return metadata(d.opts, d.path)
}

// Size returns the total size of every file below the directory. Entries
// that cannot be read are not counted.
func (d *Directory) Size() int64 {
	var total atomic.Int64
	err := d.opts.backend.Walk(d.path, func(_ string, info fs.FileInfo) error {
		if info.Mode().IsRegular() {
			total.Add(info.Size())
		}
		return nil
	})
	if err != nil {
		return 0
	}
	return total.Load()
}

func (d *Directory) Permissions() (fs.FileMode, error) {
	return permissions(d.opts, d.path)
}

func (d *Directory) ReadOnly() (bool, error) {
	return readOnly(d.opts, d.path)
}

func (d *Directory) Parent() *Directory {
	return parent(d.opts, d.path)
}

// Children returns the paths of every entry in the directory.
func (d *Directory) Children() ([]string, error) {
	return d.list(func(fs.FileInfo) bool { return true })
}

// Files returns the regular files directly inside the directory.
func (d *Directory) Files() ([]*File, error) {
	paths, err := d.list(func(info fs.FileInfo) bool { return info.Mode().IsRegular() })
	if err != nil {
		return nil, err
	}
	files := make([]*File, len(paths))
	for i, p := range paths {
		files[i] = &File{path: p, opts: d.opts}
	}
	return files, nil
}

// Directories returns the directories directly inside the directory.
func (d *Directory) Directories() ([]*Directory, error) {
	paths, err := d.list(func(info fs.FileInfo) bool { return info.IsDir() })
	if err != nil {
		return nil, err
	}
	dirs := make([]*Directory, len(paths))
	for i, p := range paths {
		dirs[i] = &Directory{path: p, opts: d.opts}
	}
	return dirs, nil
}

func (d *Directory) list(keep func(fs.FileInfo) bool) ([]string, error) {
	infos, err := d.opts.backend.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(infos))
	for _, info := range infos {
		if keep(info) {
			paths = append(paths, filepath.Join(d.path, info.Name()))
		}
	}
	return paths, nil
}

// Lookup opens the entry at rel, a path relative to the directory. Paths
// that escape the directory, by ".." or through a symbolic link, fail with
// ErrInvalidPath.
func (d *Directory) Lookup(rel string) (Entity, error) {
	p := filepath.Join(d.path, rel)
	if !isWithin(p, d.path) {
		return nil, invalidPath("'%s' is outside '%s'", rel, d.path)
	}

	e, err := openEntity(p, d.opts)
	if err != nil {
		return nil, err
	}
	ok, err := d.Encloses(e)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalidPath("'%s' resolves outside '%s'", rel, d.path)
	}
	return e, nil
}

// RealPath returns the directory's path with every symbolic link resolved.
func (d *Directory) RealPath() (string, error) {
	return d.opts.backend.EvalSymlinks(d.path)
}

// Encloses reports whether e lies inside the directory once symbolic links
// on both sides are resolved.
func (d *Directory) Encloses(e Info) (bool, error) {
	root, err := d.RealPath()
	if err != nil {
		return false, err
	}
	p, err := d.opts.backend.EvalSymlinks(e.Path())
	if err != nil {
		return false, err
	}
	return isWithin(p, root), nil
}

// Glob returns the files below the directory whose slash-separated path
// relative to the directory matches pattern. Patterns support "**".
func (d *Directory) Glob(pattern string) ([]*File, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("bad pattern '%s': %w", pattern, doublestar.ErrBadPattern)
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	err := d.opts.backend.Walk(d.path, func(p string, info fs.FileInfo) error {
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(d.path, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			mu.Lock()
			matches = append(matches, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	files := make([]*File, len(matches))
	for i, p := range matches {
		files[i] = &File{path: p, opts: d.opts}
	}
	return files, nil
}

// Rename renames the directory in place.
func (d *Directory) Rename(name string) error {
	newPath, err := sibling(d.path, name)
	if err != nil {
		return err
	}
	if err := d.opts.backend.Rename(d.path, newPath); err != nil {
		return err
	}
	d.path = newPath
	return nil
}

func (d *Directory) SetReadOnly(readonly bool) error {
	return setReadOnly(d.opts, d.path, readonly)
}

func (d *Directory) SetPermissions(perm fs.FileMode) error {
	return d.opts.backend.Chmod(d.path, perm)
}

// Delete removes the directory and everything below it, even when it is
// read-only.
func (d *Directory) Delete() error {
	return d.opts.remove(d.path)
}

// CopyTo copies the directory into dir under its own name.
func (d *Directory) CopyTo(dir string) error {
	dst, err := withFileName(d.Name(), dir)
	if err != nil {
		return err
	}
	return d.CopyNew(dst)
}

// CopyNew copies the whole tree to exactly dst. If dst exists a
// *ConflictError with StatusCopyDirectory is returned.
func (d *Directory) CopyNew(dst string) error {
	dst, err := d.destination(dst)
	if err != nil {
		return err
	}
	exists, err := d.opts.exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return d.opts.conflict(&ConflictError{
			Err:         alreadyExists(dst),
			Status:      StatusCopyDirectory,
			Directory:   d,
			Destination: dst,
		})
	}
	return transfer(d, dst, modeCopy)
}

// MoveTo moves the directory into dir under its own name.
func (d *Directory) MoveTo(dir string) error {
	dst, err := withFileName(d.Name(), dir)
	if err != nil {
		return err
	}
	return d.MoveNew(dst)
}

// MoveNew moves the whole tree to exactly dst and repoints d. An atomic
// rename is tried first, then a tree transfer. If dst exists a
// *ConflictError with StatusMoveDirectory is returned.
func (d *Directory) MoveNew(dst string) error {
	dst, err := d.destination(dst)
	if err != nil {
		return err
	}
	exists, err := d.opts.exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return d.opts.conflict(&ConflictError{
			Err:         alreadyExists(dst),
			Status:      StatusMoveDirectory,
			Directory:   d,
			Destination: dst,
		})
	}

	if err := d.opts.backend.Rename(d.path, dst); err != nil {
		d.opts.logger.Debug("rename failed, transferring tree",
			zap.String("path", d.path),
			zap.String("destination", dst),
			zap.Error(err),
		)
		if err := transfer(d, dst, modeMove); err != nil {
			return err
		}
	}
	d.path = dst
	return nil
}

// destination normalizes dst and rejects the directory itself and
// destinations inside its tree, which a walk would otherwise keep
// discovering.
func (d *Directory) destination(dst string) (string, error) {
	dst, err := Normalize(dst)
	if err != nil {
		return "", err
	}
	if dst == d.path {
		return "", invalidPath("'%s' is the source itself", dst)
	}
	if isWithin(dst, d.path) {
		return "", invalidPath("'%s' is inside '%s'", dst, d.path)
	}
	return dst, nil
}
