package entity

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/spf13/afero"
)

// Backend is the set of filesystem calls entities are built on.
type Backend interface {
	Stat(name string) (fs.FileInfo, error)
	// ReadDir lists the entries of a directory. Entries that vanish while
	// being listed are skipped.
	ReadDir(name string) ([]fs.FileInfo, error)
	MkdirAll(name string, perm fs.FileMode) error
	Rename(oldname, newname string) error
	Remove(name string) error
	RemoveAll(name string) error
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error
	Open(name string) (io.ReadCloser, error)
	// Create opens name for writing, creating or truncating it.
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)
	// Walk visits every entry below root, root included. fn may be called
	// from several goroutines at once.
	Walk(root string, fn func(path string, info fs.FileInfo) error) error
	// EvalSymlinks returns name with every symbolic link resolved.
	EvalSymlinks(name string) (string, error)
}

// OS returns the Backend backed by the host filesystem.
func OS() Backend {
	return osBackend{}
}

type osBackend struct{}

func (osBackend) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osBackend) ReadDir(name string) ([]fs.FileInfo, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}

	infos := make([]fs.FileInfo, 0, len(entries))
	for _, e := range entries {
		var (
			info fs.FileInfo
			err  error
		)
		// Classify symlinks by their target.
		if e.Type()&fs.ModeSymlink != 0 {
			info, err = os.Stat(filepath.Join(name, e.Name()))
			if err == nil {
				info = namedInfo{FileInfo: info, name: e.Name()}
			}
		} else {
			info, err = e.Info()
		}
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (osBackend) EvalSymlinks(name string) (string, error) {
	return filepath.EvalSymlinks(name)
}

func (osBackend) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(name, perm)
}

func (osBackend) Rename(oldname, newname string) error {
	return os.Rename(oldname, newname)
}

func (osBackend) Remove(name string) error {
	return os.Remove(name)
}

func (osBackend) RemoveAll(name string) error {
	return os.RemoveAll(name)
}

func (osBackend) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(name, mode)
}

func (osBackend) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

func (osBackend) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (osBackend) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

// Walk uses fastwalk, so fn runs concurrently.
func (osBackend) Walk(root string, fn func(path string, info fs.FileInfo) error) error {
	conf := fastwalk.Config{Follow: false}
	return fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil // Skip unreadable entries
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		return fn(p, info)
	})
}

// namedInfo keeps the link name for a followed symlink.
type namedInfo struct {
	fs.FileInfo
	name string
}

func (n namedInfo) Name() string {
	return n.name
}

// Afero adapts an afero.Fs into a Backend.
func Afero(fsys afero.Fs) Backend {
	return aferoBackend{fs: fsys}
}

type aferoBackend struct {
	fs afero.Fs
}

func (a aferoBackend) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a aferoBackend) ReadDir(name string) ([]fs.FileInfo, error) {
	return afero.ReadDir(a.fs, name)
}

// EvalSymlinks resolves links only for an afero.OsFs; other afero
// filesystems have no links to follow.
func (a aferoBackend) EvalSymlinks(name string) (string, error) {
	if _, ok := a.fs.(*afero.OsFs); ok {
		return filepath.EvalSymlinks(name)
	}
	if _, err := a.fs.Stat(name); err != nil {
		return "", err
	}
	return name, nil
}

func (a aferoBackend) MkdirAll(name string, perm fs.FileMode) error {
	return a.fs.MkdirAll(name, perm)
}

// Rename refuses to replace an existing directory. Some afero filesystems
// would silently overwrite it where the host filesystem fails.
func (a aferoBackend) Rename(oldname, newname string) error {
	if info, err := a.fs.Stat(newname); err == nil && info.IsDir() {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	return a.fs.Rename(oldname, newname)
}

func (a aferoBackend) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a aferoBackend) RemoveAll(name string) error {
	return a.fs.RemoveAll(name)
}

func (a aferoBackend) Chmod(name string, mode fs.FileMode) error {
	return a.fs.Chmod(name, mode)
}

func (a aferoBackend) Chtimes(name string, atime, mtime time.Time) error {
	return a.fs.Chtimes(name, atime, mtime)
}

func (a aferoBackend) Open(name string) (io.ReadCloser, error) {
	return a.fs.Open(name)
}

func (a aferoBackend) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	return a.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

func (a aferoBackend) Walk(root string, fn func(path string, info fs.FileInfo) error) error {
	if _, err := a.fs.Stat(root); err != nil {
		return err
	}
	return afero.Walk(a.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		return fn(p, info)
	})
}

// exists reports whether path exists. Errors other than "does not exist"
// are returned.
func (o *options) exists(path string) (bool, error) {
	_, err := o.backend.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// sameFile reports whether a and b both exist and are the same file.
func (o *options) sameFile(a, b string) bool {
	ai, err := o.backend.Stat(a)
	if err != nil {
		return false
	}
	bi, err := o.backend.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func (o *options) isDir(path string) bool {
	info, err := o.backend.Stat(path)
	return err == nil && info.IsDir()
}
