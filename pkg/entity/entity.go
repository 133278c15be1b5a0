package entity

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// Kind tags the two entity variants.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Info is the queryable capability set.
type Info interface {
	Path() string
	// Name returns the final path component, or "" for a filesystem root.
	Name() string
	Kind() Kind
	Metadata() (fs.FileInfo, error)
	// Size never fails: any error yields 0.
	Size() int64
	Permissions() (fs.FileMode, error)
	ReadOnly() (bool, error)
	// Parent returns nil for a filesystem root or when the parent cannot
	// be opened.
	Parent() *Directory
}

// Entity is the actionable capability set shared by *File and *Directory.
type Entity interface {
	Info
	Rename(name string) error
	SetReadOnly(readonly bool) error
	SetPermissions(perm fs.FileMode) error
	// Delete removes the entity from disk. It must not be used afterwards.
	Delete() error
	CopyTo(dir string) error
	CopyNew(dst string) error
	MoveTo(dir string) error
	MoveNew(dst string) error
}

var (
	_ Entity = (*File)(nil)
	_ Entity = (*Directory)(nil)
)

// Open opens an existing file or directory.
func Open(path string, opts ...Option) (Entity, error) {
	p, err := Normalize(path)
	if err != nil {
		return nil, err
	}
	return openEntity(p, newOptions(opts))
}

func openEntity(p string, o *options) (Entity, error) {
	info, err := o.backend.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("the path '%s' does not exist: %w", p, ErrNotFound)
		}
		return nil, err
	}
	if info.IsDir() {
		return &Directory{path: p, opts: o}, nil
	}
	return &File{path: p, opts: o}, nil
}

// Entity helpers shared by both variants.

func metadata(o *options, path string) (fs.FileInfo, error) {
	return o.backend.Stat(path)
}

func permissions(o *options, path string) (fs.FileMode, error) {
	info, err := o.backend.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

func readOnly(o *options, path string) (bool, error) {
	info, err := o.backend.Stat(path)
	if err != nil {
		return false, err
	}
	return isReadOnly(info.Mode()), nil
}

// setReadOnly clears every write bit, or restores the owner's write bit.
func setReadOnly(o *options, path string, readonly bool) error {
	info, err := o.backend.Stat(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if readonly {
		perm &^= writeBits
	} else {
		perm |= ownerBit
	}
	return o.backend.Chmod(path, perm)
}

func parent(o *options, path string) *Directory {
	dir := filepath.Dir(path)
	if dir == path {
		return nil
	}
	d, err := openDirectory(dir, o)
	if err != nil {
		return nil
	}
	return d
}

// sibling validates name and returns the path next to path carrying it.
func sibling(path, name string) (string, error) {
	if name == "" || name == "." || name == ".." || len(splitPath(name)) != 1 || splitPath(name)[0] != name {
		return "", invalidPath("'%s' is not a valid name", name)
	}
	dir := filepath.Dir(path)
	if dir == path {
		return "", invalidPath("'%s' has no parent", path)
	}
	return filepath.Join(dir, name), nil
}
