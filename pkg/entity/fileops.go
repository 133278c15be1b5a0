package entity

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644

	writeBits fs.FileMode = 0o222
	ownerBit  fs.FileMode = 0o200
)

func isReadOnly(mode fs.FileMode) bool {
	return mode.Perm()&writeBits == 0
}

// copyFile copies the bytes of src to dst, creating dst's parents. The
// source mode and modification time are carried over.
func (o *options) copyFile(src, dst string) (int64, error) {
	info, err := o.backend.Stat(src)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("copy '%s': is a directory", src)
	}
	if err := o.backend.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return 0, err
	}

	in, err := o.backend.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := o.backend.Create(dst, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}

	// Best effort, the copy itself already succeeded.
	_ = o.backend.Chtimes(dst, time.Now(), info.ModTime())
	return n, nil
}

// relocateFile moves src to dst. An atomic rename is tried first when both
// paths share a root; any rename failure falls back to copy then delete.
func (o *options) relocateFile(src, dst string) (int64, error) {
	var size int64
	if info, err := o.backend.Stat(src); err == nil {
		size = info.Size()
	}

	if sameRoot(src, dst) {
		err := o.backend.Rename(src, dst)
		if err == nil {
			return size, nil
		}
		o.logger.Debug("rename failed, copying instead",
			zap.String("path", src),
			zap.String("destination", dst),
			zap.Error(err),
		)
	}

	n, err := o.copyFile(src, dst)
	if err != nil {
		return n, err
	}
	if err := o.remove(src); err != nil {
		return n, err
	}
	return n, nil
}

// remove deletes path, relaxing a read-only mode first. Directories are
// removed recursively.
func (o *options) remove(path string) error {
	info, err := o.backend.Stat(path)
	if err != nil {
		return err
	}
	if isReadOnly(info.Mode()) {
		if err := o.backend.Chmod(path, info.Mode().Perm()|ownerBit); err != nil {
			return err
		}
	}
	if !info.IsDir() {
		return o.backend.Remove(path)
	}

	err = o.backend.RemoveAll(path)
	if err == nil || !errors.Is(err, fs.ErrPermission) {
		return err
	}
	// A read-only directory somewhere below blocks removal of its entries.
	if err := o.relaxTree(path); err != nil {
		return err
	}
	return o.backend.RemoveAll(path)
}

func (o *options) relaxTree(root string) error {
	return o.backend.Walk(root, func(p string, info fs.FileInfo) error {
		if info.IsDir() && isReadOnly(info.Mode()) {
			return o.backend.Chmod(p, info.Mode().Perm()|ownerBit)
		}
		return nil
	})
}
