package async

import (
	"io/fs"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

// Directory is the task-returning form of *entity.Directory. A Directory
// must not be used from another goroutine while one of its move or rename
// tasks is running.
type Directory struct {
	d *entity.Directory
	r *Runner
}

// Directory wraps d so that its operations run on r.
func (r *Runner) Directory(d *entity.Directory) *Directory {
	return r.wrapDirectory(d)
}

func (r *Runner) wrapDirectory(d *entity.Directory) *Directory {
	if d == nil {
		return nil
	}
	return &Directory{d: d, r: r}
}

// Blocking returns the underlying blocking handle.
func (d *Directory) Blocking() *entity.Directory {
	return d.d
}

func (d *Directory) Path() string {
	return d.d.Path()
}

func (d *Directory) Name() string {
	return d.d.Name()
}

func (d *Directory) Metadata() *Task[fs.FileInfo] {
	return Run(d.r, "directory.metadata", d.d.Metadata)
}

// Size sums the tree below the directory and never fails.
func (d *Directory) Size() *Task[int64] {
	return Run(d.r, "directory.size", func() (int64, error) {
		return d.d.Size(), nil
	})
}

func (d *Directory) Permissions() *Task[fs.FileMode] {
	return Run(d.r, "directory.permissions", d.d.Permissions)
}

func (d *Directory) ReadOnly() *Task[bool] {
	return Run(d.r, "directory.read_only", d.d.ReadOnly)
}

func (d *Directory) Parent() *Task[*Directory] {
	return Run(d.r, "directory.parent", func() (*Directory, error) {
		return d.r.wrapDirectory(d.d.Parent()), nil
	})
}

func (d *Directory) Children() *Task[[]string] {
	return Run(d.r, "directory.children", d.d.Children)
}

func (d *Directory) Files() *Task[[]*File] {
	return Run(d.r, "directory.files", func() ([]*File, error) {
		files, err := d.d.Files()
		if err != nil {
			return nil, err
		}
		return d.r.wrapFiles(files), nil
	})
}

func (d *Directory) Directories() *Task[[]*Directory] {
	return Run(d.r, "directory.directories", func() ([]*Directory, error) {
		dirs, err := d.d.Directories()
		if err != nil {
			return nil, err
		}
		out := make([]*Directory, len(dirs))
		for i, sub := range dirs {
			out[i] = d.r.wrapDirectory(sub)
		}
		return out, nil
	})
}

func (d *Directory) Glob(pattern string) *Task[[]*File] {
	return Run(d.r, "directory.glob", func() ([]*File, error) {
		files, err := d.d.Glob(pattern)
		if err != nil {
			return nil, err
		}
		return d.r.wrapFiles(files), nil
	})
}

func (d *Directory) Rename(name string) *Task[struct{}] {
	return run(d.r, "directory.rename", func() error { return d.d.Rename(name) })
}

func (d *Directory) SetReadOnly(readonly bool) *Task[struct{}] {
	return run(d.r, "directory.set_read_only", func() error { return d.d.SetReadOnly(readonly) })
}

func (d *Directory) SetPermissions(perm fs.FileMode) *Task[struct{}] {
	return run(d.r, "directory.set_permissions", func() error { return d.d.SetPermissions(perm) })
}

func (d *Directory) Delete() *Task[struct{}] {
	return run(d.r, "directory.delete", d.d.Delete)
}

func (d *Directory) CopyTo(dir string) *Task[struct{}] {
	return run(d.r, "directory.copy_to", func() error { return d.d.CopyTo(dir) })
}

func (d *Directory) CopyNew(dst string) *Task[struct{}] {
	return run(d.r, "directory.copy_new", func() error { return d.d.CopyNew(dst) })
}

func (d *Directory) MoveTo(dir string) *Task[struct{}] {
	return run(d.r, "directory.move_to", func() error { return d.d.MoveTo(dir) })
}

func (d *Directory) MoveNew(dst string) *Task[struct{}] {
	return run(d.r, "directory.move_new", func() error { return d.d.MoveNew(dst) })
}

func (r *Runner) wrapFiles(files []*entity.File) []*File {
	out := make([]*File, len(files))
	for i, f := range files {
		out[i] = r.File(f)
	}
	return out
}
