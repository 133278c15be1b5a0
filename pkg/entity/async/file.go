package async

import (
	"io/fs"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

// File is the task-returning form of *entity.File. A File must not be used
// from another goroutine while one of its move or rename tasks is running.
type File struct {
	f *entity.File
	r *Runner
}

// File wraps f so that its operations run on r.
func (r *Runner) File(f *entity.File) *File {
	return &File{f: f, r: r}
}

// Blocking returns the underlying blocking handle.
func (f *File) Blocking() *entity.File {
	return f.f
}

func (f *File) Path() string {
	return f.f.Path()
}

func (f *File) Name() string {
	return f.f.Name()
}

func (f *File) Metadata() *Task[fs.FileInfo] {
	return Run(f.r, "file.metadata", f.f.Metadata)
}

// Size never fails, see entity.File.Size.
func (f *File) Size() *Task[int64] {
	return Run(f.r, "file.size", func() (int64, error) {
		return f.f.Size(), nil
	})
}

func (f *File) Permissions() *Task[fs.FileMode] {
	return Run(f.r, "file.permissions", f.f.Permissions)
}

func (f *File) ReadOnly() *Task[bool] {
	return Run(f.r, "file.read_only", f.f.ReadOnly)
}

// Parent yields nil for a root or an unreadable parent.
func (f *File) Parent() *Task[*Directory] {
	return Run(f.r, "file.parent", func() (*Directory, error) {
		return f.r.wrapDirectory(f.f.Parent()), nil
	})
}

func (f *File) ReadAll() *Task[[]byte] {
	return Run(f.r, "file.read_all", f.f.ReadAll)
}

func (f *File) ContentType() *Task[string] {
	return Run(f.r, "file.content_type", func() (string, error) {
		return f.f.ContentType(), nil
	})
}

func (f *File) Rename(name string) *Task[struct{}] {
	return run(f.r, "file.rename", func() error { return f.f.Rename(name) })
}

func (f *File) SetReadOnly(readonly bool) *Task[struct{}] {
	return run(f.r, "file.set_read_only", func() error { return f.f.SetReadOnly(readonly) })
}

func (f *File) SetPermissions(perm fs.FileMode) *Task[struct{}] {
	return run(f.r, "file.set_permissions", func() error { return f.f.SetPermissions(perm) })
}

func (f *File) Delete() *Task[struct{}] {
	return run(f.r, "file.delete", f.f.Delete)
}

func (f *File) CopyTo(dir string) *Task[struct{}] {
	return run(f.r, "file.copy_to", func() error { return f.f.CopyTo(dir) })
}

func (f *File) CopyNew(dst string) *Task[struct{}] {
	return run(f.r, "file.copy_new", func() error { return f.f.CopyNew(dst) })
}

func (f *File) MoveTo(dir string) *Task[struct{}] {
	return run(f.r, "file.move_to", func() error { return f.f.MoveTo(dir) })
}

func (f *File) MoveNew(dst string) *Task[struct{}] {
	return run(f.r, "file.move_new", func() error { return f.f.MoveNew(dst) })
}
