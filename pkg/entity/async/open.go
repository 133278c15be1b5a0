package async

import (
	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

// OpenFile opens an existing file on the default Runner.
func OpenFile(path string, opts ...entity.Option) *Task[*File] {
	return defaultRunner.OpenFile(path, opts...)
}

// OpenDirectory opens an existing directory on the default Runner.
func OpenDirectory(path string, opts ...entity.Option) *Task[*Directory] {
	return defaultRunner.OpenDirectory(path, opts...)
}

// CreateFile creates a file on the default Runner.
func CreateFile(path string, opts ...entity.Option) *Task[*File] {
	return defaultRunner.CreateFile(path, opts...)
}

// CreateDirectory creates a directory on the default Runner.
func CreateDirectory(path string, opts ...entity.Option) *Task[*Directory] {
	return defaultRunner.CreateDirectory(path, opts...)
}

// Recover runs the recovery for err on the default Runner.
func Recover(err error) *Task[struct{}] {
	return defaultRunner.Recover(err)
}

func (r *Runner) OpenFile(path string, opts ...entity.Option) *Task[*File] {
	return Run(r, "file.open", func() (*File, error) {
		f, err := entity.OpenFile(path, opts...)
		if err != nil {
			return nil, err
		}
		return r.File(f), nil
	})
}

func (r *Runner) OpenDirectory(path string, opts ...entity.Option) *Task[*Directory] {
	return Run(r, "directory.open", func() (*Directory, error) {
		d, err := entity.OpenDirectory(path, opts...)
		if err != nil {
			return nil, err
		}
		return r.Directory(d), nil
	})
}

func (r *Runner) CreateFile(path string, opts ...entity.Option) *Task[*File] {
	return Run(r, "file.create", func() (*File, error) {
		f, err := entity.CreateFile(path, opts...)
		if err != nil {
			return nil, err
		}
		return r.File(f), nil
	})
}

func (r *Runner) CreateDirectory(path string, opts ...entity.Option) *Task[*Directory] {
	return Run(r, "directory.create", func() (*Directory, error) {
		d, err := entity.CreateDirectory(path, opts...)
		if err != nil {
			return nil, err
		}
		return r.Directory(d), nil
	})
}

// Recover returns a task performing entity.Recover(err). The task fails with
// err itself when err is not a recoverable conflict.
func (r *Runner) Recover(err error) *Task[struct{}] {
	return run(r, "recover", func() error { return entity.Recover(err) })
}
