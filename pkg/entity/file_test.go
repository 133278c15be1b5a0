package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenKinds(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "a.txt"), "a")

	d, err := OpenDirectory(dir + "/./")
	require.NoError(t, err)
	assert.Equal(t, dir, d.Path())
	assert.Equal(t, KindDirectory, d.Kind())

	f, err := OpenFile(file)
	require.NoError(t, err)
	assert.Equal(t, file, f.Path())
	assert.Equal(t, "a.txt", f.Name())

	_, err = OpenDirectory(file)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = OpenFile(dir)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = OpenFile(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)

	e, err := Open(file)
	require.NoError(t, err)
	assert.IsType(t, &File{}, e)

	e, err = Open(dir)
	require.NoError(t, err)
	assert.IsType(t, &Directory{}, e)
}

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()

	f, err := CreateFile(filepath.Join(dir, "x", "y", "new.txt"))
	require.NoError(t, err)
	assert.FileExists(t, f.Path())
	assert.Equal(t, int64(0), f.Size())

	writeFile(t, f.Path(), "content")
	_, err = CreateFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "", readFile(t, f.Path()), "create truncates")

	_, err = CreateFile("/")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestFileCopyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "src", "data.bin"), "\x00\x01hello\xff")
	obs := &recordingObserver{}

	f, err := OpenFile(src, WithObserver(obs))
	require.NoError(t, err)

	dst := filepath.Join(dir, "out", "nested", "copy.bin")
	require.NoError(t, f.CopyNew(dst))

	assert.Equal(t, readFile(t, src), readFile(t, dst))
	assert.Equal(t, src, f.Path(), "copy does not repoint")
	assert.Equal(t, "\x00\x01hello\xff", readFile(t, src))

	require.Len(t, obs.transfers, 1)
	assert.Equal(t, OpCopy, obs.transfers[0].op)
	assert.Equal(t, int64(8), obs.transfers[0].bytes)
}

func TestFileCopyTo(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "a")
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	f, err := OpenFile(src)
	require.NoError(t, err)
	require.NoError(t, f.CopyTo(target))
	assert.Equal(t, "a", readFile(t, filepath.Join(target, "a.txt")))
}

func TestFileCopyConflict(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "first")
	dst := filepath.Join(dir, "b.txt")
	obs := &recordingObserver{}

	f, err := OpenFile(src, WithObserver(obs))
	require.NoError(t, err)
	require.NoError(t, Recover(f.CopyNew(dst)))

	writeFile(t, src, "second")
	err = f.CopyNew(dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, err, os.ErrExist)

	conflict, ok := AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, StatusCopyFile, conflict.Status)
	assert.Equal(t, dst, conflict.Destination)
	assert.Same(t, f, conflict.Entity())
	assert.True(t, conflict.Recoverable())
	assert.Equal(t, "first", readFile(t, dst), "conflict leaves destination untouched")

	require.NoError(t, Recover(err))
	assert.Equal(t, "second", readFile(t, dst))
	assert.Equal(t, []Status{StatusCopyFile}, obs.conflicts)
	require.Len(t, obs.recoveries, 1)
	assert.NoError(t, obs.recoveries[0].err)
}

func TestFileTransferOntoItself(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "payload")
	alias := filepath.Join(dir, "alias.txt")
	require.NoError(t, os.Symlink(src, alias))

	f, err := OpenFile(src)
	require.NoError(t, err)

	for _, dst := range []string{src, dir + "/./a.txt", alias} {
		assert.ErrorIs(t, Recover(f.CopyNew(dst)), ErrInvalidPath, dst)
		assert.ErrorIs(t, Recover(f.MoveNew(dst)), ErrInvalidPath, dst)
	}
	assert.Equal(t, src, f.Path())
	assert.Equal(t, "payload", readFile(t, src))
}

func TestFileRecoverOntoParent(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "payload")

	f, err := OpenFile(src)
	require.NoError(t, err)

	err = f.CopyNew(dir)
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, Recover(err), ErrInvalidPath)

	err = f.MoveNew(dir)
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, Recover(err), ErrInvalidPath)

	assert.Equal(t, "payload", readFile(t, src))
}

func TestFileMove(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "payload")

	f, err := OpenFile(src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "deep", "moved.txt")
	require.NoError(t, f.MoveNew(dst))
	assert.Equal(t, dst, f.Path())
	assert.NoFileExists(t, src)
	assert.Equal(t, "payload", readFile(t, dst))
}

func TestFileMoveCrossDevice(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "payload")
	backend := &crossDevice{Backend: OS()}

	f, err := OpenFile(src, WithBackend(backend))
	require.NoError(t, err)

	dst := filepath.Join(dir, "other", "a.txt")
	require.NoError(t, f.MoveNew(dst))
	assert.Equal(t, 1, backend.renames)
	assert.Equal(t, dst, f.Path())
	assert.NoFileExists(t, src)
	assert.Equal(t, "payload", readFile(t, dst))
}

func TestFileMoveConflictRepoints(t *testing.T) {
	for _, tt := range []struct {
		name    string
		backend func() Backend
	}{
		{"rename", OS},
		{"copy and delete", func() Backend { return &crossDevice{Backend: OS()} }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeFile(t, filepath.Join(dir, "a.txt"), "new")
			dst := writeFile(t, filepath.Join(dir, "b.txt"), "old")

			f, err := OpenFile(src, WithBackend(tt.backend()))
			require.NoError(t, err)

			err = f.MoveNew(dst)
			conflict, ok := AsConflict(err)
			require.True(t, ok)
			assert.Equal(t, StatusMoveFile, conflict.Status)
			assert.Equal(t, src, f.Path())

			require.NoError(t, conflict.Recover())
			assert.Equal(t, dst, f.Path())
			assert.NoFileExists(t, src)
			assert.Equal(t, "new", readFile(t, dst))
		})
	}
}

func TestFileRenameKeepsExtension(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "b.txt"), "b")

	f, err := OpenFile(src)
	require.NoError(t, err)
	require.NoError(t, f.Rename("c"))
	assert.Equal(t, filepath.Join(dir, "c.txt"), f.Path())
	assert.FileExists(t, f.Path())
	assert.NoFileExists(t, src)

	require.NoError(t, f.Rename("d.md"))
	assert.Equal(t, filepath.Join(dir, "d.txt"), f.Path())

	assert.ErrorIs(t, f.Rename("x/y"), ErrInvalidPath)
	assert.ErrorIs(t, f.Rename(".."), ErrInvalidPath)
	assert.ErrorIs(t, f.Rename(""), ErrInvalidPath)
}

func TestFileReadOnly(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "a")

	f, err := OpenFile(src)
	require.NoError(t, err)

	ro, err := f.ReadOnly()
	require.NoError(t, err)
	assert.False(t, ro)

	require.NoError(t, f.SetReadOnly(true))
	ro, err = f.ReadOnly()
	require.NoError(t, err)
	assert.True(t, ro)
	perm, err := f.Permissions()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o444), perm)

	require.NoError(t, f.SetReadOnly(false))
	perm, err = f.Permissions()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), perm)

	require.NoError(t, f.SetPermissions(0o600))
	perm, err = f.Permissions()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), perm)
}

func TestFileDeleteReadOnly(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "a")

	f, err := OpenFile(src)
	require.NoError(t, err)
	require.NoError(t, f.SetReadOnly(true))
	require.NoError(t, f.Delete())
	assert.NoFileExists(t, src)
}

func TestFileFailSoftQueries(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.txt"), "12345")

	f, err := OpenFile(src)
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.Size())

	parent := f.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, dir, parent.Path())

	require.NoError(t, os.Remove(src))
	assert.Equal(t, int64(0), f.Size())

	root, err := OpenDirectory("/")
	require.NoError(t, err)
	assert.Nil(t, root.Parent())
	assert.Equal(t, "", root.Name())
}

func TestFileContent(t *testing.T) {
	dir := t.TempDir()
	png := writeFile(t, filepath.Join(dir, "image"), "\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	txt := writeFile(t, filepath.Join(dir, "notes"), "plain words")

	f, err := OpenFile(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType())

	f, err = OpenFile(txt)
	require.NoError(t, err)
	assert.Contains(t, f.ContentType(), "text/plain")
	data, err := f.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "plain words", string(data))
	assert.Equal(t, "notes", f.DisplayName())
}

func TestUncheckedFile(t *testing.T) {
	f := UncheckedFile("/does/not/exist.txt")
	assert.Equal(t, "/does/not/exist.txt", f.Path())
	assert.Equal(t, int64(0), f.Size())
}
