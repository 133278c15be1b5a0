package entity

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// tree writes files, keyed by slash-separated path relative to root.
func tree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
}

// snapshot reads every regular file below root, keyed like tree.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			out[filepath.ToSlash(rel)] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

var errCrossDevice = errors.New("invalid cross-device link")

// crossDevice behaves like the host filesystem, except that every rename
// fails the way it does across mount points.
type crossDevice struct {
	Backend
	mu      sync.Mutex
	renames int
}

func (c *crossDevice) Rename(oldname, newname string) error {
	c.mu.Lock()
	c.renames++
	c.mu.Unlock()
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errCrossDevice}
}

type transferEvent struct {
	op    Op
	src   string
	dst   string
	bytes int64
}

type recoveryEvent struct {
	status Status
	dst    string
	err    error
}

type recordingObserver struct {
	mu         sync.Mutex
	transfers  []transferEvent
	conflicts  []Status
	recoveries []recoveryEvent
}

func (r *recordingObserver) Transferred(op Op, src, dst string, bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, transferEvent{op, src, dst, bytes})
}

func (r *recordingObserver) Conflicted(status Status, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts = append(r.conflicts, status)
}

func (r *recordingObserver) Recovered(status Status, dst string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recoveries = append(r.recoveries, recoveryEvent{status, dst, err})
}
