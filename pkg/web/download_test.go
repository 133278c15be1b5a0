package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/files"+path, nil)
	c.Params = gin.Params{{Key: "path", Value: path}}
	h(c)
	return w
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "my report.txt")
	require.NoError(t, os.WriteFile(p, []byte("quarterly numbers"), 0o644))

	f, err := entity.OpenFile(p)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Download(c, f)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "quarterly numbers", w.Body.String())
	assert.Equal(t, "attachment; filename=my%20report.txt", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestDownloadUnreadable(t *testing.T) {
	f := entity.UncheckedFile(filepath.Join(t.TempDir(), "gone.txt"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	DownloadAs(c, f, "gone.txt")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "gone.txt")
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestEncodeFilename(t *testing.T) {
	assert.Equal(t, "a-b_c.d~e", encodeFilename("a-b_c.d~e"))
	assert.Equal(t, "r%C3%A9sum%C3%A9%20%26%20co.pdf", encodeFilename("résumé & co.pdf"))
	assert.Equal(t, "a%2Bb", encodeFilename("a+b"))
}

func TestHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.txt"), []byte("r"), 0o644))

	root, err := entity.OpenDirectory(dir)
	require.NoError(t, err)
	h := Handler(root)

	t.Run("file", func(t *testing.T) {
		w := serve(t, h, "/docs/a.txt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alpha", w.Body.String())
		assert.Equal(t, "attachment; filename=a.txt", w.Header().Get("Content-Disposition"))
	})

	t.Run("directory", func(t *testing.T) {
		w := serve(t, h, "/")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Path    string  `json:"path"`
			Entries []Entry `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, dir, body.Path)
		assert.ElementsMatch(t, []Entry{
			{Name: "docs", Kind: "directory"},
			{Name: "root.txt", Kind: "file", Size: 1},
		}, body.Entries)
	})

	t.Run("missing", func(t *testing.T) {
		w := serve(t, h, "/nope.txt")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("escape", func(t *testing.T) {
		w := serve(t, h, "/../outside.txt")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandlerSymlinkEscape(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "served")
	secret := filepath.Join(base, "private")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.MkdirAll(secret, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(secret, "key.txt"), []byte("secret"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.Symlink(secret, filepath.Join(dir, "out")))
	require.NoError(t, os.Symlink(filepath.Join(secret, "key.txt"), filepath.Join(dir, "key.txt")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")))

	root, err := entity.OpenDirectory(dir)
	require.NoError(t, err)
	h := Handler(root)

	for _, p := range []string{"/out/key.txt", "/key.txt", "/out"} {
		w := serve(t, h, p)
		assert.Equal(t, http.StatusBadRequest, w.Code, p)
		assert.NotContains(t, w.Body.String(), "secret", p)
	}

	w := serve(t, h, "/b.txt")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alpha", w.Body.String())

	w = serve(t, h, "/")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Entries []Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t, []Entry{
		{Name: "a.txt", Kind: "file", Size: 5},
		{Name: "b.txt", Kind: "file", Size: 5},
	}, body.Entries)
}
