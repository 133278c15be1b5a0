package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

func TestObserverCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.Transferred(entity.OpCopy, "/a", "/b", 10)
	m.Transferred(entity.OpCopy, "/c", "/d", 5)
	m.Transferred(entity.OpMove, "/e", "/f", 1)
	m.Conflicted(entity.StatusCopyFile, "/b")
	m.Recovered(entity.StatusCopyFile, "/b", nil)
	m.Recovered(entity.StatusMoveDirectory, "/x", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesTransferred.WithLabelValues("copy")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.BytesTransferred.WithLabelValues("copy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesTransferred.WithLabelValues("move")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conflicts.WithLabelValues("copy_file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recoveries.WithLabelValues("copy_file", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recoveries.WithLabelValues("move_directory", "error")))

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.FilesTransferred)
	assert.Equal(t, int64(16), s.BytesTransferred)
	assert.Equal(t, int64(1), s.Conflicts)
	assert.Equal(t, int64(2), s.Recoveries)
	assert.Equal(t, int64(1), s.FailedRecoveries)
}

func TestObserverWiredIntoEntity(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("abc"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	f, err := entity.OpenFile(src, entity.WithObserver(m))
	require.NoError(t, err)

	timer := NewTimer(m, "copy")
	err = entity.Recover(f.CopyNew(dst))
	timer.Stop(err)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conflicts.WithLabelValues("copy_file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recoveries.WithLabelValues("copy_file", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BytesTransferred.WithLabelValues("copy")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/files/*path", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for _, p := range []string{"/files/a", "/files/b", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/files/*path", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
}

func TestBreakerState(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordBreakerState("storage", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("storage")))
	m.RecordBreakerState("storage", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("storage")))
}

func TestTimerNil(t *testing.T) {
	var timer *Timer
	assert.NotPanics(t, func() { timer.Stop(nil) })
	assert.NotPanics(t, func() { NewTimer(nil, "noop").Stop(errors.New("x")) })
}
