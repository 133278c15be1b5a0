package async

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const taskPrefix = "task_"

// ids hands out task IDs that sort in creation order, even within the same
// millisecond.
var ids = struct {
	sync.Mutex
	entropy *ulid.MonotonicEntropy
}{entropy: ulid.Monotonic(rand.Reader, 0)}

func newTaskID() string {
	ids.Lock()
	defer ids.Unlock()
	return taskPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), ids.entropy).String()
}
