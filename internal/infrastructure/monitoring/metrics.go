package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Transfer metrics
	FilesTransferred *prometheus.CounterVec
	BytesTransferred *prometheus.CounterVec
	Conflicts        *prometheus.CounterVec
	Recoveries       *prometheus.CounterVec

	// Operation metrics
	OperationDuration *prometheus.HistogramVec

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState *prometheus.GaugeVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	TotalRequests    int64   `json:"total_requests"`
	TotalErrors      int64   `json:"total_errors"`
	FilesTransferred int64   `json:"files_transferred"`
	BytesTransferred int64   `json:"bytes_transferred"`
	Conflicts        int64   `json:"conflicts"`
	Recoveries       int64   `json:"recoveries"`
	FailedRecoveries int64   `json:"failed_recoveries"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

var _ entity.Observer = (*Metrics)(nil)

// NewMetrics creates a metrics collector registered on reg. A nil reg uses
// the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsentity_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsentity_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsentity_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
			},
			[]string{"method", "path"},
		),

		// Transfer metrics
		FilesTransferred: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsentity_files_transferred_total",
				Help: "Total number of files copied or moved",
			},
			[]string{"op"},
		),
		BytesTransferred: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsentity_bytes_transferred_total",
				Help: "Total number of bytes copied or moved",
			},
			[]string{"op"},
		),
		Conflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsentity_conflicts_total",
				Help: "Total number of occupied destinations",
			},
			[]string{"status"},
		),
		Recoveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsentity_recoveries_total",
				Help: "Total number of conflict recoveries",
			},
			[]string{"status", "result"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsentity_operation_duration_seconds",
				Help:    "Entity operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"op", "status"},
		),

		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fsentity_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "fsentity_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordBreakerState records the state of the named breaker.
func (m *Metrics) RecordBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOperation records the duration of one entity operation
func (m *Metrics) RecordOperation(op, status string, duration time.Duration) {
	m.OperationDuration.WithLabelValues(op, status).Observe(duration.Seconds())
}

// Transferred implements entity.Observer.
func (m *Metrics) Transferred(op entity.Op, _, _ string, bytes int64) {
	m.FilesTransferred.WithLabelValues(string(op)).Inc()
	m.BytesTransferred.WithLabelValues(string(op)).Add(float64(bytes))

	m.mu.Lock()
	m.snapshot.FilesTransferred++
	m.snapshot.BytesTransferred += bytes
	m.mu.Unlock()
}

// Conflicted implements entity.Observer.
func (m *Metrics) Conflicted(status entity.Status, _ string) {
	m.Conflicts.WithLabelValues(status.String()).Inc()

	m.mu.Lock()
	m.snapshot.Conflicts++
	m.mu.Unlock()
}

// Recovered implements entity.Observer.
func (m *Metrics) Recovered(status entity.Status, _ string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Recoveries.WithLabelValues(status.String(), result).Inc()

	m.mu.Lock()
	m.snapshot.Recoveries++
	if err != nil {
		m.snapshot.FailedRecoveries++
	}
	m.mu.Unlock()
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
