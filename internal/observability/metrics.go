package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics owns the application's Prometheus collectors. It is constructed
// once and injected wherever counters are needed; there are no package-level
// mutable collectors.
type Metrics struct {
	startedAt time.Time
	registry  *prometheus.Registry
	http      *fiberprometheus.FiberPrometheus

	RedisErrors     *prometheus.CounterVec
	StorageDeletes  *prometheus.CounterVec
	UploadsTotal    *prometheus.CounterVec
	UploadsRejected *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		startedAt: time.Now(),
		registry:  reg,
		RedisErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_redis_errors_total",
			Help: "Total number of Redis errors by operation type",
		}, []string{"operation"}),
		StorageDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_storage_deletes_total",
			Help: "Total number of storage delete attempts by outcome",
		}, []string{"outcome"}),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_uploads_total",
			Help: "Total number of accepted uploads by kind",
		}, []string{"kind"}),
		UploadsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_uploads_rejected_total",
			Help: "Total number of rejected uploads by reason",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.RedisErrors, m.StorageDeletes, m.UploadsTotal, m.UploadsRejected)

	m.http = fiberprometheus.NewWithRegistry(reg, serviceName, "http", "", nil)
	return m
}

// Register attaches the HTTP metrics middleware and the /metrics endpoint.
func (m *Metrics) Register(app *fiber.App) {
	m.http.RegisterAt(app, "/metrics")
	app.Use(m.http.Middleware)
}

// Uptime returns how long the process has been serving.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startedAt)
}
