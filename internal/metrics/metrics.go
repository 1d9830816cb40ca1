package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

// Metrics holds the collectors of the query endpoints, registered on their own
// registry so several servers can live in one process.
type Metrics struct {
	registry      *prometheus.Registry
	queryTotal    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

func New() *Metrics {
	var m = &Metrics{
		registry: prometheus.NewRegistry(),
		queryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safetynet_query_total",
			Help: "Total alert queries by operation and result",
		}, []string{"operation", "result"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "safetynet_query_duration_seconds",
			Help:    "Alert query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.queryTotal,
		m.queryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveQuery records one finished query started at start.
func (m *Metrics) ObserveQuery(operation, result string, start time.Time) {
	m.queryTotal.WithLabelValues(operation, result).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
