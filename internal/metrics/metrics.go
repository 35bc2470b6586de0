// README: Prometheus instruments for submissions, backend calls, downloads and live workspaces.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics methods are safe on a nil receiver so callers can run without instrumentation.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	submitTime  prometheus.Histogram
	backend     *prometheus.HistogramVec
	downloads   *prometheus.CounterVec
	workspaces  prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nomad",
			Name:      "submissions_total",
			Help:      "Trip submissions by outcome.",
		}, []string{"outcome"}),
		submitTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nomad",
			Name:      "submission_duration_seconds",
			Help:      "Time from submit to bot reply.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		backend: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nomad",
			Name:      "backend_request_duration_seconds",
			Help:      "Itinerary backend calls by endpoint and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nomad",
			Name:      "downloads_total",
			Help:      "Itinerary PDF exports by result.",
		}, []string{"ok"}),
		workspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nomad",
			Name:      "workspaces",
			Help:      "Live visitor workspaces.",
		}),
	}
	reg.MustRegister(
		m.submissions, m.submitTime, m.backend, m.downloads, m.workspaces,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveSubmission(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.submitTime.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBackend(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backend.WithLabelValues(endpoint, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDownload(ok bool, _ time.Duration) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
