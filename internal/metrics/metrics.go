// Package metrics exports Prometheus metrics for HTTP traffic and the summarize, share and mail flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meetnotes"

// Result label values.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

// Metrics owns a registry and the collectors registered on it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	summarizeDuration *prometheus.HistogramVec
	sharesCreated     prometheus.Counter
	mailSent          *prometheus.CounterVec
}

// New creates the collectors on registry. A nil registry gets a fresh one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		summarizeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_duration_seconds",
				Help:      "Summarization latency in seconds, including the provider call.",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "result"},
		),
		sharesCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shares_created_total",
				Help:      "Total number of share links created.",
			},
		),
		mailSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mail_sent_total",
				Help:      "Summary emails by submission result.",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.requests,
		m.summarizeDuration,
		m.sharesCreated,
		m.mailSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterShareGauge exposes the number of stored shares, read on every scrape.
func (m *Metrics) RegisterShareGauge(count func() float64) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "share_entries",
			Help:      "Number of shares held in memory.",
		},
		count,
	))
}

func (m *Metrics) ObserveRequest(method, path string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveSummarize(provider, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.summarizeDuration.WithLabelValues(provider, result).Observe(elapsed.Seconds())
}

func (m *Metrics) IncSharesCreated() {
	if m == nil {
		return
	}
	m.sharesCreated.Inc()
}

func (m *Metrics) IncMail(result string) {
	if m == nil {
		return
	}
	m.mailSent.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
