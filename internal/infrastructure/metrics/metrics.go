// Package metrics exposes Prometheus collectors for the search service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CaseLawSearch/internal/ports"
)

const namespace = "caselaw"

// Metrics holds the search pipeline and HTTP collectors.
type Metrics struct {
	registry *prometheus.Registry

	Searches         *prometheus.CounterVec
	FetchFailures    prometheus.Counter
	ParseFailures    prometheus.Counter
	BroadenedRetries prometheus.Counter
	Exports          *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

var _ ports.SearchMetrics = (*Metrics)(nil)

// New registers every collector on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Completed searches by outcome status",
		}, []string{"status"}),
		FetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_failures_total",
			Help:      "Upstream requests that failed or timed out",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_parse_failures_total",
			Help:      "Upstream responses that could not be parsed",
		}),
		BroadenedRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadened_retries_total",
			Help:      "Searches retried with a broadened keyword",
		}),
		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Export requests by format and result",
		}, []string{"format", "result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) SearchCompleted(status string) { m.Searches.WithLabelValues(status).Inc() }
func (m *Metrics) FetchFailed()                  { m.FetchFailures.Inc() }
func (m *Metrics) ParseFailed()                  { m.ParseFailures.Inc() }
func (m *Metrics) Broadened()                    { m.BroadenedRetries.Inc() }

// Exported counts one export attempt.
func (m *Metrics) Exported(format string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Exports.WithLabelValues(format, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
