package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics for FearIndex. A nil *Registry is
// valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	FetchDuration *prometheus.HistogramVec
	CacheLookups  *prometheus.CounterVec
	PipelineRuns  *prometheus.CounterVec
	RowsComputed  prometheus.Gauge
	HTTPRequests  *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fearindex_fetch_duration_seconds",
				Help:    "Duration of upstream price fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"symbol", "result"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fearindex_cache_lookups_total",
				Help: "Fetch cache lookups by result (hit, miss, expired)",
			},
			[]string{"result"},
		),
		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fearindex_pipeline_runs_total",
				Help: "Computation passes by outcome",
			},
			[]string{"outcome"},
		),
		RowsComputed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fearindex_rows_computed",
				Help: "Rows in the most recent computed dataset",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fearindex_http_requests_total",
				Help: "Dashboard HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
	r.reg.MustRegister(
		r.FetchDuration,
		r.CacheLookups,
		r.PipelineRuns,
		r.RowsComputed,
		r.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler exposes the registry for scraping.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *Registry) ObserveFetch(symbol string, err error, took time.Duration) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.FetchDuration.WithLabelValues(symbol, result).Observe(took.Seconds())
}

func (r *Registry) CacheLookup(result string) {
	if r == nil {
		return
	}
	r.CacheLookups.WithLabelValues(result).Inc()
}

func (r *Registry) PipelineRun(outcome string, rows int) {
	if r == nil {
		return
	}
	r.PipelineRuns.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		r.RowsComputed.Set(float64(rows))
	}
}

func (r *Registry) ObserveRequest(route string, code int) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
