package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for report generation.
type Metrics struct {
	ReportsGenerated *prometheus.CounterVec // labels: format={png,svg}
	ReportFailures   *prometheus.CounterVec // labels: stage={fetch,transform,render}
	ReportDuration   prometheus.Histogram

	// Upstream chart fetch metrics.
	FetchDuration prometheus.Histogram
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}

	// Transform and render metrics.
	LabelsRewritten prometheus.Histogram
	RenderDuration  *prometheus.HistogramVec // labels: format={png,svg}
	EventsPublished *prometheus.CounterVec   // labels: outcome={success,error}
	RendererReady   prometheus.Gauge
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsGenerated,
		m.ReportFailures,
		m.ReportDuration,
		m.FetchDuration,
		m.FetchRequests,
		m.LabelsRewritten,
		m.RenderDuration,
		m.EventsPublished,
		m.RendererReady,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are not registered anywhere.
// One-shot tools that never serve /metrics use it.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tide_report",
			Name:      "reports_generated_total",
			Help:      "Reports successfully generated, by output format.",
		}, []string{"format"}),
		ReportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tide_report",
			Name:      "report_failures_total",
			Help:      "Report generation failures, by failing stage.",
		}, []string{"stage"}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tide_report",
			Name:      "report_duration_seconds",
			Help:      "Duration of a complete fetch-rewrite-render cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tide_report",
			Name:      "fetch_duration_seconds",
			Help:      "SHN chart download duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tide_report",
			Name:      "fetch_requests_total",
			Help:      "SHN chart downloads by outcome.",
		}, []string{"outcome"}),
		LabelsRewritten: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tide_report",
			Name:      "labels_rewritten",
			Help:      "Tick labels rewritten to draft values per report.",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20, 25},
		}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tide_report",
			Name:      "render_duration_seconds",
			Help:      "Report rendering duration in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"format"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tide_report",
			Name:      "events_published_total",
			Help:      "Report events published to Kafka by outcome.",
		}, []string{"outcome"}),
		RendererReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tide_report",
			Name:      "renderer_ready",
			Help:      "1 when the renderer is ready to produce reports, 0 otherwise.",
		}),
	}
}
