package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the forecast service.
type Metrics struct {
	ForecastsTotal   *prometheus.CounterVec   // labels: outcome={success,fetch_error,shape_error}
	ForecastDuration prometheus.Histogram
	PointFetches     *prometheus.CounterVec   // labels: source, outcome={success,error}
	PointFetchTime   *prometheus.HistogramVec // labels: source
	SourceCache      *prometheus.CounterVec   // labels: result={hit,miss,error}
	ReportsPublished *prometheus.CounterVec   // labels: outcome={success,error}
	LastMeanS        *prometheus.GaugeVec     // labels: city
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ForecastsTotal,
		m.ForecastDuration,
		m.PointFetches,
		m.PointFetchTime,
		m.SourceCache,
		m.ReportsPublished,
		m.LastMeanS,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ForecastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rhythm",
			Name:      "forecasts_total",
			Help:      "Forecast pipeline runs by outcome.",
		}, []string{"outcome"}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rhythm",
			Name:      "forecast_duration_seconds",
			Help:      "Duration of a complete forecast pipeline run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PointFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rhythm",
			Name:      "point_fetches_total",
			Help:      "Grid point fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		PointFetchTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rhythm",
			Name:      "point_fetch_duration_seconds",
			Help:      "Grid point fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source"}),
		SourceCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rhythm",
			Name:      "source_cache_total",
			Help:      "Sample source cache lookups by result.",
		}, []string{"result"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rhythm",
			Name:      "reports_published_total",
			Help:      "Reports written to the report topic by outcome.",
		}, []string{"outcome"}),
		LastMeanS: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rhythm",
			Name:      "last_mean_s",
			Help:      "Mean S of the most recent refreshed report per city.",
		}, []string{"city"}),
	}
}
