package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for fetch metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors shared by providers and dashboards.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Fetches        *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	FilterFallback *prometheus.CounterVec
	RowsReturned   prometheus.Histogram
	Sessions       prometheus.Gauge
	SessionEvicted prometheus.Counter
	StaleDiscarded prometheus.Counter
}

// New registers the collectors with r.
func New(r prometheus.Registerer) *Metrics {
	return &Metrics{
		Fetches: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "dimboard_fetches_total",
			Help: "Total number of data provider fetches by domain and outcome.",
		}, []string{"domain", "outcome"}),
		FetchDuration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dimboard_fetch_duration_seconds",
			Help:    "Time taken by the data provider to resolve a request.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		FilterFallback: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "dimboard_filter_fallbacks_total",
			Help: "Requests whose request-time filters matched no row and were answered unfiltered.",
		}, []string{"domain"}),
		RowsReturned: promauto.With(r).NewHistogram(prometheus.HistogramOpts{
			Name:    "dimboard_rows_returned",
			Help:    "Number of rows returned per successful fetch.",
			Buckets: []float64{0, 5, 10, 15, 20, 50, 100},
		}),
		Sessions: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Name: "dimboard_sessions",
			Help: "Number of live dashboard sessions.",
		}),
		SessionEvicted: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "dimboard_sessions_evicted_total",
			Help: "Dashboard sessions evicted because the store was full.",
		}),
		StaleDiscarded: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "dimboard_stale_results_discarded_total",
			Help: "Fetch results dropped because a newer state change superseded them.",
		}),
	}
}

// ObserveFetch records one fetch outcome.
func (m *Metrics) ObserveFetch(domain, outcome string) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(domain, outcome).Inc()
}

// ObserveDuration records provider latency in seconds.
func (m *Metrics) ObserveDuration(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(provider).Observe(seconds)
}

// ObserveFallback records a request-time filter fallback.
func (m *Metrics) ObserveFallback(domain string) {
	if m == nil {
		return
	}
	m.FilterFallback.WithLabelValues(domain).Inc()
}

// ObserveRows records the size of a successful result.
func (m *Metrics) ObserveRows(n int) {
	if m == nil {
		return
	}
	m.RowsReturned.Observe(float64(n))
}

// SetSessions records the live session count.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}

// ObserveEviction records one evicted session.
func (m *Metrics) ObserveEviction() {
	if m == nil {
		return
	}
	m.SessionEvicted.Inc()
}

// ObserveStale records a discarded superseded result.
func (m *Metrics) ObserveStale() {
	if m == nil {
		return
	}
	m.StaleDiscarded.Inc()
}
