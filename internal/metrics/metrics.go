package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the console.
type Metrics struct {
	// Product table
	ProductEdits        *prometheus.CounterVec
	IgnoredInputs       *prometheus.CounterVec
	BudgetNormalization *prometheus.CounterVec
	Products            prometheus.Gauge

	// Column configuration
	ColumnChanges *prometheus.CounterVec

	// Report view
	SeriesEdits  prometheus.Counter
	ChartRenders prometheus.Counter
	ChartHandles prometheus.Gauge

	// HTTP
	RequestDuration *prometheus.HistogramVec
	RateLimitHits   *prometheus.CounterVec
	Panics          prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all metrics on reg. A nil reg uses the
// default Prometheus registry.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	f := promauto.With(registerer)

	return &Metrics{
		ProductEdits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "product_edits_total",
				Help:      "Applied product edits by recalculation rule",
			},
			[]string{"rule"},
		),
		IgnoredInputs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ignored_inputs_total",
				Help:      "Operator inputs discarded without a state change",
			},
			[]string{"reason"},
		),
		BudgetNormalization: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_commits_total",
				Help:      "Budget editor commits by normalized mode",
			},
			[]string{"mode"},
		),
		Products: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "products",
				Help:      "Products currently held by the console",
			},
		),
		ColumnChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "column_changes_total",
				Help:      "Column configuration changes",
			},
			[]string{"action"}, // toggle, move
		),
		SeriesEdits: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "series_edits_total",
				Help:      "Applied report series cell edits",
			},
		),
		ChartRenders: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chart_renders_total",
				Help:      "Report chart renders",
			},
		),
		ChartHandles: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "chart_handles",
				Help:      "Chart handles currently bound",
			},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"method", "route", "status"},
		),
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"limiter"}, // global, client
		),
		Panics: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_panics_total",
				Help:      "Handler panics recovered",
			},
		),
		gatherer: gatherer,
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordProductEdit records an applied edit.
func (m *Metrics) RecordProductEdit(rule string) {
	m.ProductEdits.WithLabelValues(rule).Inc()
}

// RecordIgnored records a discarded input.
func (m *Metrics) RecordIgnored(reason string) {
	m.IgnoredInputs.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordBudget(mode string) {
	m.BudgetNormalization.WithLabelValues(mode).Inc()
}

func (m *Metrics) RecordColumnChange(action string) {
	m.ColumnChanges.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordSeriesEdit() {
	m.SeriesEdits.Inc()
}

// RecordRender records a chart render.
func (m *Metrics) RecordRender() {
	m.ChartRenders.Inc()
}

func (m *Metrics) SetChartHandles(n int) {
	m.ChartHandles.Set(float64(n))
}

func (m *Metrics) SetProducts(n int) {
	m.Products.Set(float64(n))
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) RecordRateLimitHit(limiter string) {
	m.RateLimitHits.WithLabelValues(limiter).Inc()
}

func (m *Metrics) RecordPanic() {
	m.Panics.Inc()
}
