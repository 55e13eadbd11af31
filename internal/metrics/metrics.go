package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	tradesLoaded     prometheus.Gauge
	cascadeRuns      prometheus.Counter
	cascadeDuration  prometheus.Histogram
	cascadeGroups    *prometheus.CounterVec
	thresholdsTotal  *prometheus.CounterVec
	drawdownSearches *prometheus.CounterVec
	drawdownDuration prometheus.Histogram
	archiveUploads   *prometheus.CounterVec
	rowsExported     *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		tradesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradesift_trades_loaded",
				Help: "Number of trades loaded from the active input",
			},
		),

		cascadeRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tradesift_cascade_runs_total",
				Help: "Total number of filter cascade runs completed",
			},
		),

		cascadeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradesift_cascade_duration_seconds",
				Help:    "Filter cascade run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		cascadeGroups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesift_cascade_groups_total",
				Help: "Total number of groups tested per cascade stage",
			},
			[]string{"stage", "status"},
		),

		thresholdsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesift_thresholds_total",
				Help: "Total number of thresholds analyzed",
			},
			[]string{"status"},
		),

		drawdownSearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesift_drawdown_searches_total",
				Help: "Total number of drawdown searches",
			},
			[]string{"status"},
		),

		drawdownDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradesift_drawdown_duration_seconds",
				Help:    "Drawdown search duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),

		archiveUploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesift_archive_uploads_total",
				Help: "Total number of files uploaded to the archive",
			},
			[]string{"status"},
		),

		rowsExported: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesift_db_rows_exported_total",
				Help: "Total number of result rows exported to the database",
			},
			[]string{"table"},
		),
	}

	reg.MustRegister(r.tradesLoaded)
	reg.MustRegister(r.cascadeRuns)
	reg.MustRegister(r.cascadeDuration)
	reg.MustRegister(r.cascadeGroups)
	reg.MustRegister(r.thresholdsTotal)
	reg.MustRegister(r.drawdownSearches)
	reg.MustRegister(r.drawdownDuration)
	reg.MustRegister(r.archiveUploads)
	reg.MustRegister(r.rowsExported)

	return r
}

// SetTradesLoaded sets the size of the active trade list.
func (r *Registry) SetTradesLoaded(count int) {
	r.tradesLoaded.Set(float64(count))
}

// RecordCascade records a filter cascade completion.
func (r *Registry) RecordCascade(duration float64) {
	r.cascadeRuns.Inc()
	r.cascadeDuration.Observe(duration)
}

// RecordCascadeGroups records one stage's group counts for one threshold.
func (r *Registry) RecordCascadeGroups(stage string, input, surviving int) {
	r.cascadeGroups.WithLabelValues(stage, "survived").Add(float64(surviving))
	r.cascadeGroups.WithLabelValues(stage, "dropped").Add(float64(input - surviving))
}

// RecordThreshold records a threshold outcome ("survived" or "abandoned").
func (r *Registry) RecordThreshold(status string) {
	r.thresholdsTotal.WithLabelValues(status).Inc()
}

// RecordDrawdown records a drawdown search completion.
func (r *Registry) RecordDrawdown(status string, duration float64) {
	r.drawdownSearches.WithLabelValues(status).Inc()
	r.drawdownDuration.Observe(duration)
}

// RecordArchiveUploads records archive upload attempts.
func (r *Registry) RecordArchiveUploads(status string, files int) {
	r.archiveUploads.WithLabelValues(status).Add(float64(files))
}

// RecordRowsExported records rows written to a database table.
func (r *Registry) RecordRowsExported(table string, rows int) {
	r.rowsExported.WithLabelValues(table).Add(float64(rows))
}
