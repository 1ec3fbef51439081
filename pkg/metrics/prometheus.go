// Package metrics provides Prometheus metrics for the squadrank pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric of the process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline volume
	rowsLoaded     prometheus.Counter
	rowsWritten    prometheus.Counter
	coercedColumns prometheus.Counter
	playersByRole  *prometheus.GaugeVec
	eligible       *prometheus.GaugeVec
	undefined      *prometheus.CounterVec
	enrichedRows   prometheus.Counter

	// Pipeline timings
	stageDuration *prometheus.HistogramVec
	runDuration   prometheus.Histogram
	lastRunUnix   prometheus.Gauge

	// Errors
	errorsTotal *prometheus.CounterVec

	// Leaderboards
	leaderboardEntries *prometheus.GaugeVec
	queryLatency       prometheus.Histogram

	// HTTP (serve mode)
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "squadrank",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all metric definitions
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_loaded_total",
		Help:        "Player rows read from the input snapshot",
		ConstLabels: m.constLabels,
	})

	m.rowsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_written_total",
		Help:        "Player rows written to the ranked output table",
		ConstLabels: m.constLabels,
	})

	m.coercedColumns = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "coerced_columns_total",
		Help:        "Text columns accepted as numeric by the coercion layer",
		ConstLabels: m.constLabels,
	})

	m.playersByRole = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_by_role",
		Help:        "Players per classified role of the last run",
		ConstLabels: m.constLabels,
	}, []string{"role"})

	m.eligible = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "eligible_players",
		Help:        "Rank-eligible players per role and ranking kind of the last run",
		ConstLabels: m.constLabels,
	}, []string{"role", "kind"})

	m.undefined = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "undefined_values_total",
		Help:        "Derived cells left undefined, by column",
		ConstLabels: m.constLabels,
	}, []string{"column"})

	m.enrichedRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "enriched_rows_total",
		Help:        "Base rows matched by an enrichment record",
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of each pipeline stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_milliseconds",
		Help:        "Duration of a full pipeline run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_unix",
		Help:        "Unix time of the last completed run",
		ConstLabels: m.constLabels,
	})

	m.errorsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "type"})

	m.leaderboardEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_entries",
		Help:        "Entries per leaderboard",
		ConstLabels: m.constLabels,
	}, []string{"board"})

	m.queryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "repository_query_latency_milliseconds",
		Help:        "Leaderboard read latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRowsLoaded adds n loaded input rows.
func (m *Manager) RecordRowsLoaded(n int) { m.rowsLoaded.Add(float64(n)) }

// RecordRowsWritten adds n written output rows.
func (m *Manager) RecordRowsWritten(n int) { m.rowsWritten.Add(float64(n)) }

// RecordCoercedColumns adds n columns converted to numeric.
func (m *Manager) RecordCoercedColumns(n int) { m.coercedColumns.Add(float64(n)) }

// SetPlayersByRole sets the player count of a role ("none" for unclassified).
func (m *Manager) SetPlayersByRole(role string, n int) {
	m.playersByRole.WithLabelValues(role).Set(float64(n))
}

// SetEligible sets the eligible cohort size of a role for a ranking kind.
func (m *Manager) SetEligible(role, kind string, n int) {
	m.eligible.WithLabelValues(role, kind).Set(float64(n))
}

// RecordUndefined adds n undefined cells for a derived column.
func (m *Manager) RecordUndefined(column string, n int) {
	if n > 0 {
		m.undefined.WithLabelValues(column).Add(float64(n))
	}
}

// RecordEnrichedRows adds n rows matched by enrichment.
func (m *Manager) RecordEnrichedRows(n int) { m.enrichedRows.Add(float64(n)) }

// ObserveStage records how long a stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(float64(d.Microseconds()) / 1000)
}

// ObserveRun records a completed run.
func (m *Manager) ObserveRun(d time.Duration, finished time.Time) {
	m.runDuration.Observe(float64(d.Microseconds()) / 1000)
	m.lastRunUnix.Set(float64(finished.Unix()))
}

// RecordError counts an error by component and type.
func (m *Manager) RecordError(component, errorType string) {
	m.errorsTotal.WithLabelValues(component, errorType).Inc()
}

// SetLeaderboardEntries sets the number of entries on a leaderboard.
func (m *Manager) SetLeaderboardEntries(board string, n int) {
	m.leaderboardEntries.WithLabelValues(board).Set(float64(n))
}

// ObserveQuery records leaderboard read latency.
func (m *Manager) ObserveQuery(d time.Duration) {
	m.queryLatency.Observe(float64(d.Microseconds()) / 1000)
}

// RecordHTTPRequest records one served HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Package-level helpers backed by the global manager.

// RecordRowsLoaded adds n loaded input rows.
func RecordRowsLoaded(n int) { globalManager.RecordRowsLoaded(n) }

// RecordRowsWritten adds n written output rows.
func RecordRowsWritten(n int) { globalManager.RecordRowsWritten(n) }

// RecordCoercedColumns adds n columns converted to numeric.
func RecordCoercedColumns(n int) { globalManager.RecordCoercedColumns(n) }

// SetPlayersByRole sets the player count of a role.
func SetPlayersByRole(role string, n int) { globalManager.SetPlayersByRole(role, n) }

// SetEligible sets the eligible cohort size of a role for a ranking kind.
func SetEligible(role, kind string, n int) { globalManager.SetEligible(role, kind, n) }

// RecordUndefined adds n undefined cells for a derived column.
func RecordUndefined(column string, n int) { globalManager.RecordUndefined(column, n) }

// RecordEnrichedRows adds n rows matched by enrichment.
func RecordEnrichedRows(n int) { globalManager.RecordEnrichedRows(n) }

// ObserveStage records how long a stage took.
func ObserveStage(stage string, d time.Duration) { globalManager.ObserveStage(stage, d) }

// ObserveRun records a completed run.
func ObserveRun(d time.Duration, finished time.Time) { globalManager.ObserveRun(d, finished) }

// RecordError counts an error by component and type.
func RecordError(component, errorType string) { globalManager.RecordError(component, errorType) }

// SetLeaderboardEntries sets the number of entries on a leaderboard.
func SetLeaderboardEntries(board string, n int) { globalManager.SetLeaderboardEntries(board, n) }

// ObserveQuery records leaderboard read latency.
func ObserveQuery(d time.Duration) { globalManager.ObserveQuery(d) }

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current registry to path in the text exposition
// format read by the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
