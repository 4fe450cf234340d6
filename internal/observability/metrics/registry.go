// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection run metrics track whole-run behavior of the worker
var (
	// CollectionRunsTotal counts collection runs by batch result
	CollectionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_runs_total",
			Help: "Total number of collection runs",
		},
		[]string{"result"}, // result: success, failure
	)

	// CollectionRunDuration measures wall-clock duration of one collection run
	CollectionRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collection_run_duration_seconds",
			Help:    "Wall-clock duration of a collection run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)

	// SourcesCollectedTotal counts per-source collection outcomes
	SourcesCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sources_collected_total",
			Help: "Total number of per-source collection attempts",
		},
		[]string{"source_type", "result"},
	)

	// SourcesSkippedTotal counts sources skipped because they were in recovery
	SourcesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sources_skipped_total",
			Help: "Total number of sources skipped while in recovery",
		},
	)
)

// Source health metrics track the tracker's view of the source population
var (
	// SourcesHealthy tracks the number of currently healthy sources
	SourcesHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_healthy",
			Help: "Number of healthy sources",
		},
	)

	// SourcesUnhealthy tracks the number of sources at or over the failure threshold
	SourcesUnhealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_unhealthy",
			Help: "Number of unhealthy sources",
		},
	)

	// SourcesInRecovery tracks the number of sources inside their recovery window
	SourcesInRecovery = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_in_recovery",
			Help: "Number of sources inside their recovery window",
		},
	)
)

// Retry metrics track the retry executor
var (
	// RetryAttemptsTotal counts retry attempts by operation
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts after a retryable failure",
		},
		[]string{"operation"},
	)

	// RetryExhaustedTotal counts operations that failed every attempt
	RetryExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_exhausted_total",
			Help: "Total number of operations that exhausted all retry attempts",
		},
		[]string{"operation"},
	)
)

// Content metrics track persisted collection output
var (
	// ContentItemsStoredTotal counts content items written to the store
	ContentItemsStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_items_stored_total",
			Help: "Total number of content items stored",
		},
		[]string{"source_type"},
	)

	// ContentItemsDuplicateTotal counts items skipped as already stored
	ContentItemsDuplicateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_items_duplicate_total",
			Help: "Total number of content items skipped as duplicates",
		},
		[]string{"source_type"},
	)
)

// Configuration metrics track environment configuration health
var (
	// ConfigFallbacksTotal counts invalid configuration values replaced by defaults
	ConfigFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_fallbacks_total",
			Help: "Total number of configuration values that fell back to defaults",
		},
		[]string{"field"},
	)
)
