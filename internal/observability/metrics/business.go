package metrics

import "time"

// RecordCollectionRun records the result and duration of one collection run.
// Success here is the batch-level flag: per-source failures still count as a
// successful run.
func RecordCollectionRun(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	CollectionRunsTotal.WithLabelValues(result).Inc()
	CollectionRunDuration.Observe(duration.Seconds())
}

// RecordSourceCollection records the outcome of one per-source attempt.
func RecordSourceCollection(sourceType string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	SourcesCollectedTotal.WithLabelValues(sourceType, result).Inc()
}

// RecordSourcesSkipped records sources excluded from a run while in recovery.
func RecordSourcesSkipped(count int) {
	if count > 0 {
		SourcesSkippedTotal.Add(float64(count))
	}
}

// UpdateSourceHealth updates the population health gauges after a sweep.
func UpdateSourceHealth(healthy, unhealthy, inRecovery int) {
	SourcesHealthy.Set(float64(healthy))
	SourcesUnhealthy.Set(float64(unhealthy))
	SourcesInRecovery.Set(float64(inRecovery))
}

// RecordRetryAttempt records one retry of the named operation.
func RecordRetryAttempt(operation string) {
	RetryAttemptsTotal.WithLabelValues(operation).Inc()
}

// RecordRetryExhausted records an operation that failed every attempt.
func RecordRetryExhausted(operation string) {
	RetryExhaustedTotal.WithLabelValues(operation).Inc()
}

// RecordContentStored records a content item written to the store.
func RecordContentStored(sourceType string) {
	ContentItemsStoredTotal.WithLabelValues(sourceType).Inc()
}

// RecordContentDuplicate records a content item skipped as already stored.
func RecordContentDuplicate(sourceType string) {
	ContentItemsDuplicateTotal.WithLabelValues(sourceType).Inc()
}

// RecordConfigFallback records an invalid configuration value that was
// replaced by its default.
func RecordConfigFallback(field string) {
	ConfigFallbacksTotal.WithLabelValues(field).Inc()
}
