// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - Collection run metrics (count, duration, per-source outcomes)
//   - Source health metrics (healthy/unhealthy/in-recovery gauges)
//   - Retry executor metrics (attempts, exhaustion)
//   - Content store metrics (stored, duplicates)
//   - Configuration fallback metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "daily-brief/internal/observability/metrics"
//
//	func collectSource(sourceType string) {
//	    // ... attempt collection ...
//	    metrics.RecordSourceCollection(sourceType, true)
//	}
package metrics
