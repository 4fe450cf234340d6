// Package tracing provides OpenTelemetry tracing integration.
//
// The worker initializes a tracer provider at startup and creates spans per
// collection run and per source attempt.
//
// Example usage:
//
//	import "daily-brief/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.InitTracer("daily-brief")
//	    defer shutdown(context.Background())
//	}
//
//	func collect(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "collect-source")
//	    defer span.End()
//	    // ... collect ...
//	}
package tracing
