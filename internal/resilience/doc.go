// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes a closed error taxonomy that separates transient from permanent
// failures, a retry executor with bounded exponential backoff, and circuit
// breakers for outbound calls to external content sources.
//
// The subpackages work together: apperr classifies failures, retry consumes
// that classification to decide whether another attempt is worthwhile, and
// circuitbreaker stops hammering an origin that keeps failing.
//
// Usage Example:
//
//	ex, err := retry.New(retry.CollectorConfig())
//	if err != nil {
//	    return err
//	}
//	err = ex.Do(ctx, "fetch page", func() error {
//	    return fetchPage(ctx, url)
//	})
package resilience
