package health

import "errors"

// Sentinel errors for source health operations.
var (
	// ErrSourceNotFound is returned by the mutation hooks when the source
	// was never registered. Records are never created implicitly.
	ErrSourceNotFound = errors.New("source not found")

	// ErrInvalidThreshold is returned when a failure threshold below 1 is supplied.
	ErrInvalidThreshold = errors.New("failure threshold must be at least 1")

	// ErrInvalidRecoveryWindow is returned when a recovery window below one hour is supplied.
	ErrInvalidRecoveryWindow = errors.New("recovery window must be at least one hour")
)
