// Package apperr defines the closed failure taxonomy used by the collection
// pipeline. Every failure is either retryable (expected to self-resolve:
// network trouble, throttling, slow responses) or permanent (will not improve
// on retry: bad credentials, malformed input, missing configuration).
//
// Errors that carry no classification default to permanent, so unknown bugs
// are surfaced instead of being masked behind retries.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Kind is the failure classification of an Error.
type Kind int

const (
	// KindNetwork covers connection-level failures (refused, reset, unreachable).
	KindNetwork Kind = iota

	// KindRateLimit covers throttling by an external service.
	KindRateLimit

	// KindTimeout covers operations that exceeded their time budget.
	KindTimeout

	// KindAuthentication covers credential and authorization failures.
	KindAuthentication

	// KindValidation covers malformed or rejected input.
	KindValidation

	// KindConfiguration covers missing or invalid settings.
	KindConfiguration
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRateLimit:
		return "rate_limit"
	case KindTimeout:
		return "timeout"
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	}
	return "unknown"
}

// Retryable reports whether failures of this kind are expected to self-resolve.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetwork, KindRateLimit, KindTimeout:
		return true
	}
	return false
}

// Error is a classified failure. It wraps an underlying cause when one exists.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return e.Kind.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Network wraps err as a retryable network failure.
func Network(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// RateLimit wraps err as a retryable rate-limit failure.
func RateLimit(op string, err error) *Error {
	return &Error{Kind: KindRateLimit, Op: op, Err: err}
}

// Timeout wraps err as a retryable timeout failure.
func Timeout(op string, err error) *Error {
	return &Error{Kind: KindTimeout, Op: op, Err: err}
}

// Authentication wraps err as a permanent authentication failure.
func Authentication(op string, err error) *Error {
	return &Error{Kind: KindAuthentication, Op: op, Err: err}
}

// Validation wraps err as a permanent validation failure.
func Validation(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// Configuration wraps err as a permanent configuration failure.
func Configuration(op string, err error) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRetryable classifies err as retryable (transient) or permanent.
//
// Classification order:
//  1. Taxonomy errors carry their own kind.
//  2. Context cancellation and deadline expiry are never retried.
//  3. Well-known transport failures (net timeouts, ECONNREFUSED, ECONNRESET,
//     ETIMEDOUT, ENETUNREACH) are retryable even when raised by a collaborator
//     library rather than this taxonomy.
//  4. HTTP-shaped errors: 429, 503 and 504 are retryable, every other
//     4xx/5xx is permanent.
//  5. Anything unrecognized defaults to permanent (fail-closed).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind.Retryable()
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	return false
}

// FromHTTPStatus converts a non-2xx HTTP status into a classified error.
// Returns nil for 2xx statuses.
func FromHTTPStatus(op string, statusCode int, message string) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	httpErr := &HTTPError{StatusCode: statusCode, Message: message}
	switch statusCode {
	case http.StatusTooManyRequests:
		return RateLimit(op, httpErr)
	case http.StatusServiceUnavailable:
		return Network(op, httpErr)
	case http.StatusGatewayTimeout:
		return Timeout(op, httpErr)
	case http.StatusUnauthorized, http.StatusForbidden:
		return Authentication(op, httpErr)
	}
	return Validation(op, httpErr)
}

// Message extracts a human-readable message from err, falling back to the
// kind name when the error text is empty.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}
