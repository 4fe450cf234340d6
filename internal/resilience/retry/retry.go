// Package retry provides a retry executor with bounded exponential backoff.
// It consults the apperr taxonomy to retry transient failures while letting
// permanent failures surface on first occurrence.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/resilience/apperr"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BackoffMin is the delay before the first retry.
	BackoffMin time.Duration

	// BackoffMax caps the delay between retries.
	BackoffMax time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
}

// DefaultConfig returns a default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BackoffMin:  1 * time.Second,
		BackoffMax:  4 * time.Second,
		Multiplier:  2.0,
	}
}

// CollectorConfig returns configuration tuned for source collection attempts.
// Moderate retry for network issues and transient site failures.
func CollectorConfig() Config {
	return Config{
		MaxAttempts: 3,
		BackoffMin:  1 * time.Second,
		BackoffMax:  10 * time.Second,
		Multiplier:  2.0,
	}
}

// FeedFetchConfig returns configuration tuned for feed fetching.
// Aggressive retry for transient network issues.
func FeedFetchConfig() Config {
	return Config{
		MaxAttempts: 5,
		BackoffMin:  1 * time.Second,
		BackoffMax:  30 * time.Second,
		Multiplier:  2.0,
	}
}

// validate checks the backoff bounds. Violations are configuration errors
// raised at construction, not at call time.
func (c Config) validate() error {
	if c.MaxAttempts < 1 {
		return apperr.Configuration("retry config",
			fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts))
	}
	if c.BackoffMin < 0 || c.BackoffMax < 0 {
		return apperr.Configuration("retry config",
			fmt.Errorf("backoff bounds must not be negative"))
	}
	if c.BackoffMin > c.BackoffMax {
		return apperr.Configuration("retry config",
			fmt.Errorf("backoff min %v exceeds max %v", c.BackoffMin, c.BackoffMax))
	}
	if c.Multiplier <= 0 {
		return apperr.Configuration("retry config",
			fmt.Errorf("multiplier must be positive, got %v", c.Multiplier))
	}
	return nil
}

// Executor runs units of work with retry and exponential backoff.
// The zero value is not usable; construct with New.
type Executor struct {
	cfg    Config
	logger *slog.Logger

	// sleep is swapped out in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Executor, validating the backoff bounds.
func New(cfg Config) (*Executor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Executor{
		cfg:    cfg,
		logger: slog.Default(),
		sleep:  sleepContext,
	}, nil
}

// Do invokes fn until it succeeds, fails permanently, or attempts run out.
// Only the last failure is returned when attempts are exhausted. MaxAttempts
// of 1 performs no retries and acts as a pass-through with classification
// logging only.
func (e *Executor) Do(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				e.logger.Info("operation succeeded after retry",
					slog.String("operation", op),
					slog.Int("attempt", attempt))
			}
			return nil
		}

		if !apperr.IsRetryable(lastErr) {
			e.logger.Warn("non-retryable error, aborting",
				slog.String("operation", op),
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}

		if attempt >= e.cfg.MaxAttempts {
			metrics.RecordRetryExhausted(op)
			e.logger.Error("retry attempts exhausted",
				slog.String("operation", op),
				slog.Int("max_attempts", e.cfg.MaxAttempts),
				slog.Any("error", lastErr))
			return lastErr
		}

		delay := e.backoff(attempt)
		metrics.RecordRetryAttempt(op)
		e.logger.Warn("operation failed, retrying",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", e.cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))

		if err := e.sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}

	return lastErr
}

// DoValue runs fn through ex and returns its result. It exists because
// methods cannot carry type parameters.
func DoValue[T any](ctx context.Context, ex *Executor, op string, fn func() (T, error)) (T, error) {
	var out T
	err := ex.Do(ctx, op, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// backoff computes the delay after the given attempt:
// min(BackoffMax, BackoffMin * Multiplier^(attempt-1)).
func (e *Executor) backoff(attempt int) time.Duration {
	d := float64(e.cfg.BackoffMin) * math.Pow(e.cfg.Multiplier, float64(attempt-1))
	if d > float64(e.cfg.BackoffMax) {
		return e.cfg.BackoffMax
	}
	return time.Duration(d)
}

// sleepContext blocks for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
