// Package worker holds the runtime scaffolding of the collection worker:
// environment configuration, health endpoints, and worker metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"daily-brief/internal/pkg/config"
)

// WorkerConfig holds the configuration for the worker component: the
// collection schedule, run budget, health thresholds, and server ports.
//
// All fields have defaults and validation rules; configuration loading is
// fail-open, so a broken environment never prevents the worker from
// starting (see LoadConfigFromEnv).
type WorkerConfig struct {
	// CronSchedule is the five-field cron expression for collection runs.
	// Default: "0 6 * * *" (every day at 6:00).
	CronSchedule string

	// Timezone is the IANA timezone name used by the scheduler.
	// Default: "UTC".
	Timezone string

	// CollectTimeout is the budget for one collection run; the run context
	// is cancelled when it expires. Range: 1m-4h. Default: 20 minutes.
	CollectTimeout time.Duration

	// FailureThreshold is the consecutive-failure count after which a
	// source is considered unhealthy. Range: 1-100. Default: 5.
	FailureThreshold int

	// RecoveryWindow is how long an unhealthy source is skipped after its
	// latest failure. Range: 1h-168h. Default: 24h.
	RecoveryWindow time.Duration

	// HealthPort is the port of the health/status HTTP server.
	// Range: 1024-65535. Default: 9091.
	HealthPort int

	// MetricsPort is the port of the Prometheus /metrics server.
	// Range: 1024-65535. Default: 9090.
	MetricsPort int
}

// DefaultConfig returns a WorkerConfig with production defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:     "0 6 * * *",
		Timezone:         "UTC",
		CollectTimeout:   20 * time.Minute,
		FailureThreshold: 5,
		RecoveryWindow:   24 * time.Hour,
		HealthPort:       9091,
		MetricsPort:      9090,
	}
}

// Validate checks every field, collecting all violations into one error.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.CollectTimeout, 1*time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("collect timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.FailureThreshold, 1, 100); err != nil {
		errs = append(errs, fmt.Errorf("failure threshold: %w", err))
	}
	if err := config.ValidateDuration(c.RecoveryWindow, 1*time.Hour, 168*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("recovery window: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// configField describes one loadable field so the fallback bookkeeping
// (warn log, metrics) stays in one place.
type configField struct {
	name   string
	result config.ConfigLoadResult
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to defaults (fail-open): an invalid
// value is replaced by its default, logged, and counted in the worker's
// configuration metrics. It never returns an error.
//
// Environment variables:
//   - COLLECT_CRON_SCHEDULE: cron expression (default "0 6 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - COLLECT_TIMEOUT: run budget, e.g. "20m" (range 1m-4h)
//   - FAILURE_THRESHOLD: consecutive failures before unhealthy (1-100)
//   - RECOVERY_WINDOW: skip window after the latest failure (1h-168h)
//   - WORKER_HEALTH_PORT: health server port (1024-65535)
//   - WORKER_METRICS_PORT: metrics server port (1024-65535)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()

	schedule := config.LoadEnvWithFallback("COLLECT_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value.(string)

	timezone := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = timezone.Value.(string)

	timeout := config.LoadEnvDuration("COLLECT_TIMEOUT", cfg.CollectTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.CollectTimeout = timeout.Value.(time.Duration)

	threshold := config.LoadEnvInt("FAILURE_THRESHOLD", cfg.FailureThreshold, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.FailureThreshold = threshold.Value.(int)

	window := config.LoadEnvDuration("RECOVERY_WINDOW", cfg.RecoveryWindow, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Hour, 168*time.Hour)
	})
	cfg.RecoveryWindow = window.Value.(time.Duration)

	healthPort := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = healthPort.Value.(int)

	metricsPort := config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.MetricsPort = metricsPort.Value.(int)

	fields := []configField{
		{"cron_schedule", schedule},
		{"timezone", timezone},
		{"collect_timeout", timeout},
		{"failure_threshold", threshold},
		{"recovery_window", window},
		{"health_port", healthPort},
		{"metrics_port", metricsPort},
	}

	fallbackApplied := false
	for _, f := range fields {
		if !f.result.FallbackApplied {
			continue
		}
		fallbackApplied = true
		metrics.RecordValidationError(f.name)
		metrics.RecordFallback(f.name)
		for _, warning := range f.result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", f.name),
				slog.String("warning", warning))
		}
	}

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	// Fail-open: always a valid configuration.
	return &cfg, nil
}
