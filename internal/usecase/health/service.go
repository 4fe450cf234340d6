// Package health tracks per-source availability with circuit-breaker
// semantics: a source that fails too many times in a row is skipped until a
// recovery window elapses, then allowed a fresh attempt.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/repository"
)

// Config holds the tracker-wide health thresholds. They apply to every
// source; there is no per-source override.
type Config struct {
	// FailureThreshold is the number of consecutive failures after which a
	// source is considered unhealthy. Minimum 1.
	FailureThreshold int

	// RecoveryWindow is how long an unhealthy source is skipped, measured
	// from its most recent failure. Minimum one hour.
	RecoveryWindow time.Duration
}

// DefaultConfig returns the default health thresholds.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryWindow:   24 * time.Hour,
	}
}

// Validate checks the threshold bounds.
func (c Config) Validate() error {
	if c.FailureThreshold < 1 {
		return ErrInvalidThreshold
	}
	if c.RecoveryWindow < time.Hour {
		return ErrInvalidRecoveryWindow
	}
	return nil
}

// SourceHealth is the detailed health view of one source.
type SourceHealth struct {
	SourceID            string
	SourceType          entity.SourceType
	Healthy             bool
	InRecovery          bool
	CanCollect          bool
	ConsecutiveFailures int
	FailureThreshold    int
	LastError           *string
	LastErrorAt         *time.Time
	RecoveryUntil       *time.Time
}

// Summary is a full-population health sweep.
type Summary struct {
	Total       int
	Healthy     int
	Unhealthy   int
	InRecovery  int
	Collectable int
	Sources     []*SourceHealth
}

// CollectableSet is the actionable subset of sources eligible for an attempt.
type CollectableSet struct {
	Total       int
	Collectable int
	Skipped     int
	Sources     []*entity.SourceStatus
}

// ResetResult reports a bulk failure-counter reset.
type ResetResult struct {
	Total int
	Reset int
}

// Service is the source health tracker. It is the sole writer of
// SourceStatus records; everything else reads aggregate views or calls the
// MarkSuccess/MarkFailure hooks.
type Service struct {
	repo   repository.StatusRepository
	logger *slog.Logger

	// cfgMu guards the runtime-updatable thresholds.
	cfgMu sync.RWMutex
	cfg   Config

	// markMu serializes the read-modify-write mutations so two attempts
	// against the same source can never interleave.
	markMu sync.Mutex

	// now is injected so recovery-window math is testable without sleeping.
	now func() time.Time
}

// NewService creates a health tracker over the given status store.
func NewService(repo repository.StatusRepository, cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		repo:   repo,
		logger: slog.Default(),
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// FailureThreshold returns the current failure threshold.
func (s *Service) FailureThreshold() int {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.FailureThreshold
}

// RecoveryWindow returns the current recovery window.
func (s *Service) RecoveryWindow() time.Duration {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.RecoveryWindow
}

// IsHealthy reports whether the source is below the failure threshold.
// Pure function of the status record and the tracker configuration.
func (s *Service) IsHealthy(status *entity.SourceStatus) bool {
	if status == nil {
		return false
	}
	return status.ConsecutiveFailures < s.FailureThreshold()
}

// InRecovery reports whether an unhealthy source is still inside its
// recovery window.
func (s *Service) InRecovery(status *entity.SourceStatus) bool {
	if status == nil || status.LastError == nil || status.LastErrorAt == nil {
		return false
	}
	if status.ConsecutiveFailures < s.FailureThreshold() {
		return false
	}
	return s.now().Before(status.LastErrorAt.Add(s.RecoveryWindow()))
}

// CanCollect reports whether an attempt against this source is allowed:
// healthy, or unhealthy with an expired recovery window. A source leaving its
// window is retried without resetting the failure counter, so one renewed
// failure restarts a full window.
func (s *Service) CanCollect(status *entity.SourceStatus) bool {
	if status == nil {
		return false
	}
	if s.IsHealthy(status) {
		return true
	}
	return !s.InRecovery(status)
}

// HealthStatus builds the detailed health view of one source.
func (s *Service) HealthStatus(status *entity.SourceStatus) *SourceHealth {
	h := &SourceHealth{
		SourceID:            status.SourceID,
		SourceType:          status.SourceType,
		Healthy:             s.IsHealthy(status),
		InRecovery:          s.InRecovery(status),
		CanCollect:          s.CanCollect(status),
		ConsecutiveFailures: status.ConsecutiveFailures,
		FailureThreshold:    s.FailureThreshold(),
		LastError:           status.LastError,
		LastErrorAt:         status.LastErrorAt,
	}
	if h.InRecovery && status.LastErrorAt != nil {
		until := status.LastErrorAt.Add(s.RecoveryWindow())
		h.RecoveryUntil = &until
	}
	return h
}

// RegisterSource creates the default status record for a source the first
// time it is seen. Registration is idempotent and never clobbers an existing
// record.
func (s *Service) RegisterSource(ctx context.Context, sourceID string, sourceType entity.SourceType) error {
	s.markMu.Lock()
	defer s.markMu.Unlock()

	existing, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("register source: %w", err)
	}
	if existing != nil {
		return nil
	}

	status := entity.NewSourceStatus(sourceID, sourceType)
	if err := s.repo.Upsert(ctx, status); err != nil {
		return fmt.Errorf("register source: %w", err)
	}
	s.logger.Info("source registered",
		slog.String("source_id", sourceID),
		slog.String("source_type", string(sourceType)))
	return nil
}

// MarkSuccess records a successful attempt: failures reset to zero, last
// error cleared, success and collection timestamps advanced. Returns
// ErrSourceNotFound for an unregistered source.
func (s *Service) MarkSuccess(ctx context.Context, sourceID string) (*SourceHealth, error) {
	s.markMu.Lock()
	defer s.markMu.Unlock()

	status, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("mark success: %w", err)
	}
	if status == nil {
		s.logger.Warn("cannot mark unknown source as successful",
			slog.String("source_id", sourceID))
		return nil, fmt.Errorf("mark success %q: %w", sourceID, ErrSourceNotFound)
	}

	now := s.now()
	status.ConsecutiveFailures = 0
	status.LastError = nil
	status.LastErrorAt = nil
	status.LastSuccess = &now
	status.LastCollectedAt = &now

	if err := s.repo.Upsert(ctx, status); err != nil {
		return nil, fmt.Errorf("mark success: %w", err)
	}

	s.logger.Info("source marked successful, failures reset",
		slog.String("source_id", sourceID))
	return s.HealthStatus(status), nil
}

// MarkFailure records a failed attempt: the failure counter is incremented
// and the error message and timestamps advance. Returns ErrSourceNotFound
// for an unregistered source.
func (s *Service) MarkFailure(ctx context.Context, sourceID, message string) (*SourceHealth, error) {
	s.markMu.Lock()
	defer s.markMu.Unlock()

	status, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("mark failure: %w", err)
	}
	if status == nil {
		s.logger.Warn("cannot mark unknown source as failed",
			slog.String("source_id", sourceID))
		return nil, fmt.Errorf("mark failure %q: %w", sourceID, ErrSourceNotFound)
	}

	now := s.now()
	status.ConsecutiveFailures++
	status.LastError = &message
	status.LastErrorAt = &now
	status.LastCollectedAt = &now

	if err := s.repo.Upsert(ctx, status); err != nil {
		return nil, fmt.Errorf("mark failure: %w", err)
	}

	s.logger.Warn("source marked failed",
		slog.String("source_id", sourceID),
		slog.Int("consecutive_failures", status.ConsecutiveFailures),
		slog.Int("failure_threshold", s.FailureThreshold()),
		slog.String("error", message))
	return s.HealthStatus(status), nil
}

// CheckAllSources runs a full-population health sweep.
func (s *Service) CheckAllSources(ctx context.Context) (*Summary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("check all sources: %w", err)
	}

	summary := &Summary{
		Total:   len(all),
		Sources: make([]*SourceHealth, 0, len(all)),
	}
	for _, status := range all {
		h := s.HealthStatus(status)
		summary.Sources = append(summary.Sources, h)

		if h.Healthy {
			summary.Healthy++
		} else {
			summary.Unhealthy++
		}
		if h.InRecovery {
			summary.InRecovery++
		}
		if h.CanCollect {
			summary.Collectable++
		}
	}

	s.logger.Info("source health check complete",
		slog.Int("total", summary.Total),
		slog.Int("healthy", summary.Healthy),
		slog.Int("unhealthy", summary.Unhealthy),
		slog.Int("in_recovery", summary.InRecovery),
		slog.Int("collectable", summary.Collectable))
	return summary, nil
}

// CollectableSources returns the subset of sources eligible for an attempt
// this run.
func (s *Service) CollectableSources(ctx context.Context) (*CollectableSet, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectable sources: %w", err)
	}

	set := &CollectableSet{Total: len(all)}
	for _, status := range all {
		if s.CanCollect(status) {
			set.Sources = append(set.Sources, status)
		} else {
			set.Skipped++
		}
	}
	set.Collectable = len(set.Sources)

	s.logger.Info("source collection filter",
		slog.Int("collectable", set.Collectable),
		slog.Int("skipped", set.Skipped))
	return set, nil
}

// ResetAllFailures zeroes every non-zero failure counter. Used for manual
// recovery; collection timestamps are left untouched.
func (s *Service) ResetAllFailures(ctx context.Context) (*ResetResult, error) {
	s.markMu.Lock()
	defer s.markMu.Unlock()

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reset all failures: %w", err)
	}

	result := &ResetResult{Total: len(all)}
	for _, status := range all {
		if status.ConsecutiveFailures == 0 {
			continue
		}
		status.ConsecutiveFailures = 0
		status.LastError = nil
		status.LastErrorAt = nil
		if err := s.repo.Upsert(ctx, status); err != nil {
			return nil, fmt.Errorf("reset all failures: %w", err)
		}
		result.Reset++
	}

	s.logger.Info("failure counters reset", slog.Int("reset", result.Reset))
	return result, nil
}

// UpdateFailureThreshold changes the tracker-wide failure threshold,
// affecting future health evaluations of all sources.
func (s *Service) UpdateFailureThreshold(threshold int) error {
	if threshold < 1 {
		return ErrInvalidThreshold
	}

	s.cfgMu.Lock()
	old := s.cfg.FailureThreshold
	s.cfg.FailureThreshold = threshold
	s.cfgMu.Unlock()

	s.logger.Info("failure threshold updated",
		slog.Int("old", old),
		slog.Int("new", threshold))
	return nil
}

// UpdateRecoveryWindow changes the tracker-wide recovery window,
// affecting future health evaluations of all sources.
func (s *Service) UpdateRecoveryWindow(window time.Duration) error {
	if window < time.Hour {
		return ErrInvalidRecoveryWindow
	}

	s.cfgMu.Lock()
	old := s.cfg.RecoveryWindow
	s.cfg.RecoveryWindow = window
	s.cfgMu.Unlock()

	s.logger.Info("recovery window updated",
		slog.Duration("old", old),
		slog.Duration("new", window))
	return nil
}
