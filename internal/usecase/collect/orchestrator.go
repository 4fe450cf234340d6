// Package collect runs one batch collection cycle across all registered
// sources and aggregates the outcome into a single report. A run never
// returns an error; per-source failures are folded into the report and only
// failures of the orchestrator's own bookkeeping mark the run unsuccessful.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/observability/tracing"
	"daily-brief/internal/usecase/health"
)

// HealthTracker is the slice of the health service the orchestrator consumes.
type HealthTracker interface {
	CheckAllSources(ctx context.Context) (*health.Summary, error)
	CollectableSources(ctx context.Context) (*health.CollectableSet, error)
	MarkSuccess(ctx context.Context, sourceID string) (*health.SourceHealth, error)
	MarkFailure(ctx context.Context, sourceID, message string) (*health.SourceHealth, error)
	ResetAllFailures(ctx context.Context) (*health.ResetResult, error)
	UpdateFailureThreshold(threshold int) error
	UpdateRecoveryWindow(window time.Duration) error
}

// TypeCounts is the per-source-type breakdown in a RunReport.
type TypeCounts struct {
	Collected int
	Failed    int
}

// RunReport is the aggregated result of one collection run. It is ephemeral;
// callers log or expose it but it is not persisted.
type RunReport struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration

	// Success is the batch-level flag. Per-source failures leave it true;
	// it turns false only when the orchestrator's own control flow failed.
	Success bool

	TotalCollected int
	TotalFailed    int
	BySourceType   map[entity.SourceType]*TypeCounts

	SourcesChecked int
	Collectable    int
	Skipped        int

	Errors []string
}

// typeOrder fixes the partition processing order within a run.
var typeOrder = []entity.SourceType{
	entity.SourceTypeNewsletter,
	entity.SourceTypeYouTube,
}

// Service is the collection orchestrator.
type Service struct {
	tracker    HealthTracker
	collectors map[entity.SourceType]Collector
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates an orchestrator over the given health tracker and
// per-type collectors.
func NewService(tracker HealthTracker, collectors map[entity.SourceType]Collector) *Service {
	return &Service{
		tracker:    tracker,
		collectors: collectors,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// Run executes one collection cycle and always returns a report. Sources are
// processed sequentially within each type partition; one misbehaving source
// degrades its own counters but never aborts the batch.
func (s *Service) Run(ctx context.Context) *RunReport {
	ctx, span := tracing.GetTracer().Start(ctx, "collection-run")
	defer span.End()

	report := &RunReport{
		RunID:        uuid.New(),
		StartedAt:    s.now(),
		Success:      true,
		BySourceType: make(map[entity.SourceType]*TypeCounts),
	}
	span.SetAttributes(attribute.String("run_id", report.RunID.String()))

	s.logger.Info("collection run started", slog.String("run_id", report.RunID.String()))

	if err := s.runSteps(ctx, report); err != nil {
		report.Success = false
		report.Errors = append(report.Errors, err.Error())
		s.logger.Error("collection run bookkeeping failed",
			slog.String("run_id", report.RunID.String()),
			slog.String("error", err.Error()))
	}

	report.Duration = s.now().Sub(report.StartedAt)
	metrics.RecordCollectionRun(report.Success, report.Duration)

	s.logger.Info("collection run finished",
		slog.String("run_id", report.RunID.String()),
		slog.Bool("success", report.Success),
		slog.Int("collected", report.TotalCollected),
		slog.Int("failed", report.TotalFailed),
		slog.Int("checked", report.SourcesChecked),
		slog.Int("collectable", report.Collectable),
		slog.Int("skipped", report.Skipped),
		slog.Duration("duration", report.Duration))
	return report
}

// runSteps performs the health sweep, partitioning, and per-source attempts.
// Any returned error is an orchestration failure, not a per-source one. A
// panic in the orchestrator's own bookkeeping is recovered into an error so
// Run keeps its never-throwing contract.
func (s *Service) runSteps(ctx context.Context, report *RunReport) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collection run panicked: %v", r)
		}
	}()

	summary, err := s.tracker.CheckAllSources(ctx)
	if err != nil {
		return fmt.Errorf("health sweep: %w", err)
	}
	report.SourcesChecked = summary.Total
	metrics.UpdateSourceHealth(summary.Healthy, summary.Unhealthy, summary.InRecovery)

	set, err := s.tracker.CollectableSources(ctx)
	if err != nil {
		return fmt.Errorf("collectable sources: %w", err)
	}
	report.Collectable = set.Collectable
	report.Skipped = set.Skipped
	metrics.RecordSourcesSkipped(set.Skipped)

	if set.Collectable == 0 {
		s.logger.Info("no collectable sources this run",
			slog.String("run_id", report.RunID.String()))
		return nil
	}

	partitions := partitionByType(set.Sources)
	for _, sourceType := range typeOrder {
		for _, status := range partitions[sourceType] {
			if err := s.collectOne(ctx, report, status); err != nil {
				return err
			}
		}
	}
	// Source types with no registered collector still produce failure
	// outcomes rather than being dropped silently.
	for sourceType, sources := range partitions {
		if knownType(sourceType) {
			continue
		}
		for _, status := range sources {
			if err := s.collectOne(ctx, report, status); err != nil {
				return err
			}
		}
	}
	return nil
}

// collectOne runs a single source attempt and records its outcome. The
// returned error is a health-store failure; collection failures are folded
// into the report.
func (s *Service) collectOne(ctx context.Context, report *RunReport, status *entity.SourceStatus) error {
	ctx, span := tracing.GetTracer().Start(ctx, "collect-source")
	span.SetAttributes(
		attribute.String("source_id", status.SourceID),
		attribute.String("source_type", string(status.SourceType)),
	)
	defer span.End()

	outcome := s.attempt(ctx, status)

	counts := report.BySourceType[status.SourceType]
	if counts == nil {
		counts = &TypeCounts{}
		report.BySourceType[status.SourceType] = counts
	}

	metrics.RecordSourceCollection(string(status.SourceType), outcome.Success)

	if outcome.Success {
		if _, err := s.tracker.MarkSuccess(ctx, status.SourceID); err != nil {
			return fmt.Errorf("mark success %q: %w", status.SourceID, err)
		}
		report.TotalCollected++
		counts.Collected++
		return nil
	}

	if _, err := s.tracker.MarkFailure(ctx, status.SourceID, outcome.Err); err != nil {
		return fmt.Errorf("mark failure %q: %w", status.SourceID, err)
	}
	report.TotalFailed++
	counts.Failed++
	report.Errors = append(report.Errors,
		fmt.Sprintf("%s %s: %s", status.SourceType, status.SourceID, outcome.Err))
	return nil
}

// attempt invokes the matching collector, converting a missing collector or
// a collector panic into a failure outcome.
func (s *Service) attempt(ctx context.Context, status *entity.SourceStatus) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("collector panicked",
				slog.String("source_id", status.SourceID),
				slog.Any("panic", r))
			outcome = Failed(fmt.Sprintf("collector panicked: %v", r))
		}
	}()

	collector, ok := s.collectors[status.SourceType]
	if !ok {
		return Failed(fmt.Sprintf("no collector registered for source type %q", status.SourceType))
	}
	return collector.Attempt(ctx, status)
}

// CollectionStatus returns the current health snapshot of all sources.
func (s *Service) CollectionStatus(ctx context.Context) (*health.Summary, error) {
	summary, err := s.tracker.CheckAllSources(ctx)
	if err != nil {
		return nil, &OrchestrationError{Op: "collection status", Err: err}
	}
	return summary, nil
}

// ResetAllSourceHealth zeroes every source's failure counter.
func (s *Service) ResetAllSourceHealth(ctx context.Context) (*health.ResetResult, error) {
	result, err := s.tracker.ResetAllFailures(ctx)
	if err != nil {
		return nil, &OrchestrationError{Op: "reset source health", Err: err}
	}
	s.logger.Info("source health reset", slog.Int("reset", result.Reset))
	return result, nil
}

// UpdateSourceFailureThreshold changes the tracker-wide failure threshold.
func (s *Service) UpdateSourceFailureThreshold(threshold int) error {
	if err := s.tracker.UpdateFailureThreshold(threshold); err != nil {
		return &OrchestrationError{Op: "update failure threshold", Err: err}
	}
	return nil
}

// UpdateSourceRecoveryPeriod changes the tracker-wide recovery window.
func (s *Service) UpdateSourceRecoveryPeriod(window time.Duration) error {
	if err := s.tracker.UpdateRecoveryWindow(window); err != nil {
		return &OrchestrationError{Op: "update recovery period", Err: err}
	}
	return nil
}

func partitionByType(sources []*entity.SourceStatus) map[entity.SourceType][]*entity.SourceStatus {
	out := make(map[entity.SourceType][]*entity.SourceStatus)
	for _, status := range sources {
		out[status.SourceType] = append(out[status.SourceType], status)
	}
	return out
}

func knownType(t entity.SourceType) bool {
	for _, known := range typeOrder {
		if t == known {
			return true
		}
	}
	return false
}
