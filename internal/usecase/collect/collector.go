package collect

import (
	"context"

	"daily-brief/internal/domain/entity"
)

// Outcome is the result of one collection attempt against one source.
// Collectors convert every internal failure into an Outcome; an error never
// crosses the collector boundary as anything else.
type Outcome struct {
	Success bool
	Err     string
}

// Succeeded returns a successful outcome.
func Succeeded() Outcome {
	return Outcome{Success: true}
}

// Failed returns a failed outcome carrying the error message.
func Failed(message string) Outcome {
	return Outcome{Err: message}
}

// Collector performs one collection attempt against a single source.
// Implementations handle their own retries and circuit breaking internally;
// the orchestrator observes exactly one Outcome per source.
type Collector interface {
	Attempt(ctx context.Context, status *entity.SourceStatus) Outcome
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context, status *entity.SourceStatus) Outcome

func (f CollectorFunc) Attempt(ctx context.Context, status *entity.SourceStatus) Outcome {
	return f(ctx, status)
}
