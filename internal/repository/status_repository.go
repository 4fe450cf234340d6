package repository

import (
	"context"

	"daily-brief/internal/domain/entity"
)

// StatusRepository is the key-value status store keyed by source identifier.
// Get returns (nil, nil) when no record exists for the source; callers decide
// whether a missing record is an error. Upsert is atomic per key.
type StatusRepository interface {
	Get(ctx context.Context, sourceID string) (*entity.SourceStatus, error)
	List(ctx context.Context) ([]*entity.SourceStatus, error)
	ListByType(ctx context.Context, sourceType entity.SourceType) ([]*entity.SourceStatus, error)
	Upsert(ctx context.Context, status *entity.SourceStatus) error
}
