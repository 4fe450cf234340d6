// Package memory provides in-memory repository implementations.
// Used by tests and local runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/repository"
)

// StatusRepo is an in-memory StatusRepository. Safe for concurrent use;
// the mutex keeps each upsert atomic per key.
type StatusRepo struct {
	mu   sync.RWMutex
	data map[string]*entity.SourceStatus
}

func NewStatusRepo() *StatusRepo {
	return &StatusRepo{data: make(map[string]*entity.SourceStatus)}
}

var _ repository.StatusRepository = (*StatusRepo)(nil)

func (repo *StatusRepo) Get(_ context.Context, sourceID string) (*entity.SourceStatus, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	status, ok := repo.data[sourceID]
	if !ok {
		return nil, nil
	}
	cp := *status
	return &cp, nil
}

func (repo *StatusRepo) List(_ context.Context) ([]*entity.SourceStatus, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*entity.SourceStatus, 0, len(repo.data))
	for _, status := range repo.data {
		cp := *status
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceType != out[j].SourceType {
			return out[i].SourceType < out[j].SourceType
		}
		return out[i].SourceID < out[j].SourceID
	})
	return out, nil
}

func (repo *StatusRepo) ListByType(ctx context.Context, sourceType entity.SourceType) ([]*entity.SourceStatus, error) {
	all, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.SourceStatus, 0, len(all))
	for _, status := range all {
		if status.SourceType == sourceType {
			out = append(out, status)
		}
	}
	return out, nil
}

func (repo *StatusRepo) Upsert(_ context.Context, status *entity.SourceStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	cp := *status
	repo.data[status.SourceID] = &cp
	return nil
}
