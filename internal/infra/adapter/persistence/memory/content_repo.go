package memory

import (
	"context"
	"sync"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/repository"
)

// ContentRepo is an in-memory ContentRepository.
type ContentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []*entity.ContentItem
	byURL  map[string]bool
}

func NewContentRepo() *ContentRepo {
	return &ContentRepo{
		nextID: 1,
		byURL:  make(map[string]bool),
	}
}

var _ repository.ContentRepository = (*ContentRepo)(nil)

func (repo *ContentRepo) Insert(_ context.Context, item *entity.ContentItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	cp := *item
	cp.ID = repo.nextID
	repo.nextID++
	repo.items = append(repo.items, &cp)
	if cp.ContentURL != "" {
		repo.byURL[cp.ContentURL] = true
	}
	return cp.ID, nil
}

func (repo *ContentRepo) ExistsByURL(_ context.Context, url string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.byURL[url], nil
}

// Items returns a snapshot of everything stored, in insertion order.
func (repo *ContentRepo) Items() []*entity.ContentItem {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	out := make([]*entity.ContentItem, 0, len(repo.items))
	for _, item := range repo.items {
		cp := *item
		out = append(out, &cp)
	}
	return out
}
