package repository

import (
	"context"

	"daily-brief/internal/domain/entity"
)

// ContentRepository stores collected content items.
type ContentRepository interface {
	Insert(ctx context.Context, item *entity.ContentItem) (int64, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
}
