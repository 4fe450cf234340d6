package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/repository"
)

type ContentRepo struct{ db *sql.DB }

func NewContentRepo(db *sql.DB) repository.ContentRepository {
	return &ContentRepo{db: db}
}

func (repo *ContentRepo) Insert(ctx context.Context, item *entity.ContentItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, fmt.Errorf("Insert: %w", err)
	}

	const query = `
INSERT INTO content_items
    (source_id, source_type, title, content_text, content_url, published_at, collected_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	var id int64
	err := repo.db.QueryRowContext(ctx, query,
		item.SourceID, string(item.SourceType), item.Title, item.ContentText,
		item.ContentURL, item.PublishedAt, item.CollectedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Insert: %w", err)
	}
	return id, nil
}

func (repo *ContentRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `
SELECT EXISTS (SELECT 1 FROM content_items WHERE content_url = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return exists, nil
}
