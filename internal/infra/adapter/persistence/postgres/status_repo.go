package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/repository"
)

type StatusRepo struct{ db *sql.DB }

func NewStatusRepo(db *sql.DB) repository.StatusRepository {
	return &StatusRepo{db: db}
}

const statusColumns = `source_id, source_type, consecutive_failures, last_error, last_error_at, last_success, last_collected_at`

// scanStatus is a helper function to scan a source_status row
func scanStatus(rows *sql.Rows) (*entity.SourceStatus, error) {
	var status entity.SourceStatus
	if err := rows.Scan(
		&status.SourceID, &status.SourceType, &status.ConsecutiveFailures,
		&status.LastError, &status.LastErrorAt, &status.LastSuccess, &status.LastCollectedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (repo *StatusRepo) Get(ctx context.Context, sourceID string) (*entity.SourceStatus, error) {
	const query = `
SELECT ` + statusColumns + `
FROM source_status
WHERE source_id = $1
LIMIT 1`
	var status entity.SourceStatus
	err := repo.db.QueryRowContext(ctx, query, sourceID).Scan(
		&status.SourceID, &status.SourceType, &status.ConsecutiveFailures,
		&status.LastError, &status.LastErrorAt, &status.LastSuccess, &status.LastCollectedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &status, nil
}

func (repo *StatusRepo) List(ctx context.Context) ([]*entity.SourceStatus, error) {
	const query = `
SELECT ` + statusColumns + `
FROM source_status
ORDER BY source_type, source_id`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	statuses := make([]*entity.SourceStatus, 0, 50)
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

func (repo *StatusRepo) ListByType(ctx context.Context, sourceType entity.SourceType) ([]*entity.SourceStatus, error) {
	const query = `
SELECT ` + statusColumns + `
FROM source_status
WHERE source_type = $1
ORDER BY source_id`
	rows, err := repo.db.QueryContext(ctx, query, string(sourceType))
	if err != nil {
		return nil, fmt.Errorf("ListByType: %w", err)
	}
	defer func() { _ = rows.Close() }()

	statuses := make([]*entity.SourceStatus, 0, 50)
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByType: %w", err)
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

// Upsert inserts or updates the record for status.SourceID in one statement.
// The ON CONFLICT clause keeps the operation atomic per key.
func (repo *StatusRepo) Upsert(ctx context.Context, status *entity.SourceStatus) error {
	if err := status.Validate(); err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}

	const query = `
INSERT INTO source_status
    (source_id, source_type, consecutive_failures, last_error, last_error_at, last_success, last_collected_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (source_id) DO UPDATE SET
    source_type = EXCLUDED.source_type,
    consecutive_failures = EXCLUDED.consecutive_failures,
    last_error = EXCLUDED.last_error,
    last_error_at = EXCLUDED.last_error_at,
    last_success = EXCLUDED.last_success,
    last_collected_at = EXCLUDED.last_collected_at,
    updated_at = NOW()`
	_, err := repo.db.ExecContext(ctx, query,
		status.SourceID, string(status.SourceType), status.ConsecutiveFailures,
		status.LastError, status.LastErrorAt, status.LastSuccess, status.LastCollectedAt,
	)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}
