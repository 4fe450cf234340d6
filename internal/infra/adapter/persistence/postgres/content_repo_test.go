package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/infra/adapter/persistence/postgres"
)

func TestContentRepo_Insert(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	item := &entity.ContentItem{
		SourceID:    "https://example.com/weekly",
		SourceType:  entity.SourceTypeNewsletter,
		Title:       "Issue #42",
		ContentText: "This week in AI...",
		ContentURL:  "https://example.com/weekly/42",
		CollectedAt: time.Now(),
	}

	mock.ExpectQuery(`INSERT INTO content_items`).
		WithArgs(
			item.SourceID, "newsletter", item.Title, item.ContentText,
			item.ContentURL, nil, item.CollectedAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := postgres.NewContentRepo(db)
	id, err := repo.Insert(context.Background(), item)
	if err != nil {
		t.Fatalf("Insert err=%v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestContentRepo_Insert_Invalid(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	repo := postgres.NewContentRepo(db)
	_, err := repo.Insert(context.Background(), &entity.ContentItem{})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestContentRepo_ExistsByURL(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("https://example.com/weekly/42").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := postgres.NewContentRepo(db)
	exists, err := repo.ExistsByURL(context.Background(), "https://example.com/weekly/42")
	if err != nil {
		t.Fatalf("ExistsByURL err=%v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
