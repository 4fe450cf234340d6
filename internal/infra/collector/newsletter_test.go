package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/infra/adapter/persistence/memory"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
  <title>Release Notes</title>
  <meta property="og:title" content="Platform Release Notes, May Edition">
  <meta property="article:published_time" content="2025-05-12T09:00:00Z">
</head>
<body>
  <article>
    <h1>Platform Release Notes, May Edition</h1>
    <p>This month we shipped a redesigned ingestion pipeline, cut p99 latency on
    the search endpoint roughly in half, and finished the migration of the
    remaining background jobs to the new scheduler. Below is a detailed look at
    each change, the rollout plan that was used, and the operational metrics we
    watched along the way. As always, the full changelog is available in the
    project repository for readers who want the complete list of commits.</p>
  </article>
</body>
</html>`

func fastClient() *Client {
	cfg := DefaultClientConfig()
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	cfg.Timeout = 5 * time.Second
	return NewClient(cfg)
}

func newsletterStatus(sourceID string) *entity.SourceStatus {
	return &entity.SourceStatus{SourceID: sourceID, SourceType: entity.SourceTypeNewsletter}
}

func TestNewsletterCollector_Attempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer server.Close()

	contents := memory.NewContentRepo()
	c, err := NewNewsletterCollector(fastClient(), contents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome := c.Attempt(context.Background(), newsletterStatus(server.URL))

	if !outcome.Success {
		t.Fatalf("Attempt failed: %s", outcome.Err)
	}
	items := contents.Items()
	if len(items) != 1 {
		t.Fatalf("stored items = %d, want 1", len(items))
	}
	if items[0].Title != "Platform Release Notes, May Edition" {
		t.Errorf("Title = %q", items[0].Title)
	}
	if items[0].SourceType != entity.SourceTypeNewsletter {
		t.Errorf("SourceType = %q", items[0].SourceType)
	}
	if items[0].PublishedAt == nil {
		t.Error("PublishedAt not extracted")
	}
	if !strings.Contains(items[0].ContentText, "ingestion pipeline") {
		t.Errorf("ContentText missing article body: %q", items[0].ContentText)
	}
}

func TestNewsletterCollector_DuplicateSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage))
	}))
	defer server.Close()

	contents := memory.NewContentRepo()
	c, err := NewNewsletterCollector(fastClient(), contents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := c.Attempt(context.Background(), newsletterStatus(server.URL))
	second := c.Attempt(context.Background(), newsletterStatus(server.URL))

	if !first.Success || !second.Success {
		t.Fatalf("outcomes = (%v, %v), want both successful", first, second)
	}
	if got := len(contents.Items()); got != 1 {
		t.Errorf("stored items = %d, want 1 (duplicate skipped)", got)
	}
}

func TestNewsletterCollector_PermanentHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c, err := NewNewsletterCollector(fastClient(), memory.NewContentRepo())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome := c.Attempt(context.Background(), newsletterStatus(server.URL))

	if outcome.Success {
		t.Fatal("Attempt succeeded against a 404")
	}
	if !strings.Contains(outcome.Err, "404") {
		t.Errorf("Err = %q, want mention of status", outcome.Err)
	}
}

func TestNewsletterCollector_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	c, err := NewNewsletterCollector(fastClient(), memory.NewContentRepo())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome := c.Attempt(context.Background(), newsletterStatus(server.URL))

	if outcome.Success {
		t.Fatal("Attempt succeeded with no readable content")
	}
	if !strings.Contains(outcome.Err, "no readable content") {
		t.Errorf("Err = %q", outcome.Err)
	}
}
