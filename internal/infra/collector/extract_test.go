package collector

import (
	"math"
	"testing"
	"time"
)

func TestExtractArticle_FullPage(t *testing.T) {
	html := []byte(`<!DOCTYPE html>
<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Weekly AI Digest #42">
  <meta property="article:published_time" content="2025-05-20T08:30:00Z">
</head>
<body>
  <article>
    <h1>Weekly AI Digest #42</h1>
    <p>This week in machine learning brought several notable releases and papers.
    Researchers published new results on efficient attention mechanisms, and two
    widely used open source frameworks shipped major versions. The remainder of
    this digest walks through the highlights, what changed, and why the changes
    matter for practitioners building production systems today. Each section
    links to the primary sources so readers can go deeper where they want to.</p>
  </article>
</body>
</html>`)

	got := extractArticle(html, nil)

	if got.Title != "Weekly AI Digest #42" {
		t.Errorf("Title = %q, want og:title value", got.Title)
	}
	if got.PublishedAt == nil {
		t.Fatal("PublishedAt = nil, want parsed date")
	}
	want := time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC)
	if !got.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, want)
	}
	if len(got.Text) < 100 {
		t.Errorf("Text too short: %d chars", len(got.Text))
	}
	if got.Confidence < 0.5 {
		t.Errorf("Confidence = %v, want >= 0.5", got.Confidence)
	}
}

func TestExtractTitle_FallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "title tag when no og:title",
			html: `<html><head><title>Plain Title</title></head><body><h1>Heading</h1></body></html>`,
			want: "Plain Title",
		},
		{
			name: "h1 when nothing else",
			html: `<html><body><h1>Only Heading</h1></body></html>`,
			want: "Only Heading",
		},
		{
			name: "empty og:title skipped",
			html: `<html><head><meta property="og:title" content=""><title>Real Title</title></head></html>`,
			want: "Real Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractArticle([]byte(tt.html), nil)
			if got.Title != tt.want {
				t.Errorf("Title = %q, want %q", got.Title, tt.want)
			}
		})
	}
}

func TestExtractPublishedAt_TimeElement(t *testing.T) {
	html := []byte(`<html><body>
<time datetime="2025-04-01">April first</time>
<p>content</p>
</body></html>`)

	got := extractArticle(html, nil)

	if got.PublishedAt == nil {
		t.Fatal("PublishedAt = nil, want parsed date from <time>")
	}
	if got.PublishedAt.Year() != 2025 || got.PublishedAt.Month() != time.April {
		t.Errorf("PublishedAt = %v", got.PublishedAt)
	}
}

func TestExtractArticle_EmptyPage(t *testing.T) {
	got := extractArticle([]byte(`<html><body></body></html>`), nil)

	if got.Text != "" {
		t.Errorf("Text = %q, want empty", got.Text)
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", got.Confidence)
	}
}

func TestConfidence_Components(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	date := time.Now()

	tests := []struct {
		name string
		in   article
		want float64
	}{
		{"nothing", article{}, 0},
		{"title only", article{Title: "t"}, 0.3},
		{"long text, title, date", article{Title: "t", Text: string(long), PublishedAt: &date}, 1.0},
		{"short text only", article{Text: "short"}, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := confidence(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("confidence = %v, want %v", got, tt.want)
			}
		})
	}
}
