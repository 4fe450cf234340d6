package collector

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// article is the result of extracting one newsletter page.
type article struct {
	Title       string
	Text        string
	PublishedAt *time.Time

	// Confidence scores how much of the page structure was recovered.
	// Low-confidence extractions are stored anyway but logged.
	Confidence float64
}

// dateLayouts are tried in order when parsing publish dates found in markup.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// extractArticle pulls title, publish date, and body text out of a newsletter
// page. Readability handles the body; goquery covers the metadata and serves
// as the fallback when readability finds nothing.
func extractArticle(html []byte, pageURL *url.URL) article {
	var out article

	doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if docErr == nil {
		out.Title = extractTitle(doc)
		out.PublishedAt = extractPublishedAt(doc)
	}

	if parsed, err := readability.FromReader(bytes.NewReader(html), pageURL); err == nil {
		out.Text = strings.TrimSpace(parsed.TextContent)
		if out.Title == "" {
			out.Title = strings.TrimSpace(parsed.Title)
		}
	}
	if out.Text == "" && docErr == nil {
		out.Text = fallbackText(doc)
	}

	out.Confidence = confidence(out)
	return out
}

// extractTitle prefers og:title, then <title>, then the first h1.
func extractTitle(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(title); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// extractPublishedAt checks publish-date meta tags and <time> elements.
func extractPublishedAt(doc *goquery.Document) *time.Time {
	candidates := make([]string, 0, 4)

	for _, selector := range []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[name="publish-date"]`,
	} {
		if v, ok := doc.Find(selector).Attr("content"); ok {
			candidates = append(candidates, v)
		}
	}
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		candidates = append(candidates, v)
	}

	for _, raw := range candidates {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t
			}
		}
	}
	return nil
}

// fallbackText collects text from common article containers when readability
// produced nothing.
func fallbackText(doc *goquery.Document) string {
	for _, selector := range []string{"article", "main", `div[class*="content"]`} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return collapseWhitespace(text)
		}
	}
	return collapseWhitespace(strings.TrimSpace(doc.Find("body").Text()))
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// confidence scores an extraction: body text dominates, title and date top
// it up.
func confidence(a article) float64 {
	var score float64
	switch {
	case len(a.Text) >= 400:
		score += 0.5
	case len(a.Text) >= 100:
		score += 0.3
	case len(a.Text) > 0:
		score += 0.1
	}
	if a.Title != "" {
		score += 0.3
	}
	if a.PublishedAt != nil {
		score += 0.2
	}
	return score
}
