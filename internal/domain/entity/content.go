package entity

import "time"

// ContentItem is one piece of collected content (a scraped newsletter article
// or a video entry). Collectors persist these; the resilience core only cares
// that an attempt produced one or failed.
type ContentItem struct {
	ID          int64
	SourceID    string
	SourceType  SourceType
	Title       string
	ContentText string
	ContentURL  string
	PublishedAt *time.Time
	CollectedAt time.Time
}

// Validate checks the minimum fields required to store a content item.
func (c *ContentItem) Validate() error {
	if c.SourceID == "" {
		return &ValidationError{Field: "source_id", Message: "must not be empty"}
	}
	if !c.SourceType.Valid() {
		return &ValidationError{Field: "source_type", Message: "unknown source type"}
	}
	if c.ContentURL == "" {
		return &ValidationError{Field: "content_url", Message: "must not be empty"}
	}
	if c.CollectedAt.IsZero() {
		return &ValidationError{Field: "collected_at", Message: "must be set"}
	}
	return nil
}
