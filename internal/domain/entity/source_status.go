package entity

import (
	"fmt"
	"time"
)

// SourceType identifies the kind of external content origin a source is.
// The set is open for extension; collectors are registered per type.
type SourceType string

const (
	// SourceTypeNewsletter is a newsletter web page scraped for articles.
	SourceTypeNewsletter SourceType = "newsletter"

	// SourceTypeYouTube is a YouTube channel read through its video feed.
	SourceTypeYouTube SourceType = "youtube"
)

// Valid reports whether the source type is one of the known types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeNewsletter, SourceTypeYouTube:
		return true
	}
	return false
}

// SourceStatus is the per-source health record tracked by the system.
// Identity is SourceID (a URL or channel handle). The record is created when
// the source is registered and mutated only through the health tracker's
// MarkSuccess/MarkFailure hooks; it is never deleted by this system.
type SourceStatus struct {
	SourceID            string
	SourceType          SourceType
	ConsecutiveFailures int
	LastError           *string
	LastErrorAt         *time.Time
	LastSuccess         *time.Time
	LastCollectedAt     *time.Time
}

// NewSourceStatus returns the default record for a freshly registered source:
// zero failures, all timestamps unset.
func NewSourceStatus(sourceID string, sourceType SourceType) *SourceStatus {
	return &SourceStatus{
		SourceID:   sourceID,
		SourceType: sourceType,
	}
}

// Validate checks the SourceStatus invariants.
// A record with zero consecutive failures must not carry a last error.
func (s *SourceStatus) Validate() error {
	if s.SourceID == "" {
		return &ValidationError{Field: "source_id", Message: "must not be empty"}
	}
	if !s.SourceType.Valid() {
		return &ValidationError{
			Field:   "source_type",
			Message: fmt.Sprintf("unknown source type %q", s.SourceType),
		}
	}
	if s.ConsecutiveFailures < 0 {
		return &ValidationError{Field: "consecutive_failures", Message: "must not be negative"}
	}
	if s.ConsecutiveFailures == 0 && s.LastError != nil {
		return &ValidationError{Field: "last_error", Message: "must be unset when consecutive_failures is 0"}
	}
	return nil
}
