package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/repository"
	"daily-brief/internal/resilience/apperr"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/resilience/retry"
	"daily-brief/internal/usecase/collect"
)

// fetchedPage carries a page body with its final URL through the breaker.
type fetchedPage struct {
	body     []byte
	finalURL *url.URL
}

// NewsletterCollector scrapes a newsletter web page and stores the extracted
// article. The source ID is the page URL.
type NewsletterCollector struct {
	client         *Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retrier        *retry.Executor
	contents       repository.ContentRepository
	logger         *slog.Logger
	now            func() time.Time
}

// NewNewsletterCollector creates a newsletter collector over the shared HTTP
// client and content store.
func NewNewsletterCollector(client *Client, contents repository.ContentRepository) (*NewsletterCollector, error) {
	retrier, err := retry.New(retry.CollectorConfig())
	if err != nil {
		return nil, err
	}
	return &NewsletterCollector{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NewsletterScrapeConfig()),
		retrier:        retrier,
		contents:       contents,
		logger:         slog.Default(),
		now:            time.Now,
	}, nil
}

var _ collect.Collector = (*NewsletterCollector)(nil)

// Attempt fetches the page, extracts the article, and stores it. Every
// failure is converted into a failed outcome; nothing escapes as an error.
func (c *NewsletterCollector) Attempt(ctx context.Context, status *entity.SourceStatus) collect.Outcome {
	page, err := retry.DoValue(ctx, c.retrier, "scrape newsletter", func() (fetchedPage, error) {
		result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			body, finalURL, err := c.client.GetHTML(ctx, status.SourceID)
			if err != nil {
				return nil, err
			}
			return fetchedPage{body: body, finalURL: finalURL}, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				c.logger.Warn("newsletter scrape circuit open, request rejected",
					slog.String("source_id", status.SourceID))
			}
			return fetchedPage{}, err
		}
		return result.(fetchedPage), nil
	})
	if err != nil {
		return collect.Failed(apperr.Message(err))
	}

	extracted := extractArticle(page.body, page.finalURL)
	if extracted.Text == "" {
		return collect.Failed("no readable content found")
	}
	if extracted.Confidence < 0.5 {
		c.logger.Warn("low-confidence extraction",
			slog.String("source_id", status.SourceID),
			slog.Float64("confidence", extracted.Confidence))
	}

	contentURL := status.SourceID
	if page.finalURL != nil {
		contentURL = page.finalURL.String()
	}

	exists, err := c.contents.ExistsByURL(ctx, contentURL)
	if err != nil {
		return collect.Failed(fmt.Sprintf("check existing content: %v", err))
	}
	if exists {
		metrics.RecordContentDuplicate(string(entity.SourceTypeNewsletter))
		c.logger.Debug("content already stored, skipping",
			slog.String("source_id", status.SourceID))
		return collect.Succeeded()
	}

	item := &entity.ContentItem{
		SourceID:    status.SourceID,
		SourceType:  entity.SourceTypeNewsletter,
		Title:       extracted.Title,
		ContentText: extracted.Text,
		ContentURL:  contentURL,
		PublishedAt: extracted.PublishedAt,
		CollectedAt: c.now(),
	}
	if _, err := c.contents.Insert(ctx, item); err != nil {
		return collect.Failed(fmt.Sprintf("store content: %v", err))
	}
	metrics.RecordContentStored(string(entity.SourceTypeNewsletter))

	c.logger.Info("newsletter collected",
		slog.String("source_id", status.SourceID),
		slog.String("title", extracted.Title),
		slog.Int("content_length", len(extracted.Text)),
		slog.Float64("confidence", extracted.Confidence))
	return collect.Succeeded()
}
