package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/repository"
	"daily-brief/internal/resilience/apperr"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/resilience/retry"
	"daily-brief/internal/usecase/collect"
)

// videoFeedBase is the channel feed endpoint; the channel ID is appended.
const videoFeedBase = "https://www.youtube.com/feeds/videos.xml?channel_id="

// maxFeedItems bounds how many entries of one feed are stored per attempt.
const maxFeedItems = 10

// VideoCollector reads a video channel's feed and stores its latest entries.
// The source ID is either a channel ID or a full feed URL.
type VideoCollector struct {
	client         *Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retrier        *retry.Executor
	contents       repository.ContentRepository
	logger         *slog.Logger
	now            func() time.Time
}

// NewVideoCollector creates a video collector over the shared HTTP client
// and content store.
func NewVideoCollector(client *Client, contents repository.ContentRepository) (*VideoCollector, error) {
	retrier, err := retry.New(retry.FeedFetchConfig())
	if err != nil {
		return nil, err
	}
	return &VideoCollector{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.VideoFeedConfig()),
		retrier:        retrier,
		contents:       contents,
		logger:         slog.Default(),
		now:            time.Now,
	}, nil
}

var _ collect.Collector = (*VideoCollector)(nil)

// feedURL resolves the source ID to a fetchable feed URL.
func feedURL(sourceID string) string {
	if strings.HasPrefix(sourceID, "http://") || strings.HasPrefix(sourceID, "https://") {
		return sourceID
	}
	return videoFeedBase + sourceID
}

// Attempt fetches the channel feed and stores entries not seen before.
func (c *VideoCollector) Attempt(ctx context.Context, status *entity.SourceStatus) collect.Outcome {
	target := feedURL(status.SourceID)

	feed, err := retry.DoValue(ctx, c.retrier, "fetch video feed", func() (*gofeed.Feed, error) {
		result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.fetchFeed(ctx, target)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				c.logger.Warn("video feed circuit open, request rejected",
					slog.String("source_id", status.SourceID))
			}
			return nil, err
		}
		return result.(*gofeed.Feed), nil
	})
	if err != nil {
		return collect.Failed(apperr.Message(err))
	}

	stored, duplicates := 0, 0
	for i, item := range feed.Items {
		if i >= maxFeedItems {
			break
		}
		if item.Link == "" {
			continue
		}

		exists, err := c.contents.ExistsByURL(ctx, item.Link)
		if err != nil {
			return collect.Failed(fmt.Sprintf("check existing content: %v", err))
		}
		if exists {
			duplicates++
			metrics.RecordContentDuplicate(string(entity.SourceTypeYouTube))
			continue
		}

		content := &entity.ContentItem{
			SourceID:    status.SourceID,
			SourceType:  entity.SourceTypeYouTube,
			Title:       item.Title,
			ContentText: item.Description,
			ContentURL:  item.Link,
			PublishedAt: item.PublishedParsed,
			CollectedAt: c.now(),
		}
		if _, err := c.contents.Insert(ctx, content); err != nil {
			return collect.Failed(fmt.Sprintf("store content: %v", err))
		}
		stored++
		metrics.RecordContentStored(string(entity.SourceTypeYouTube))
	}

	c.logger.Info("video feed collected",
		slog.String("source_id", status.SourceID),
		slog.Int("items_in_feed", len(feed.Items)),
		slog.Int("stored", stored),
		slog.Int("duplicates", duplicates))
	return collect.Succeeded()
}

// fetchFeed performs the actual feed fetch without retry or circuit breaker.
func (c *VideoCollector) fetchFeed(ctx context.Context, target string) (*gofeed.Feed, error) {
	if err := c.client.Wait(ctx); err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	parser.UserAgent = "daily-brief-bot/1.0"
	parser.Client = c.client.HTTPClient()

	feed, err := parser.ParseURLWithContext(target, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, apperr.FromHTTPStatus("fetch video feed", httpErr.StatusCode, httpErr.Status)
		}
		return nil, apperr.Network("fetch video feed", err)
	}
	return feed, nil
}
