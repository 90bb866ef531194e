package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"content-sync/pkg/domain"
	"content-sync/pkg/httpclient"
)

// FeedSource lists the items of an RSS or Atom feed
type FeedSource struct {
	feedURL    string
	client     *httpclient.HTTPClient
	feedParser *gofeed.Parser
}

// NewFeedSource creates a new feed source. client may be nil.
func NewFeedSource(feedURL string, client *httpclient.HTTPClient) *FeedSource {
	return &FeedSource{
		feedURL:    feedURL,
		client:     client,
		feedParser: gofeed.NewParser(),
	}
}

// Entries fetches and parses the feed
func (s *FeedSource) Entries(ctx context.Context) ([]domain.Entry, error) {
	feed, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	entries := make([]domain.Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		entries = append(entries, domain.Entry{
			Title:       item.Title,
			URL:         item.Link,
			CreatedTime: itemTime(item),
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid URLs found in feed items")
	}

	return entries, nil
}

func (s *FeedSource) fetch(ctx context.Context) (*gofeed.Feed, error) {
	if s.client == nil {
		return s.feedParser.ParseURLWithContext(s.feedURL, ctx)
	}
	body, err := s.client.FetchBody(ctx, s.feedURL, nil)
	if err != nil {
		return nil, err
	}
	return s.feedParser.ParseString(string(body))
}

func itemTime(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	return item.Published
}
