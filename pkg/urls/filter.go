package urls

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// UrlFilter defines the interface for URL filtering
type UrlFilter interface {
	ShouldKeep(ctx context.Context, url string) (bool, error)
}

// SchemeFilter keeps only http and https URLs
type SchemeFilter struct{}

// NewSchemeFilter creates a new scheme filter
func NewSchemeFilter() *SchemeFilter {
	return &SchemeFilter{}
}

// ShouldKeep returns false for unparsable URLs and non-http(s) schemes
func (f *SchemeFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false, nil
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https", nil
}

// VisitedStore records which URLs were scraped recently
type VisitedStore interface {
	IsVisited(ctx context.Context, url string) (bool, error)
	MarkVisited(ctx context.Context, url string, expiry time.Duration) error
}

// VisitedFilter filters out URLs scraped within the store's expiry window
type VisitedFilter struct {
	store VisitedStore
}

// NewVisitedFilter creates a new visited filter
func NewVisitedFilter(store VisitedStore) *VisitedFilter {
	return &VisitedFilter{store: store}
}

// ShouldKeep returns false if the URL is marked as visited
func (f *VisitedFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	visited, err := f.store.IsVisited(ctx, urlStr)
	if err != nil {
		return false, fmt.Errorf("failed to check visited state: %w", err)
	}
	return !visited, nil
}

// Apply runs every filter over urls and returns those kept by all, in order
func Apply(ctx context.Context, urls []string, filters ...UrlFilter) ([]string, error) {
	if len(filters) == 0 {
		return urls, nil
	}

	filtered := make([]string, 0, len(urls))
	for _, urlStr := range urls {
		keep := true
		for _, f := range filters {
			shouldKeep, err := f.ShouldKeep(ctx, urlStr)
			if err != nil {
				return nil, fmt.Errorf("filter error for URL %s: %w", urlStr, err)
			}
			if !shouldKeep {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, urlStr)
		}
	}
	return filtered, nil
}
