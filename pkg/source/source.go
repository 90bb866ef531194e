// Package source provides the entry lists that feed extraction and sync runs.
package source

import (
	"context"
	"fmt"

	"content-sync/pkg/config"
	"content-sync/pkg/domain"
	"content-sync/pkg/httpclient"
	"content-sync/pkg/logger"
)

// Source lists entries to extract
type Source interface {
	Entries(ctx context.Context) ([]domain.Entry, error)
}

// PagedSource can additionally list every entry across all pages
type PagedSource interface {
	Source
	AllEntries(ctx context.Context) ([]domain.Entry, error)
}

// New builds the source selected by cfg.SourceKind
func New(cfg *config.Config, client *httpclient.HTTPClient, log logger.Logger) (Source, error) {
	switch cfg.SourceKind {
	case config.SourceAPI:
		return NewAPIClient(APIConfig{
			BaseURL:       cfg.APIURL,
			RetryAttempts: cfg.FetchRetryAttempts,
			Delay:         cfg.FetchDelay(),
			Client:        client,
			Logger:        log,
		}), nil
	case config.SourceFeed:
		return NewFeedSource(cfg.SourceLocation, client), nil
	case config.SourceSitemap:
		return NewSitemapSource(cfg.SourceLocation, client, log), nil
	case config.SourceFile:
		return NewFileSource(cfg.SourceLocation), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.SourceKind)
	}
}

// All lists every entry of s, following pagination when s supports it
func All(ctx context.Context, s Source) ([]domain.Entry, error) {
	if paged, ok := s.(PagedSource); ok {
		return paged.AllEntries(ctx)
	}
	return s.Entries(ctx)
}
