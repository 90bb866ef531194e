package source

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"content-sync/pkg/domain"
	"content-sync/pkg/httpclient"
	"content-sync/pkg/logger"
)

// maxIndexDepth bounds sitemap index recursion
const maxIndexDepth = 3

// SitemapSource lists the URLs of a sitemap or sitemap index
type SitemapSource struct {
	sitemapURL string
	client     *httpclient.HTTPClient
	logger     logger.Logger
}

// NewSitemapSource creates a new sitemap source
func NewSitemapSource(sitemapURL string, client *httpclient.HTTPClient, log logger.Logger) *SitemapSource {
	if client == nil {
		client = httpclient.NewClient(httpclient.BrowserClient, 0)
	}
	return &SitemapSource{
		sitemapURL: sitemapURL,
		client:     client,
		logger:     logger.OrNop(log),
	}
}

// Entries fetches the sitemap, following nested sitemap indexes
func (s *SitemapSource) Entries(ctx context.Context) ([]domain.Entry, error) {
	return s.fetch(ctx, s.sitemapURL, 0)
}

func (s *SitemapSource) fetch(ctx context.Context, sitemapURL string, depth int) ([]domain.Entry, error) {
	body, err := s.client.FetchBody(ctx, sitemapURL, map[string]string{"Accept": "application/xml"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap: %w", err)
	}

	// Only the head is inspected to tell an index from a urlset
	head := body[:min(len(body), 512)]
	if !bytes.Contains(head, []byte("sitemapindex")) {
		return parseSitemap(bytes.NewReader(body))
	}

	if depth >= maxIndexDepth {
		return nil, fmt.Errorf("sitemap index nesting exceeds %d levels", maxIndexDepth)
	}

	sitemapURLs, err := parseSitemapIndex(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sitemap index: %w", err)
	}
	if len(sitemapURLs) == 0 {
		return nil, fmt.Errorf("sitemap index contained no sitemap URLs")
	}

	var all []domain.Entry
	for _, child := range sitemapURLs {
		entries, err := s.fetch(ctx, child, depth+1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("Skipping sitemap", logger.String("url", child), logger.Error(err))
			continue
		}
		all = append(all, entries...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("no entries found in any sitemap from index")
	}
	return all, nil
}

func parseSitemapIndex(reader io.Reader) ([]string, error) {
	var index sitemapIndex
	if err := xml.NewDecoder(reader).Decode(&index); err != nil {
		return nil, fmt.Errorf("failed to decode sitemap index XML: %w", err)
	}

	urls := make([]string, 0, len(index.Sitemaps))
	for _, ref := range index.Sitemaps {
		if ref.Location != "" {
			urls = append(urls, ref.Location)
		}
	}
	return urls, nil
}

func parseSitemap(reader io.Reader) ([]domain.Entry, error) {
	var set urlSet
	if err := xml.NewDecoder(reader).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode sitemap XML: %w", err)
	}

	entries := make([]domain.Entry, 0, len(set.URLs))
	for _, u := range set.URLs {
		if u.Location == "" {
			continue
		}
		// Sitemaps carry no titles
		entries = append(entries, domain.Entry{URL: u.Location, CreatedTime: u.LastMod})
	}
	return entries, nil
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Location string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []sitemapRef `xml:"sitemap"`
}

type sitemapRef struct {
	Location string `xml:"loc"`
}
