package pipeline

import (
	"context"
	"sync"

	"content-sync/pkg/content"
	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
	"content-sync/pkg/urls"
)

// WebContentExtractor extracts generic web pages
type WebContentExtractor interface {
	Extract(ctx context.Context, url string) content.Result[domain.ExtractedWebContent]
}

// YouTubeContentExtractor extracts YouTube watch pages
type YouTubeContentExtractor interface {
	Extract(ctx context.Context, url string) content.Result[domain.ExtractedYouTubeContent]
}

// Orchestrator classifies entry URLs, runs the matching extractor for each and
// merges entry data into the results
type Orchestrator struct {
	web     WebContentExtractor
	youtube YouTubeContentExtractor
	logger  logger.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(web WebContentExtractor, youtube YouTubeContentExtractor, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		web:     web,
		youtube: youtube,
		logger:  logger.OrNop(log),
	}
}

// Run produces one record per entry with a non-empty URL: web records first,
// then YouTube records, each group in entry order. Both groups are extracted
// concurrently and every URL within a group is extracted concurrently.
// A failed page yields a fallback record; Run itself never fails.
func (o *Orchestrator) Run(ctx context.Context, entries []domain.Entry) []domain.Record {
	links := urls.Classify(domain.EntryURLs(entries))
	o.logger.Info("Classified entry URLs",
		logger.Int("web", len(links.Web)),
		logger.Int("youtube", len(links.YouTube)),
	)

	var webRecords, youtubeRecords []domain.Record
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		webRecords = fanOut(ctx, links.Web, o.extractWeb)
	}()
	go func() {
		defer wg.Done()
		youtubeRecords = fanOut(ctx, links.YouTube, o.extractYouTube)
	}()
	wg.Wait()

	index := indexEntries(entries)
	records := make([]domain.Record, 0, len(webRecords)+len(youtubeRecords))
	records = append(records, webRecords...)
	records = append(records, youtubeRecords...)
	for i := range records {
		if entry, ok := index[records[i].URL()]; ok {
			Enrich(&records[i], entry)
		}
	}
	return records
}

// ExtractURL classifies a single URL and extracts it with the matching extractor
func (o *Orchestrator) ExtractURL(ctx context.Context, url string) domain.Record {
	if urls.KindOf(url) == domain.KindYouTube {
		return o.extractYouTube(ctx, url)
	}
	return o.extractWeb(ctx, url)
}

func (o *Orchestrator) extractWeb(ctx context.Context, url string) domain.Record {
	res := o.web.Extract(ctx, url)
	return domain.NewWebRecord(res.Content, res.Err)
}

func (o *Orchestrator) extractYouTube(ctx context.Context, url string) domain.Record {
	res := o.youtube.Extract(ctx, url)
	return domain.NewYouTubeRecord(res.Content, res.Err)
}

// fanOut extracts every URL concurrently and returns the records in input order
func fanOut(ctx context.Context, urls []string, extract func(context.Context, string) domain.Record) []domain.Record {
	records := make([]domain.Record, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records[i] = extract(ctx, u)
		}()
	}
	wg.Wait()
	return records
}

// indexEntries maps each URL to the first entry carrying it
func indexEntries(entries []domain.Entry) map[string]domain.Entry {
	index := make(map[string]domain.Entry, len(entries))
	for _, e := range entries {
		if _, seen := index[e.URL]; !seen {
			index[e.URL] = e
		}
	}
	return index
}

// Enrich merges the originating entry into a record: consumedAt from the
// entry's creation time and, for YouTube, the entry title when present
func Enrich(rec *domain.Record, entry domain.Entry) {
	if entry.CreatedTime != "" {
		rec.ConsumedAt = entry.CreatedTime
	}
	if rec.Kind == domain.KindYouTube && entry.Title != "" {
		rec.YouTube.Title = entry.Title
	}
}
