package worker

import (
	"context"
	"fmt"
	"time"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
	"content-sync/pkg/pipeline"
	"content-sync/pkg/urls"
)

// URLExtractor extracts a single URL with the extractor for its category
type URLExtractor interface {
	ExtractURL(ctx context.Context, url string) domain.Record
}

// RecordSaver persists extraction results
type RecordSaver interface {
	SaveRecord(ctx context.Context, rec domain.Record, now time.Time) error
}

// Worker scrapes one entry: extract, enrich, save
type Worker struct {
	extractor  URLExtractor
	saver      RecordSaver
	visited    urls.VisitedStore
	visitedTTL time.Duration
	logger     logger.Logger
	now        func() time.Time
}

// NewWorker creates a new worker. visited may be nil.
func NewWorker(extractor URLExtractor, saver RecordSaver, visited urls.VisitedStore, visitedTTL time.Duration, log logger.Logger) *Worker {
	return &Worker{
		extractor:  extractor,
		saver:      saver,
		visited:    visited,
		visitedTTL: visitedTTL,
		logger:     logger.OrNop(log),
		now:        time.Now,
	}
}

// ProcessEntry extracts the entry's URL and saves the record. A fallback
// record is reported as an error and not saved.
func (w *Worker) ProcessEntry(ctx context.Context, entry domain.Entry) error {
	rec := w.extractor.ExtractURL(ctx, entry.URL)
	pipeline.Enrich(&rec, entry)

	if rec.Fallback() {
		return fmt.Errorf("failed to extract content: %w", rec.Err)
	}

	if err := w.saver.SaveRecord(ctx, rec, w.now()); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	if w.visited != nil {
		if err := w.visited.MarkVisited(ctx, entry.URL, w.visitedTTL); err != nil {
			w.logger.Warn("Failed to mark URL visited", logger.String("url", entry.URL), logger.Error(err))
		}
	}

	w.logger.Debug("Scraped entry", logger.String("url", entry.URL), logger.String("kind", string(rec.Kind)))
	return nil
}
