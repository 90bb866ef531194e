// Package syncservice runs batch syncs: list entries, detect changes, scrape
// the changed URLs in batches, persist results and record the run.
package syncservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"content-sync/pkg/db"
	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
	"content-sync/pkg/metrics"
	"content-sync/pkg/source"
	"content-sync/pkg/urls"
	"content-sync/pkg/worker"
)

// ErrRunInProgress is returned when Run is called while another run is active
var ErrRunInProgress = errors.New("sync run already in progress")

// Config holds configuration for the service
type Config struct {
	Source    source.Source
	Store     db.Store
	Extractor worker.URLExtractor
	// Visited is optional; when set, URLs scraped within VisitedTTL are skipped
	Visited    urls.VisitedStore
	VisitedTTL time.Duration
	BatchSize  int
	BatchDelay time.Duration
	// MaxEntries caps the scrape queue; zero means no cap
	MaxEntries int
	Logger     logger.Logger
}

// Service handles batch sync runs
type Service struct {
	source     source.Source
	store      db.Store
	worker     *worker.Worker
	manager    *worker.Manager
	filters    []urls.UrlFilter
	maxEntries int
	logger     logger.Logger
	now        func() time.Time
	running    sync.Mutex
}

// NewService creates a new sync service
func NewService(cfg Config) *Service {
	log := logger.OrNop(cfg.Logger)

	filters := []urls.UrlFilter{urls.NewSchemeFilter()}
	if cfg.Visited != nil {
		filters = append(filters, urls.NewVisitedFilter(cfg.Visited))
	}

	return &Service{
		source: cfg.Source,
		store:  cfg.Store,
		worker: worker.NewWorker(cfg.Extractor, cfg.Store, cfg.Visited, cfg.VisitedTTL, log),
		manager: worker.NewManager(worker.Config{
			BatchSize: cfg.BatchSize,
			Delay:     cfg.BatchDelay,
			Logger:    log,
		}),
		filters:    filters,
		maxEntries: cfg.MaxEntries,
		logger:     log,
		now:        time.Now,
	}
}

// Run performs one sync. Runs do not overlap: a concurrent call returns
// ErrRunInProgress.
func (s *Service) Run(ctx context.Context) (domain.SyncResult, error) {
	if !s.running.TryLock() {
		return domain.SyncResult{}, ErrRunInProgress
	}
	defer s.running.Unlock()

	result := domain.SyncResult{RunID: uuid.NewString(), SyncTime: s.now().UTC()}
	log := s.logger.With(logger.String("run_id", result.RunID))
	log.Info("Starting sync")

	err := s.run(ctx, log, &result)
	metrics.ObserveSync(result, err)
	if err != nil {
		log.Error("Sync failed", logger.Error(err))
		return result, err
	}

	log.Info("Sync and scrape completed",
		logger.Int("added", result.EntriesAdded),
		logger.Int("updated", result.EntriesUpdated),
		logger.Int("scraped", result.EntriesScraped),
		logger.Int("scrape_errors", result.ScrapeErrors),
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, result *domain.SyncResult) error {
	entries, err := source.All(ctx, s.source)
	if err != nil {
		return fmt.Errorf("failed to fetch entries: %w", err)
	}
	log.Info("Fetched entries", logger.Int("entries", len(entries)))

	changes, err := s.store.SyncEntries(ctx, entries, result.SyncTime)
	if err != nil {
		return fmt.Errorf("failed to sync entries: %w", err)
	}
	result.EntriesAdded = len(changes.Added)
	result.EntriesUpdated = len(changes.Updated)

	queue, err := urls.Apply(ctx, changes.Queue(), s.filters...)
	if err != nil {
		return fmt.Errorf("failed to filter URLs: %w", err)
	}
	if s.maxEntries > 0 && len(queue) > s.maxEntries {
		queue = queue[:s.maxEntries]
	}
	log.Info("Starting scraping", logger.Int("urls", len(queue)))

	byURL := indexEntries(entries)
	stats, err := s.manager.ProcessURLs(ctx, queue, func(ctx context.Context, url string) error {
		return s.worker.ProcessEntry(ctx, byURL[url])
	})
	result.EntriesScraped = stats.Succeeded
	result.ScrapeErrors = stats.Failed
	if err != nil {
		return fmt.Errorf("failed to process URLs: %w", err)
	}

	if err := s.store.RecordSync(ctx, *result); err != nil {
		return err
	}
	return nil
}

// indexEntries maps each URL to its first entry
func indexEntries(entries []domain.Entry) map[string]domain.Entry {
	byURL := make(map[string]domain.Entry, len(entries))
	for _, e := range entries {
		if _, ok := byURL[e.URL]; !ok {
			byURL[e.URL] = e
		}
	}
	return byURL
}

// History returns the latest runs, newest first
func (s *Service) History(ctx context.Context, limit int) ([]domain.SyncResult, error) {
	return s.store.History(ctx, limit)
}
