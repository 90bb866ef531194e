package worker

import (
	"context"
	"time"

	"content-sync/pkg/logger"
	"content-sync/pkg/metrics"
)

// ProcessFunc handles a single URL
type ProcessFunc func(ctx context.Context, url string) error

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Stats summarizes a batched run
type Stats struct {
	BatchSizes []int
	Succeeded  int
	Failed     int
}

// Config holds configuration for Manager
type Config struct {
	// BatchSize is the maximum number of URLs in flight at once
	BatchSize int
	// Delay is inserted between consecutive batches, not after the last
	Delay  time.Duration
	Logger logger.Logger
	// Sleep defaults to a context-aware timer
	Sleep SleepFunc
}

// Manager processes URLs in fixed-size concurrent batches with a pause between batches
type Manager struct {
	batchSize int
	delay     time.Duration
	sleep     SleepFunc
	logger    logger.Logger
}

// NewManager creates a new batch manager
func NewManager(cfg Config) *Manager {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	return &Manager{
		batchSize: cfg.BatchSize,
		delay:     cfg.Delay,
		sleep:     cfg.Sleep,
		logger:    logger.OrNop(cfg.Logger),
	}
}

// ProcessURLs runs process over urls, at most BatchSize at a time. A batch
// completes fully before the delay and the next batch start. Individual
// failures are counted, not returned; the error is non-nil only when ctx
// ends between batches.
func (m *Manager) ProcessURLs(ctx context.Context, urls []string, process ProcessFunc) (Stats, error) {
	var stats Stats
	total := (len(urls) + m.batchSize - 1) / m.batchSize

	for start, n := 0, 1; start < len(urls); start, n = start+m.batchSize, n+1 {
		if start > 0 && m.delay > 0 {
			if err := m.sleep(ctx, m.delay); err != nil {
				return stats, err
			}
		}

		end := min(start+m.batchSize, len(urls))
		batch := urls[start:end]
		m.logger.Info("Processing scrape batch",
			logger.Int("batch", n),
			logger.Int("batches", total),
			logger.Int("size", len(batch)),
		)
		metrics.BatchesTotal.Inc()

		ok, failed := m.processBatch(ctx, batch, process)
		stats.BatchSizes = append(stats.BatchSizes, len(batch))
		stats.Succeeded += ok
		stats.Failed += failed
	}

	m.logger.Info("Completed batched processing",
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("total", len(urls)),
	)
	return stats, nil
}

func (m *Manager) processBatch(ctx context.Context, batch []string, process ProcessFunc) (int, int) {
	type result struct {
		url string
		err error
	}
	resultsChan := make(chan result, len(batch))

	for _, url := range batch {
		go func() {
			resultsChan <- result{url: url, err: process(ctx, url)}
		}()
	}

	var ok, failed int
	for range batch {
		res := <-resultsChan
		if res.err != nil {
			failed++
			m.logger.Warn("Error processing URL", logger.String("url", res.url), logger.Error(res.err))
			continue
		}
		ok++
	}
	return ok, failed
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
