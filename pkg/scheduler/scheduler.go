// Package scheduler triggers batch syncs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
)

// Runner runs one sync
type Runner interface {
	Run(ctx context.Context) (domain.SyncResult, error)
}

// Standard 5-field expressions plus descriptors such as @daily and @every 1h
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler runs a Runner on a cron schedule. A tick that arrives while the
// previous run is still going is skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	runner Runner
	logger logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New validates spec and creates a stopped scheduler
func New(spec string, runner Runner, log logger.Logger) (*Scheduler, error) {
	if _, err := cronParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}

	log = logger.OrNop(log)
	cl := cronLogger{log}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		spec:   spec,
		runner: runner,
		logger: log,
	}, nil
}

// Start schedules the runner. Runs receive a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}
	s.cron.Start()

	s.logger.Info("Sync scheduler started",
		logger.String("schedule", s.spec),
		logger.String("next_run", s.Next().Format(time.RFC3339)),
	)
	return nil
}

// Stop cancels a run in progress and waits for it to return
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Sync scheduler stopped")
}

// Next returns the next scheduled run, or the zero time before Start
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) runOnce() {
	s.logger.Info("Scheduled sync triggered")
	result, err := s.runner.Run(s.ctx)
	if err != nil {
		s.logger.Error("Scheduled sync failed", logger.Error(err))
		return
	}
	s.logger.Info("Scheduled sync finished",
		logger.String("run_id", result.RunID),
		logger.Int("scraped", result.EntriesScraped),
		logger.Int("scrape_errors", result.ScrapeErrors),
	)
}

// cronLogger adapts Logger to cron.Logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, logger.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, logger.Error(err), logger.Any("details", keysAndValues))
}
