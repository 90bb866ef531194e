package main

import (
	"context"
	"fmt"

	"content-sync/pkg/config"
	"content-sync/pkg/content"
	"content-sync/pkg/db"
	"content-sync/pkg/httpclient"
	"content-sync/pkg/logger"
	"content-sync/pkg/pipeline"
	"content-sync/pkg/source"
	"content-sync/pkg/syncservice"
	"content-sync/pkg/urls"
	"content-sync/pkg/youtube"
)

// app holds the components shared by the commands
type app struct {
	cfg          *config.Config
	log          logger.Logger
	source       source.Source
	orchestrator *pipeline.Orchestrator
	transcripts  *youtube.TranscriptFetcher
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	// stdout stays free for command output
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		OutputPaths: []string{"stderr", cfg.LogPath},
	})
	if err != nil {
		return nil, err
	}

	client := httpclient.NewClient(httpclient.BrowserClient, cfg.HTTPTimeout)

	src, err := source.New(cfg, client, log)
	if err != nil {
		return nil, err
	}

	parser := content.NewGoqueryParser()
	transcripts := youtube.NewTranscriptFetcher(client, youtube.WithLogger(log))
	web := content.NewWebExtractor(client, parser, log, webOptions(cfg)...)
	yt := content.NewYouTubeExtractor(client, parser, transcripts, cfg.TranscriptLang, log)

	return &app{
		cfg:          cfg,
		log:          log,
		source:       src,
		orchestrator: pipeline.NewOrchestrator(web, yt, log),
		transcripts:  transcripts,
	}, nil
}

func webOptions(cfg *config.Config) []content.WebOption {
	var opts []content.WebOption
	if cfg.ReadabilityFallback {
		opts = append(opts, content.WithReadabilityFallback())
	}
	return opts
}

func (a *app) close() {
	_ = a.log.Sync()
}

// openSync opens the store and the optional visited cache and builds the sync
// service over them. The returned func closes both.
func (a *app) openSync(ctx context.Context, maxEntries int) (*syncservice.Service, func(), error) {
	store, err := db.Open(ctx, a.cfg, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	var visited urls.VisitedStore
	var redisVisited *db.RedisVisited
	if a.cfg.RedisAddr != "" {
		redisVisited, err = db.NewRedisVisited(ctx, a.cfg.RedisAddr)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to open visited cache: %w", err)
		}
		visited = redisVisited
	}

	svc := syncservice.NewService(syncservice.Config{
		Source:     a.source,
		Store:      store,
		Extractor:  a.orchestrator,
		Visited:    visited,
		VisitedTTL: a.cfg.VisitedTTL,
		BatchSize:  a.cfg.MaxConcurrentScrapes,
		BatchDelay: a.cfg.ScrapeDelay(),
		MaxEntries: maxEntries,
		Logger:     a.log,
	})

	closeAll := func() {
		if redisVisited != nil {
			_ = redisVisited.Close()
		}
		if err := store.Close(); err != nil {
			a.log.Warn("Failed to close store", logger.Error(err))
		}
	}
	return svc, closeAll, nil
}
