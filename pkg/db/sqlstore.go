package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
)

// SQLStore implements Store over any DBProvider. Queries are written with ?
// placeholders and rebound for the dialect.
type SQLStore struct {
	provider DBProvider
	db       *sqlx.DB
	dialect  Dialect
	logger   logger.Logger
}

// NewSQLStore wraps a connected provider
func NewSQLStore(provider DBProvider, dialect Dialect, log logger.Logger) *SQLStore {
	return &SQLStore{
		provider: provider,
		db:       sqlx.NewDb(provider.DB(), dialect.driverName()),
		dialect:  dialect,
		logger:   logger.OrNop(log),
	}
}

// Init creates the tables if they do not exist
func (s *SQLStore) Init(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	s.logger.Info("Database initialized", logger.String("dialect", string(s.dialect)))
	return nil
}

// SyncEntries upserts entries into content in one transaction. An unknown URL
// is added; a known URL whose title changed is updated.
func (s *SQLStore) SyncEntries(ctx context.Context, entries []domain.Entry, now time.Time) (EntryChanges, error) {
	var changes EntryChanges

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return changes, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := formatTime(now)
	for _, entry := range entries {
		if entry.URL == "" {
			continue
		}

		var title sql.NullString
		err := tx.GetContext(ctx, &title, tx.Rebind(`SELECT title FROM content WHERE url = ?`), entry.URL)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, tx.Rebind(
				`INSERT INTO content (url, title, created_at, consumed_at, last_updated) VALUES (?, ?, ?, ?, ?)`),
				entry.URL, entry.Title, ts, nullString(entry.CreatedTime), ts)
			if err != nil {
				return changes, fmt.Errorf("failed to insert content %s: %w", entry.URL, err)
			}
			changes.Added = append(changes.Added, entry.URL)
		case err != nil:
			return changes, fmt.Errorf("failed to read content %s: %w", entry.URL, err)
		case title.String != entry.Title:
			_, err = tx.ExecContext(ctx, tx.Rebind(
				`UPDATE content SET title = ?, consumed_at = COALESCE(?, consumed_at), last_updated = ? WHERE url = ?`),
				entry.Title, nullString(entry.CreatedTime), ts, entry.URL)
			if err != nil {
				return changes, fmt.Errorf("failed to update content %s: %w", entry.URL, err)
			}
			changes.Updated = append(changes.Updated, entry.URL)
		}
	}

	if err := tx.Commit(); err != nil {
		return EntryChanges{}, fmt.Errorf("failed to commit sync transaction: %w", err)
	}

	s.logger.Info("Base sync completed",
		logger.Int("added", len(changes.Added)),
		logger.Int("updated", len(changes.Updated)),
	)
	return changes, nil
}

// SaveRecord writes a successful extraction. The content title is kept when
// the row exists so that change detection keeps comparing entry titles.
// Stored transcript rows are replaced only when the record carries segments.
func (s *SQLStore) SaveRecord(ctx context.Context, rec domain.Record, now time.Time) error {
	if rec.Fallback() {
		return fmt.Errorf("refusing to save fallback record for %s", rec.URL())
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	url := rec.URL()
	ts := formatTime(now)

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO content (url, title, created_at, consumed_at, last_updated, scrape_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			consumed_at = COALESCE(excluded.consumed_at, content.consumed_at),
			scrape_at = excluded.scrape_at`),
		url, rec.Title(), ts, nullString(rec.ConsumedAt), ts, ts)
	if err != nil {
		return fmt.Errorf("failed to upsert content %s: %w", url, err)
	}

	meta := recordMetadata(rec)
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO metadata (url, og_title, og_description, og_image, keywords)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			og_title = excluded.og_title,
			og_description = excluded.og_description,
			og_image = excluded.og_image,
			keywords = excluded.keywords`),
		url, meta.OGTitle, meta.OGDescription, meta.OGImage, meta.Keywords)
	if err != nil {
		return fmt.Errorf("failed to upsert metadata %s: %w", url, err)
	}

	switch rec.Kind {
	case domain.KindWeb:
		err = s.saveWeb(ctx, tx, rec.Web)
	case domain.KindYouTube:
		err = s.saveYouTube(ctx, tx, rec.YouTube)
	default:
		err = fmt.Errorf("unknown record kind %q", rec.Kind)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit record %s: %w", url, err)
	}
	return nil
}

func (s *SQLStore) saveWeb(ctx context.Context, tx *sqlx.Tx, c *domain.ExtractedWebContent) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO web (url, full_content) VALUES (?, ?)
		ON CONFLICT (url) DO UPDATE SET full_content = excluded.full_content`),
		c.URL, c.FullContent)
	if err != nil {
		return fmt.Errorf("failed to upsert web content %s: %w", c.URL, err)
	}
	return nil
}

func (s *SQLStore) saveYouTube(ctx context.Context, tx *sqlx.Tx, c *domain.ExtractedYouTubeContent) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO youtube (url, video_id, channel_name, description, duration) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			video_id = excluded.video_id,
			channel_name = excluded.channel_name,
			description = excluded.description,
			duration = excluded.duration`),
		c.URL, c.VideoID, c.ChannelName, c.Description, c.MetaData.Duration)
	if err != nil {
		return fmt.Errorf("failed to upsert youtube content %s: %w", c.URL, err)
	}

	if len(c.Transcript) == 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM transcript WHERE url = ?`), c.URL); err != nil {
		return fmt.Errorf("failed to clear transcript %s: %w", c.URL, err)
	}

	insert := tx.Rebind(`INSERT INTO transcript (url, text, duration, "offset", lang) VALUES (?, ?, ?, ?, ?)`)
	for _, seg := range c.Transcript {
		if _, err := tx.ExecContext(ctx, insert, c.URL, seg.Text, seg.Duration, seg.Offset, seg.Lang); err != nil {
			return fmt.Errorf("failed to insert transcript segment %s: %w", c.URL, err)
		}
	}
	return nil
}

// historyRow is the sync_history row shape; sync_time is stored as text
type historyRow struct {
	RunID          sql.NullString `db:"run_id"`
	SyncTime       string         `db:"sync_time"`
	EntriesAdded   int            `db:"entries_added"`
	EntriesUpdated int            `db:"entries_updated"`
	EntriesScraped int            `db:"entries_scraped"`
	ScrapeErrors   int            `db:"scrape_errors"`
}

// RecordSync inserts one sync_history row
func (s *SQLStore) RecordSync(ctx context.Context, result domain.SyncResult) error {
	row := historyRow{
		RunID:          sql.NullString{String: result.RunID, Valid: result.RunID != ""},
		SyncTime:       formatTime(result.SyncTime),
		EntriesAdded:   result.EntriesAdded,
		EntriesUpdated: result.EntriesUpdated,
		EntriesScraped: result.EntriesScraped,
		ScrapeErrors:   result.ScrapeErrors,
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sync_history (run_id, sync_time, entries_added, entries_updated, entries_scraped, scrape_errors)
		VALUES (:run_id, :sync_time, :entries_added, :entries_updated, :entries_scraped, :scrape_errors)`, row)
	if err != nil {
		return fmt.Errorf("failed to record sync history: %w", err)
	}
	return nil
}

// History returns up to limit sync_history rows, newest first
func (s *SQLStore) History(ctx context.Context, limit int) ([]domain.SyncResult, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []historyRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT run_id, sync_time, entries_added, entries_updated, entries_scraped, scrape_errors
		FROM sync_history ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}

	results := make([]domain.SyncResult, 0, len(rows))
	for _, row := range rows {
		syncTime, err := time.Parse(time.RFC3339Nano, row.SyncTime)
		if err != nil {
			s.logger.Warn("Unparsable sync_time", logger.String("sync_time", row.SyncTime), logger.Error(err))
		}
		results = append(results, domain.SyncResult{
			RunID:          row.RunID.String,
			SyncTime:       syncTime,
			EntriesAdded:   row.EntriesAdded,
			EntriesUpdated: row.EntriesUpdated,
			EntriesScraped: row.EntriesScraped,
			ScrapeErrors:   row.ScrapeErrors,
		})
	}
	return results, nil
}

// Close closes the provider
func (s *SQLStore) Close() error {
	return s.provider.Close()
}

func recordMetadata(rec domain.Record) domain.WebMetaData {
	if rec.Kind == domain.KindYouTube {
		m := rec.YouTube.MetaData
		return domain.WebMetaData{
			OGTitle:       m.OGTitle,
			OGDescription: m.OGDescription,
			OGImage:       m.OGImage,
			Keywords:      m.Keywords,
		}
	}
	return rec.Web.MetaData
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nullString maps "" to SQL NULL
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
