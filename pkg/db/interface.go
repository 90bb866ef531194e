package db

import (
	"context"
	"database/sql"
	"time"

	"content-sync/pkg/domain"
)

// DBProvider is an interface for database clients that provide access to a sql.DB handle.
// This allows the SQLite, Postgres and Supabase clients to back the same SQLStore.
type DBProvider interface {
	DB() *sql.DB
	Close() error
}

// EntryChanges lists the entry URLs a sync found new or changed
type EntryChanges struct {
	Added   []string
	Updated []string
}

// Queue returns the URLs to scrape: added first, then updated
func (c EntryChanges) Queue() []string {
	queue := make([]string, 0, len(c.Added)+len(c.Updated))
	queue = append(queue, c.Added...)
	return append(queue, c.Updated...)
}

// Store persists entries, extraction results and run history
type Store interface {
	Init(ctx context.Context) error
	SyncEntries(ctx context.Context, entries []domain.Entry, now time.Time) (EntryChanges, error)
	SaveRecord(ctx context.Context, rec domain.Record, now time.Time) error
	RecordSync(ctx context.Context, result domain.SyncResult) error
	History(ctx context.Context, limit int) ([]domain.SyncResult, error)
	Close() error
}
