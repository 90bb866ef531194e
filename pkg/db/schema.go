package db

import "fmt"

// Dialect selects the SQL flavor of a SQLStore
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// driverName is the database/sql driver the dialect is opened with
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) serialKey() string {
	if d == DialectPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (d Dialect) realType() string {
	if d == DialectPostgres {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}

// schema returns the CREATE statements in dependency order.
// Timestamps are RFC 3339 text.
func (d Dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS content (
			url TEXT PRIMARY KEY,
			title TEXT,
			created_at TEXT,
			consumed_at TEXT,
			last_updated TEXT,
			scrape_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS metadata (
			url TEXT PRIMARY KEY REFERENCES content(url),
			og_title TEXT,
			og_description TEXT,
			og_image TEXT,
			keywords TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS web (
			url TEXT PRIMARY KEY REFERENCES content(url),
			full_content TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS youtube (
			url TEXT PRIMARY KEY REFERENCES content(url),
			video_id TEXT,
			channel_name TEXT,
			description TEXT,
			duration TEXT
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transcript (
			id %s,
			url TEXT REFERENCES youtube(url),
			text TEXT,
			duration %s,
			"offset" %s,
			lang TEXT
		)`, d.serialKey(), d.realType(), d.realType()),
		`CREATE INDEX IF NOT EXISTS transcript_url_idx ON transcript (url)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sync_history (
			id %s,
			run_id TEXT,
			sync_time TEXT,
			entries_added INTEGER,
			entries_updated INTEGER,
			entries_scraped INTEGER,
			scrape_errors INTEGER
		)`, d.serialKey()),
	}
}
