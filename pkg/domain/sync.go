package domain

import "time"

// SyncResult summarizes one batch sync run and is persisted as a sync_history row
type SyncResult struct {
	RunID          string    `json:"runId" bson:"run_id"`
	SyncTime       time.Time `json:"syncTime" bson:"sync_time"`
	EntriesAdded   int       `json:"entriesAdded" bson:"entries_added"`
	EntriesUpdated int       `json:"entriesUpdated" bson:"entries_updated"`
	EntriesScraped int       `json:"entriesScraped" bson:"entries_scraped"`
	ScrapeErrors   int       `json:"scrapeErrors" bson:"scrape_errors"`
}
