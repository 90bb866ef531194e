// Package metrics holds the Prometheus collectors of content-sync.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"content-sync/pkg/domain"
)

var (
	// ExtractionsTotal counts page extractions by kind and outcome (ok, fallback)
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentsync_extractions_total",
			Help: "Total number of page extractions.",
		},
		[]string{"kind", "outcome"},
	)

	// ExtractionDuration observes page extraction latency by kind
	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contentsync_extraction_duration_seconds",
			Help:    "Duration of page extractions.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// TranscriptFailures counts transcript fetch failures by error kind
	TranscriptFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentsync_transcript_failures_total",
			Help: "Total number of failed transcript fetches.",
		},
		[]string{"kind"},
	)

	// SyncRunsTotal counts batch sync runs by status (success, failure)
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentsync_sync_runs_total",
			Help: "Total number of batch sync runs.",
		},
		[]string{"status"},
	)

	// SyncEntries counts entries handled by sync runs by stage (added, updated, scraped, errors)
	SyncEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentsync_sync_entries_total",
			Help: "Entries handled by batch sync runs.",
		},
		[]string{"stage"},
	)

	// BatchesTotal counts scrape batches started
	BatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contentsync_scrape_batches_total",
			Help: "Total number of scrape batches.",
		},
	)
)

// ObserveExtraction records the outcome and latency of one extraction
func ObserveExtraction(kind domain.Kind, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "fallback"
	}
	ExtractionsTotal.WithLabelValues(string(kind), outcome).Inc()
	ExtractionDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// ObserveSync records the counts of a finished sync run
func ObserveSync(result domain.SyncResult, err error) {
	if err != nil {
		SyncRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	SyncRunsTotal.WithLabelValues("success").Inc()
	SyncEntries.WithLabelValues("added").Add(float64(result.EntriesAdded))
	SyncEntries.WithLabelValues("updated").Add(float64(result.EntriesUpdated))
	SyncEntries.WithLabelValues("scraped").Add(float64(result.EntriesScraped))
	SyncEntries.WithLabelValues("errors").Add(float64(result.ScrapeErrors))
}
