package main

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"content-sync/pkg/domain"
)

func syncCommand(opts *rootOptions) *cobra.Command {
	var (
		maxEntries int
		history    int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one batch sync and print its counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			svc, closeSync, err := a.openSync(ctx, maxEntries)
			if err != nil {
				return err
			}
			defer closeSync()

			if history > 0 {
				results, err := svc.History(ctx, history)
				if err != nil {
					return err
				}
				renderResults(cmd.OutOrStdout(), results)
				return nil
			}

			result, err := svc.Run(ctx)
			if err != nil {
				return err
			}
			renderResults(cmd.OutOrStdout(), []domain.SyncResult{result})
			return nil
		},
	}

	cmd.Flags().IntVar(&maxEntries, "max-entries", 0, "scrape at most this many URLs (0 means no limit)")
	cmd.Flags().IntVar(&history, "history", 0, "print the last N runs instead of syncing")
	return cmd
}

func renderResults(w io.Writer, results []domain.SyncResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Sync Time", "Added", "Updated", "Scraped", "Errors"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.RunID,
			r.SyncTime.Local().Format(time.DateTime),
			r.EntriesAdded,
			r.EntriesUpdated,
			r.EntriesScraped,
			r.ScrapeErrors,
		})
	}
	t.Render()
}
