package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"content-sync/pkg/domain"
	"content-sync/pkg/server"
)

func extractCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [url...]",
		Short: "Extract content from URLs, or from the source's first page",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			var entries []domain.Entry
			if len(args) > 0 {
				for _, u := range args {
					entries = append(entries, domain.Entry{URL: u})
				}
			} else {
				entries, err = a.source.Entries(ctx)
				if err != nil {
					return err
				}
			}

			records := a.orchestrator.Run(ctx, entries)
			if records == nil {
				records = []domain.Record{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(server.ExtractResponse{ExtractedContent: records})
		},
	}
}
