package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"content-sync/pkg/youtube"
)

func transcriptCommand(opts *rootOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "transcript <video-id-or-url>",
		Short: "Fetch the caption track of a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			if lang == "" {
				lang = a.cfg.TranscriptLang
			}

			segments, err := a.transcripts.Fetch(cmd.Context(), args[0], youtube.Options{Lang: lang})
			if err != nil {
				if kind := youtube.KindOf(err); kind != 0 {
					return fmt.Errorf("%s: %w", kind, err)
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(segments)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "caption language code (default TRANSCRIPT_LANG)")
	return cmd
}
