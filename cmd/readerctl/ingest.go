// ABOUTME: ingest subcommand storing feed entries from a downloaded feed document
// ABOUTME: Writes feed-entry records into the SQLite record store

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"manabi-reader/core/ingest"
)

func newIngestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file|->",
		Short: "Store the entries of an RSS or Atom document",
		Long: `Parse a feed document that was already downloaded and store each entry
as a feed-entry record. Existing records keep their reader-mode state.

Examples:
  readerctl ingest feed.xml --db records.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := ingest.NewIngester(store, c.logger, c.cfg.Reader.MinContentLength).Ingest(cmd.Context(), raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d created, %d updated, %d skipped\n", res.FeedTitle, res.Created, res.Updated, res.Skipped)
			for _, rec := range res.Records {
				full := ""
				if rec.RSSContainsFullContent {
					full = " (full content)"
				}
				fmt.Fprintf(out, "  %s%s\n", rec.URL, full)
			}
			return nil
		},
	}
}
