// ABOUTME: stats subcommand summarizing the SQLite record store
// ABOUTME: Reports how many records exist and how many still lack content

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the record store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database: %v\n", stats["file_path"])
			fmt.Fprintf(out, "records: %v\n", stats["total_records"])
			fmt.Fprintf(out, "without content: %v\n", stats["records_without_content"])
			return nil
		},
	}
}
