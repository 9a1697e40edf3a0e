// ABOUTME: open subcommand driving the load state machine over a recording surface
// ABOUTME: Prints the document delivered for a stored record

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"manabi-reader/core/content"
	"manabi-reader/core/domain"
	"manabi-reader/core/loader"
	"manabi-reader/core/reconcile"
	"manabi-reader/infrastructure/browser/recorder"
	stdhttp "manabi-reader/infrastructure/http/standard"
)

func newOpenCmd(c *cli) *cobra.Command {
	var (
		timeout time.Duration
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "open <url>",
		Short: "Load a stored record through the reader-mode state machine",
		Long: `Navigate a recording browser surface to the loader URL of a stored record
and print the document the state machine delivered.

Examples:
  readerctl open https://example.com/a --db records.db
  readerctl open https://example.com/a --offline`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := store.LoadRecord(cmd.Context(), target); err != nil {
				return err
			}

			var fetcher *content.Fetcher
			if offline {
				fetcher = content.NewFetcher(nil, c.logger)
			} else {
				fetcher = content.NewFetcher(stdhttp.NewClient(c.cfg.Reader.FetchTimeout), c.logger)
			}

			done := make(chan string, 4)
			surface := recorder.NewSurface()
			ctrl, err := loader.New(loader.Options{
				Store:      store,
				Browser:    surface,
				Fetcher:    fetcher,
				Pipeline:   c.pipeline(),
				Reconciler: reconcile.NewReconciler(store, c.logger),
				SiteRules:  c.siteRules(),
				Logger:     c.logger,
				FontSizePx: c.cfg.Reader.FontSizePx,
				OnComplete: func(url string) {
					select {
					case done <- url:
					default:
					}
				},
			})
			if err != nil {
				return err
			}
			defer ctrl.Close()
			surface.Attach(ctrl.Handle)

			surface.Navigate(domain.LoaderURL(target), "")

			select {
			case <-done:
			case <-time.After(timeout):
				return fmt.Errorf("load of %s did not complete within %s", target, timeout)
			}

			loads := surface.Loads()
			if len(loads) == 0 {
				return fmt.Errorf("nothing was delivered for %s", target)
			}
			last := loads[len(loads)-1]
			state := ctrl.Snapshot()
			fmt.Fprintf(cmd.ErrOrStderr(), "reader mode: %t, delivered: %s\n", state.ReaderMode, last.URL)
			fmt.Fprintln(cmd.OutOrStdout(), last.HTML)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for the load to complete")
	cmd.Flags().BoolVar(&offline, "offline", false, "never fetch original pages")
	return cmd
}
