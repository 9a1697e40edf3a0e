// ABOUTME: render subcommand turning a saved HTML page into a reader document
// ABOUTME: Runs extraction and interactive post-processing without a browser

package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"manabi-reader/core/document"
	"manabi-reader/core/pipeline"
	timeutil "manabi-reader/pkg/utils/time"
)

func newRenderCmd(c *cli) *cobra.Command {
	var (
		pageURL      string
		minLength    int
		fontSize     int
		collapseRuby bool
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Build a reader document from an HTML file",
		Long: `Extract the article from an HTML file and print the finished reader document.

Examples:
  readerctl render page.html --url https://example.com/a
  curl -s https://example.com/a | readerctl render - --url https://example.com/a
  readerctl render page.html --url https://example.com/a --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			parsed, err := url.Parse(pageURL)
			if err != nil || parsed.Scheme == "" {
				return fmt.Errorf("--url must be an absolute URL")
			}
			if minLength <= 0 {
				minLength = c.cfg.Reader.MinContentLength
			}
			if fontSize <= 0 {
				fontSize = c.cfg.Reader.FontSizePx
			}

			out, err := c.pipeline().Run(cmd.Context(), pipeline.Input{
				URL:              pageURL,
				HTML:             string(raw),
				MinContentLength: minLength,
			})
			if err != nil {
				return err
			}

			final, err := document.Render(out.Document, document.RenderOptions{
				ProcessOptions: document.ProcessOptions{
					URL:          parsed,
					DefaultTitle: out.Result.Title,
					FontSizePx:   fontSize,
				},
				Rules:           c.siteRules(),
				PublicationDate: timeutil.FormatHeaderDate(out.Result.PublishedTime),
				CollapseRuby:    collapseRuby,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"url":           pageURL,
					"title":         out.Result.Title,
					"byline":        out.Result.Byline,
					"publishedTime": out.Result.PublishedTime,
					"document":      final,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), final)
			return nil
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "URL the HTML was loaded from")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "meaningful content threshold (default from config)")
	cmd.Flags().IntVar(&fontSize, "font-size", 0, "body font size in px (default from config)")
	cmd.Flags().BoolVar(&collapseRuby, "collapse-ruby", false, "hide furigana")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
