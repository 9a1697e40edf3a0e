// ABOUTME: Root command and shared wiring for readerctl subcommands
// ABOUTME: Loads configuration and builds the logger, pipeline and record store

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"manabi-reader/core/document"
	"manabi-reader/core/extractor"
	"manabi-reader/core/interfaces"
	"manabi-reader/core/pipeline"
	"manabi-reader/core/sanitizer"
	"manabi-reader/core/siterules"
	logruslogger "manabi-reader/infrastructure/logger/logrus"
	"manabi-reader/infrastructure/store/sqlite"
	"manabi-reader/pkg/config"
)

// cli holds state shared by all subcommands.
type cli struct {
	dbPath      string
	verbose     bool
	noSiteRules bool

	cfg    *config.Config
	logger interfaces.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "readerctl",
		Short: "Reader mode pipeline tool",
		Long: `readerctl runs the reader-mode pipeline outside the app.

Example usage:
  readerctl render page.html --url https://example.com/a   # Print the reader document
  readerctl ingest feed.xml                                # Store feed entries
  readerctl open https://example.com/a                     # Load a stored record in reader mode`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite record store (default from SQLITE_PATH)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging on stderr")
	root.PersistentFlags().BoolVar(&c.noSiteRules, "no-site-rules", false, "skip host-specific cleanups")

	root.AddCommand(newRenderCmd(c), newIngestCmd(c), newOpenCmd(c), newStatsCmd(c))
	return root
}

func (c *cli) init(stderr io.Writer) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	if c.dbPath == "" {
		c.dbPath = cfg.Store.SQLitePath
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.logger = logruslogger.New(logruslogger.Options{Level: level, Format: "text", Output: stderr})
	return nil
}

func (c *cli) siteRules() document.SiteRules {
	if c.noSiteRules {
		return nil
	}
	return siterules.NewDefaultRegistry(c.logger)
}

func (c *cli) pipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		Extractor: extractor.New(c.logger),
		Sanitizer: sanitizer.New(),
		Logger:    c.logger,
	})
}

func (c *cli) openStore() (*sqlite.Store, error) {
	return sqlite.NewStore(c.dbPath)
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
