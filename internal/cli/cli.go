// Package cli implements the trackermeta command-line interface.
//
// The CLI is a thin front end over the modarchive resolver: it loads the
// config file, applies flags and environment, and prints records with
// lipgloss styling or as JSON.
//
// # Commands
//
//   - info: metadata for one or more module IDs, fetched in parallel
//   - search: filename search, optionally with an interactive picker
//   - lookup: search and show the best match
//   - download: fetch a module file
//   - requests: API requests used by the configured key
//   - anchors: effective HTML anchor offsets
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which shows
// every HTTP attempt and retry. Loggers are passed through context.Context.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackermeta/pkg/buildinfo"
	"github.com/matzehuels/trackermeta/pkg/integrations"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags     globalFlags
	getenv    func(string) string
	transport integrations.Transport
}

type globalFlags struct {
	configPath string
	apiKey     string
	kind       string
	retries    int
	infinite   bool
	logFormat  string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level, log.TextFormatter),
		getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           buildinfo.Project,
		Short:         "Trackermeta looks up tracker modules on The Mod Archive",
		Long:          `Trackermeta resolves module metadata (title, size, format, download counts) and download links from The Mod Archive, by module ID or filename.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseLogFormat(c.flags.logFormat)
			if err != nil {
				return err
			}
			c.Logger.SetFormatter(f)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default <config dir>/trackermeta/config.toml)")
	pf.StringVar(&c.flags.apiKey, "key", "", "Mod Archive API key (overrides MODARCH_KEY)")
	pf.StringVar(&c.flags.kind, "kind", "", "document kind: html or xml (default: xml when a key is set)")
	pf.IntVar(&c.flags.retries, "retries", 0, "maximum attempts per request (default from config)")
	pf.BoolVar(&c.flags.infinite, "infinite-retry", false, "retry transient failures until success or interrupt")
	pf.StringVar(&c.flags.logFormat, "log-format", "text", "log format: text, json or logfmt")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.lookupCommand())
	root.AddCommand(c.downloadCommand())
	root.AddCommand(c.requestsCommand())
	root.AddCommand(c.anchorsCommand())

	return root
}
