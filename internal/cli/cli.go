// Package cli implements the graphize command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/graphize/pkg/buildinfo"
	"github.com/matzehuels/graphize/pkg/cache"
	"github.com/matzehuels/graphize/pkg/config"
	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/live"
	"github.com/matzehuels/graphize/pkg/observability"
	"github.com/matzehuels/graphize/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphize"

	// stdinArg names standard input as the document.
	stdinArg = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// flagKeys maps command-line flags to configuration keys. Flags set on the
// command line override the config file and the environment.
var flagKeys = map[string]string{
	"cache":      "cache.backend",
	"input":      "decode.format",
	"max-depth":  "decode.max_depth",
	"max-label":  "label.max",
	"root-label": "label.root",
	"direction":  "render.direction",
	"width":      "render.width",
	"height":     "render.height",
	"detailed":   "render.detailed",
	"addr":       "serve.addr",
	"debounce":   "watch.debounce",
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Graphize turns JSON and YAML documents into node-link trees",
		Long: `Graphize parses a JSON or YAML document into a tree of nodes and edges,
one node per value, and draws it as a node-link diagram.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.String("cache", "", "cache backend: "+strings.Join(cache.Backends, ", "))

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose and loads the
// layered configuration, with the command's flags on top.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Install()
	}

	cfg, err := config.Load(c.configPath, cmd.Flags(), flagKeys)
	if err != nil {
		return err
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	c.cfg = cfg
	return nil
}

// settings returns the loaded configuration, falling back to defaults when a
// command runs without the root's setup (as in tests).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		cfg, err := config.Load("", nil, nil)
		if err != nil {
			c.Logger.Warn("using built-in defaults", "err", err)
			cfg = &config.Config{}
		}
		c.cfg = cfg
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. A
// cache that cannot be opened is reported and replaced by no cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	opts := c.settings().CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	ch, err := cache.Open(ctx, opts)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", opts.Backend, "err", err)
		ch = cache.NewNullCache()
	}
	return pipeline.NewRunner(ch, nil, c.Logger)
}

// =============================================================================
// Flags
// =============================================================================

// addParseFlags registers the flags that shape the tree.
func addParseFlags(fs *pflag.FlagSet) {
	fs.String("input", "", "input format: auto (default), json, yaml, toml")
	fs.Int("max-depth", 0, "stop descending below this depth (0 = unlimited)")
	fs.Int("max-label", 0, "truncate strings in labels to this many characters (negative = never)")
	fs.String("root-label", "", "label of the root node")
}

// addRenderFlags registers the flags that shape the diagram.
func addRenderFlags(fs *pflag.FlagSet) {
	fs.String("direction", "", "tree growth direction: DOWN (default), RIGHT, UP, LEFT")
	fs.Float64("width", 0, "viewport width")
	fs.Float64("height", 0, "viewport height")
	fs.Bool("detailed", false, "show node depth in labels")
}

// =============================================================================
// Input Helpers
// =============================================================================

// readDocument reads the document named by args, or standard input when
// args is empty or "-". It returns the document text and a display name.
func (c *CLI) readDocument(cmd *cobra.Command, args []string) (string, string, error) {
	limit := c.settings().Serve.MaxBody
	if len(args) == 0 || args[0] == stdinArg {
		text, err := readLimited(cmd.InOrStdin(), limit)
		return text, "stdin", err
	}
	text, err := live.ReadFile(args[0], limit)
	return text, args[0], err
}

// readLimited reads r up to limit bytes; longer input is rejected.
func readLimited(r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		limit = errs.MaxDocumentSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "read input")
	}
	if err := errs.ValidateDocumentSize(int64(len(data)), limit); err != nil {
		return "", err
	}
	return string(data), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == stdinArg {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
