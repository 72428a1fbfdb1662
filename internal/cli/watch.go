package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/live"
	"github.com/matzehuels/graphize/pkg/pipeline"
	"github.com/matzehuels/graphize/pkg/tree"
	"github.com/matzehuels/graphize/pkg/watcher"
)

// update is the outcome of reloading a followed document.
type update struct {
	state    *tree.State // current tree: the new one, or the last good one
	revision uint64
	accepted bool
	err      error
}

// followDocument reloads doc from path after every debounced change until
// ctx is cancelled. Stale reloads are skipped; failed ones are reported
// with the last good tree.
func (c *CLI) followDocument(ctx context.Context, path string, doc *live.Document, onUpdate func(update)) error {
	cfg := c.settings()

	fw, err := watcher.NewFileWatcher(path, c.Logger)
	if err != nil {
		return err
	}
	defer fw.Stop()
	if err := fw.Start(ctx); err != nil {
		return err
	}

	deb := watcher.NewDebouncer(fw.Events(), cfg.Watch.Debounce, cfg.Watch.MaxWait)
	deb.Start(ctx)

	for ev := range deb.Output() {
		c.Logger.Debug("document changed", "path", ev.Path, "events", ev.Count, "removed", ev.Removed)
		state, accepted, err := doc.Reload(ctx, path, cfg.Serve.MaxBody)
		if !accepted && err == nil {
			continue
		}
		onUpdate(update{
			state:    state,
			revision: doc.Snapshot().Revision,
			accepted: accepted,
			err:      err,
		})
	}
	return ctx.Err()
}

// watchOpts holds the flags of the watch command that are not
// configuration keys.
type watchOpts struct {
	output  string
	formats []string
	noCache bool
}

// watchCommand creates the watch command, which re-renders a document
// every time it is saved.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts       watchOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a document whenever it changes",
		Long: `Re-render a document whenever it changes.

Output files are rewritten after every save that parses. A save that does not
parse is reported and the previous output is left in place.`,
		Example: `  graphize watch config.yaml
  graphize watch data.json -f svg,dot -o out/data --debounce 300ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if args[0] == stdinArg {
				return errs.New(errs.ErrCodeInvalidInput, "watch needs a file argument")
			}
			return c.runWatch(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, layout (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Duration("debounce", 0, "quiet period before re-rendering a changed file")
	addParseFlags(cmd.Flags())
	addRenderFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, args []string, opts watchOpts) error {
	path := args[0]
	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	popts := c.settings().PipelineOptions()
	popts.Formats = opts.formats
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	doc := live.New(live.Config{Source: path, Runner: runner, Options: popts})
	paths := outputPaths(opts.output, args, opts.formats)
	w := &watchWriter{runner: runner, opts: popts, paths: paths}

	state, _, err := doc.Reload(ctx, path, c.settings().Serve.MaxBody)
	if err != nil && !errs.Is(err, errs.ErrCodeInvalidContent) {
		return err
	}
	w.report(ctx, update{state: state, revision: doc.Snapshot().Revision, accepted: err == nil, err: err})

	printInfo("Watching %s", path)
	printDetail("Press Ctrl+C to stop")

	err = c.followDocument(ctx, path, doc, func(u update) { w.report(ctx, u) })
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchWriter renders accepted updates to the output files.
type watchWriter struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	paths  map[string]string
}

func (w *watchWriter) report(ctx context.Context, u update) {
	if !u.accepted {
		printError("%s", errs.UserMessage(u.err))
		printDetail("keeping revision %d", u.revision)
		return
	}

	artifacts, hit, err := w.runner.RenderWithCacheInfo(ctx, u.state, w.opts)
	if errors.Is(err, pipeline.ErrNothingToDraw) {
		printWarning("Nothing to draw: document is empty")
		return
	}
	if err != nil {
		printError("render failed: %v", err)
		return
	}
	for _, format := range w.opts.Formats {
		if err := writeOutput(nil, w.paths[format], artifacts[format]); err != nil {
			printError("%v", err)
			return
		}
	}

	printSuccess("Revision %d", u.revision)
	printStats(len(u.state.Nodes), len(u.state.Edges), u.state.Depth, hit)
	for _, format := range w.opts.Formats {
		printFile(w.paths[format])
	}
}
