package cli

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphize/pkg/pipeline"
)

// formatExt maps output formats to file extensions. The wire tree gets
// .tree.json so that it never replaces a JSON input.
var formatExt = map[string]string{
	pipeline.FormatJSON:   ".tree.json",
	pipeline.FormatDOT:    ".dot",
	pipeline.FormatSVG:    ".svg",
	pipeline.FormatLayout: ".layout.json",
}

// knownExts lists the extensions stripped from --output, longest first so
// that ".layout.json" wins over ".json".
var knownExts = []string{".layout.json", ".tree.json", ".json", ".dot", ".svg"}

// renderOpts holds the flags of the render command that are not
// configuration keys.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats []string // output formats: svg, dot, json, layout
	noCache bool
	refresh bool
}

// renderCommand creates the render command for drawing a document.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a document as a node-link diagram",
		Long: `Render a document as a node-link diagram.

With a single format and no --output, the artifact is written to stdout.
With several formats, one file per format is written next to the input (or
next to --output, used as a base path).`,
		Example: `  graphize render config.yaml -o config.svg
  graphize render data.json -f svg,dot --direction right
  cat data.json | graphize render -f dot | dot -Tpng > data.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, layout (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	addParseFlags(cmd.Flags())
	addRenderFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	text, name, err := c.readDocument(cmd, args)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	popts := c.settings().PipelineOptions()
	popts.Text = text
	popts.Refresh = opts.refresh
	popts.Formats = opts.formats

	spin := newSpinner(ctx, "Rendering "+name)
	spin.Start()
	result, err := runner.Execute(ctx, popts)
	spin.Stop()
	if errors.Is(err, pipeline.ErrNothingToDraw) {
		printWarning("Nothing to draw: %s is empty", name)
		return nil
	}
	if err != nil {
		return err
	}
	prog.done("rendered "+name, "formats", opts.formats)

	if len(opts.formats) == 1 && opts.output == "" {
		return writeOutput(cmd.OutOrStdout(), "", result.Artifacts[opts.formats[0]])
	}

	paths := outputPaths(opts.output, args, opts.formats)
	for _, format := range opts.formats {
		if err := writeOutput(cmd.OutOrStdout(), paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", name)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Depth, result.CacheInfo.RenderHit)
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	return nil
}

// outputPaths derives one output path per format. A single format with an
// explicit output uses it verbatim; otherwise files share a base path taken
// from output or the input file name.
func outputPaths(output string, args []string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, args)
	for _, f := range formats {
		paths[f] = base + formatExt[f]
	}
	return paths
}

// basePath strips a known format extension from output, or derives the base
// from the input file. Standard input yields "graphize".
func basePath(output string, args []string) string {
	if output != "" {
		for _, ext := range knownExts {
			if strings.HasSuffix(output, ext) {
				return strings.TrimSuffix(output, ext)
			}
		}
		return output
	}
	if len(args) == 0 || args[0] == stdinArg {
		return appName
	}
	input := args[0]
	return strings.TrimSuffix(input, filepath.Ext(input))
}
