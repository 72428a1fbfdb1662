package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphize/pkg/pipeline"
)

// parseOpts holds the flags of the parse command that are not
// configuration keys.
type parseOpts struct {
	output  string // output file path (stdout if empty)
	noCache bool   // bypass the cache entirely
	refresh bool   // recompute and overwrite cached entries
}

// parseCommand creates the parse command, which writes the wire tree of a
// document as JSON.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a JSON or YAML document into a node/edge tree",
		Long: `Parse a JSON or YAML document into a node/edge tree and write it as JSON.

The document is read from the file argument, or from standard input when the
argument is "-" or missing. Text that is neither JSON nor YAML fails with
"Not valid JSON/YAML content.".`,
		Example: `  graphize parse config.yaml
  curl -s https://api.example.com/user | graphize parse -o user.tree.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	addParseFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, args []string, opts parseOpts) error {
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
	popts.Formats = []string{pipeline.FormatJSON}

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done("parsed "+name, "nodes", result.Stats.NodeCount, "depth", result.Stats.Depth)

	if err := writeOutput(cmd.OutOrStdout(), opts.output, result.Artifacts[pipeline.FormatJSON]); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Parsed %s", name)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Depth, result.CacheInfo.ParseHit)
		printFile(opts.output)
	}
	return nil
}
