package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	lgtree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/tree"
)

// inspectOpts holds the flags of the inspect command.
type inspectOpts struct {
	table bool   // list nodes as a table instead of a tree
	node  string // show one node in full
}

// inspectCommand creates the inspect command, which prints a parsed tree in
// the terminal.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Print a document's tree in the terminal",
		Example: `  graphize inspect config.yaml
  graphize inspect data.json --table
  graphize inspect data.json --node '#/pets/0'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, name, err := c.readDocument(cmd, args)
			if err != nil {
				return err
			}
			runner := c.newRunner(cmd.Context(), false)
			defer runner.Close()

			popts := c.settings().PipelineOptions()
			popts.Text = text
			s, err := runner.Parse(cmd.Context(), popts)
			if err != nil {
				return err
			}
			return writeInspect(cmd.OutOrStdout(), name, s, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.table, "table", false, "list nodes as a table")
	cmd.Flags().StringVar(&opts.node, "node", "", "show the node with this id and its value")
	addParseFlags(cmd.Flags())

	return cmd
}

func writeInspect(w io.Writer, name string, s *tree.State, opts inspectOpts) error {
	if opts.node != "" {
		n, ok := s.Node(opts.node)
		if !ok {
			return errs.New(errs.ErrCodeNotFound, "no node %q in %s", opts.node, name)
		}
		writeNode(w, s, n)
		return nil
	}

	printKeyValue(w, "Source", name)
	printKeyValue(w, "Nodes", strconv.Itoa(len(s.Nodes)))
	printKeyValue(w, "Edges", strconv.Itoa(len(s.Edges)))
	printKeyValue(w, "Depth", strconv.Itoa(s.Depth))
	printKeyValue(w, "Max zoom", strconv.FormatFloat(tree.MaxZoom(s.Depth), 'g', -1, 64))
	if s.IsEmpty() {
		fmt.Fprintln(w, StyleDim.Render("(empty document)"))
		return nil
	}
	fmt.Fprintln(w)

	if opts.table {
		fmt.Fprintln(w, nodeTable(s).Render())
	} else {
		fmt.Fprintln(w, labelTree(s).String())
	}
	return nil
}

func writeNode(w io.Writer, s *tree.State, n tree.Node) {
	v := n.Data.Value
	printKeyValue(w, "ID", n.ID)
	printKeyValue(w, "Label", n.Text)
	printKeyValue(w, "Depth", strconv.Itoa(n.Depth))
	printKeyValue(w, "Kind", v.Kind().String())
	if v.IsContainer() {
		printKeyValue(w, "Children", strconv.Itoa(len(s.Children(n.ID))))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, string(v.IndentJSON()))
}

// childIndex maps each node ID to its children in document order.
func childIndex(s *tree.State) map[string][]tree.Node {
	byID := make(map[string]tree.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		byID[n.ID] = n
	}
	out := make(map[string][]tree.Node, len(s.Nodes))
	for _, e := range s.Edges {
		out[e.From] = append(out[e.From], byID[e.To])
	}
	return out
}

// labelTree renders node labels with lipgloss's tree enumerator.
func labelTree(s *tree.State) *lgtree.Tree {
	children := childIndex(s)
	root := s.Roots()[0]

	var build func(n tree.Node) *lgtree.Tree
	build = func(n tree.Node) *lgtree.Tree {
		t := lgtree.Root(n.Text)
		for _, child := range children[n.ID] {
			if len(children[child.ID]) == 0 {
				t.Child(child.Text)
			} else {
				t.Child(build(child))
			}
		}
		return t
	}

	return build(root).
		Enumerator(lgtree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleTitle).
		ItemStyle(StyleValue)
}

// nodeTable lists every node with its id, depth, kind and label.
func nodeTable(s *tree.State) *table.Table {
	rows := make([][]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		rows = append(rows, []string{n.ID, strconv.Itoa(n.Depth), n.Data.Value.Kind().String(), n.Text})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("ID", "Depth", "Kind", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
}
