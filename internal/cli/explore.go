package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/live"
	"github.com/matzehuels/graphize/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorFail)
	valuePaneStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorFaint).
				Padding(0, 1)
)

// valuePaneLines bounds the value preview below the tree.
const valuePaneLines = 12

// exploreCommand creates the explore command, an interactive tree browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "explore [file|-]",
		Short: "Browse a document's tree interactively",
		Long: `Browse a document's tree interactively.

With --watch the file is re-read whenever it changes. If the new text does not
parse, the previous tree stays on screen and the error is shown below it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, name, err := c.readDocument(cmd, args)
			if err != nil {
				return err
			}
			if follow && name == "stdin" {
				return errs.New(errs.ErrCodeInvalidInput, "--watch needs a file argument")
			}

			runner := c.newRunner(ctx, false)
			defer runner.Close()

			popts := c.settings().PipelineOptions()
			doc := live.New(live.Config{Source: name, Runner: runner, Options: popts})
			if _, _, err := doc.Update(ctx, text); err != nil {
				return err
			}

			p := tea.NewProgram(NewExploreModel(name, doc.State()), tea.WithAltScreen(), tea.WithContext(ctx))
			if follow {
				go func() {
					_ = c.followDocument(ctx, name, doc, func(u update) {
						p.Send(stateMsg{state: u.state, revision: u.revision, err: u.err})
					})
				}()
			}
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload the file when it changes")
	cmd.Flags().Duration("debounce", 0, "quiet period before reloading a changed file")
	addParseFlags(cmd.Flags())

	return cmd
}

// =============================================================================
// ExploreModel - Interactive tree browser
// =============================================================================

// stateMsg delivers a reloaded document to the model.
type stateMsg struct {
	state    *tree.State
	revision uint64
	err      error
}

// exploreRow is one visible line of the browser.
type exploreRow struct {
	node   tree.Node
	indent int
	leaf   bool
}

// ExploreModel is the bubbletea model for browsing a tree. Containers can be
// expanded and collapsed; the selected node's value is shown below.
type ExploreModel struct {
	Source    string
	State     *tree.State
	Cursor    int
	Offset    int
	Height    int
	ShowValue bool
	Revision  uint64
	Err       error

	children map[string][]tree.Node
	expanded map[string]bool
	rows     []exploreRow
}

// NewExploreModel creates a browser with the root expanded.
func NewExploreModel(source string, s *tree.State) ExploreModel {
	m := ExploreModel{
		Source:    source,
		Height:    20,
		ShowValue: true,
		expanded:  map[string]bool{tree.RootID: true},
	}
	m.setState(s)
	return m
}

// setState swaps in a new tree, keeping expansion and selection by node ID
// where the nodes still exist.
func (m *ExploreModel) setState(s *tree.State) {
	var selected string
	if m.Cursor < len(m.rows) {
		selected = m.rows[m.Cursor].node.ID
	}

	m.State = s
	m.children = childIndex(s)
	m.rebuild()

	m.Cursor = 0
	for i, r := range m.rows {
		if r.node.ID == selected {
			m.Cursor = i
			break
		}
	}
	m.scroll()
}

// rebuild flattens the expanded part of the tree into rows.
func (m *ExploreModel) rebuild() {
	m.rows = nil
	if m.State.IsEmpty() {
		return
	}
	var walk func(n tree.Node, indent int)
	walk = func(n tree.Node, indent int) {
		kids := m.children[n.ID]
		m.rows = append(m.rows, exploreRow{node: n, indent: indent, leaf: len(kids) == 0})
		if !m.expanded[n.ID] {
			return
		}
		for _, k := range kids {
			walk(k, indent+1)
		}
	}
	for _, r := range m.State.Roots() {
		walk(r, 0)
	}
}

// Selected returns the node under the cursor.
func (m ExploreModel) Selected() (tree.Node, bool) {
	if m.Cursor >= len(m.rows) {
		return tree.Node{}, false
	}
	return m.rows[m.Cursor].node, true
}

// Rows returns the IDs of the visible nodes in display order.
func (m ExploreModel) Rows() []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.node.ID
	}
	return ids
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "right", "l", "enter":
			m.setExpanded(true)
		case "left", "h":
			m.collapseOrParent()
		case " ":
			if n, ok := m.Selected(); ok {
				m.setExpanded(!m.expanded[n.ID])
			}
		case "v":
			m.ShowValue = !m.ShowValue
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.ShowValue {
			m.Height -= valuePaneLines + 2
		}
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	case stateMsg:
		m.Err = msg.err
		if msg.err == nil && msg.state != nil {
			m.Revision = msg.revision
			m.setState(msg.state)
		}
	}
	return m, nil
}

func (m *ExploreModel) setExpanded(open bool) {
	n, ok := m.Selected()
	if !ok || m.rows[m.Cursor].leaf {
		return
	}
	m.expanded[n.ID] = open
	m.rebuild()
}

// collapseOrParent collapses an open container, or moves to the parent.
func (m *ExploreModel) collapseOrParent() {
	n, ok := m.Selected()
	if !ok {
		return
	}
	if m.expanded[n.ID] && !m.rows[m.Cursor].leaf {
		m.setExpanded(false)
		return
	}
	indent := m.rows[m.Cursor].indent
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.rows[i].indent < indent {
			m.Cursor = i
			return
		}
	}
}

// scroll keeps the cursor inside the visible window.
func (m *ExploreModel) scroll() {
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(len(m.rows)-1, 0)
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Source))
	if m.State != nil {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · depth %d", len(m.State.Nodes), m.State.Depth)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  →/← expand/collapse  v value  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty document)"))
		b.WriteString("\n")
	}

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if !r.leaf {
			marker = "+ "
			if m.expanded[r.node.ID] {
				marker = "- "
			}
		}

		line := cursor + strings.Repeat("  ", r.indent) + marker + r.node.Text
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.rows) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
		b.WriteString("\n")
	}

	if m.ShowValue {
		if n, ok := m.Selected(); ok {
			b.WriteString(valuePaneStyle.Render(clipLines(string(n.Data.Value.IndentJSON()), valuePaneLines)))
			b.WriteString("\n")
		}
	}

	if m.Err != nil {
		b.WriteString(listErrorStyle.Render(markFail + " " + errs.UserMessage(m.Err)))
		b.WriteString("\n")
	}

	return b.String()
}

// clipLines keeps the first n lines of s, marking the cut.
func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(append(lines[:n], "…"), "\n")
}
