package tree

import (
	"errors"
	"fmt"

	"github.com/matzehuels/graphize/pkg/value"
)

// RootID is the ID of the root node of every non-empty State.
const RootID = "#"

// Node is one box in the diagram.
type Node struct {
	ID    string // path-based, unique within a State
	Text  string // display label
	Depth int    // distance from the root, which is 0
	Data  Data
}

// Data is the pass-through payload a renderer uses to export a node's value
// or the whole document. The builder itself never reads it.
type Data struct {
	Value value.Value  // this node's own value
	Tree  *value.Value // the document root, shared by every node of a State
}

// Edge links a parent node to a child node.
type Edge struct {
	ID   string
	From string
	To   string
}

// State is the output of a build. It is never modified once returned.
type State struct {
	Nodes []Node
	Edges []Edge
	Depth int

	// Root is the decoded document, nil for the empty state.
	Root *value.Value
}

// Empty returns the "nothing to show" state.
func Empty() *State {
	return &State{}
}

// IsEmpty reports whether s has no nodes and no edges.
func (s *State) IsEmpty() bool {
	return s == nil || (len(s.Nodes) == 0 && len(s.Edges) == 0)
}

// Node returns the node with the given ID.
func (s *State) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the direct children of id in document order.
func (s *State) Children(id string) []Node {
	var out []Node
	for _, e := range s.Edges {
		if e.From != id {
			continue
		}
		if n, ok := s.Node(e.To); ok {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns every node without an incoming edge. A valid non-empty State
// has exactly one.
func (s *State) Roots() []Node {
	hasParent := make(map[string]bool, len(s.Edges))
	for _, e := range s.Edges {
		hasParent[e.To] = true
	}
	var out []Node
	for _, n := range s.Nodes {
		if !hasParent[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// MaxZoom is the zoom-in limit for a diagram of the given depth. Deeper trees
// allow more zoom.
func MaxZoom(depth int) float64 {
	return float64(depth + 1)
}

// Validation errors returned by [State.Validate].
var (
	ErrDuplicateID  = errors.New("duplicate id")
	ErrDanglingEdge = errors.New("edge references unknown node")
	ErrNotATree     = errors.New("nodes and edges do not form a single rooted tree")
	ErrBadDepth     = errors.New("depth does not match tree")
)

// Validate checks that s forms a single rooted tree: unique IDs, edge
// endpoints that exist, one root, one parent per other node, every node
// reachable from the root, node depths one more than their parent's, and
// s.Depth equal to the deepest node.
func (s *State) Validate() error {
	if s.IsEmpty() {
		if s.Depth != 0 {
			return fmt.Errorf("%w: empty state with depth %d", ErrBadDepth, s.Depth)
		}
		return nil
	}

	nodes := make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		if _, ok := nodes[n.ID]; ok {
			return fmt.Errorf("%w: node %q", ErrDuplicateID, n.ID)
		}
		nodes[n.ID] = i
	}

	edgeIDs := make(map[string]struct{}, len(s.Edges))
	parent := make(map[string]string, len(s.Edges))
	children := make(map[string][]string, len(s.Nodes))
	for _, e := range s.Edges {
		if _, ok := edgeIDs[e.ID]; ok {
			return fmt.Errorf("%w: edge %q", ErrDuplicateID, e.ID)
		}
		edgeIDs[e.ID] = struct{}{}
		if _, ok := nodes[e.From]; !ok {
			return fmt.Errorf("%w: %q", ErrDanglingEdge, e.From)
		}
		if _, ok := nodes[e.To]; !ok {
			return fmt.Errorf("%w: %q", ErrDanglingEdge, e.To)
		}
		if _, ok := parent[e.To]; ok {
			return fmt.Errorf("%w: %q has two parents", ErrNotATree, e.To)
		}
		parent[e.To] = e.From
		children[e.From] = append(children[e.From], e.To)
	}

	roots := s.Roots()
	if len(roots) != 1 {
		return fmt.Errorf("%w: %d roots", ErrNotATree, len(roots))
	}

	maxDepth := 0
	seen := 0
	stack := []string{roots[0].ID}
	if roots[0].Depth != 0 {
		return fmt.Errorf("%w: root at depth %d", ErrBadDepth, roots[0].Depth)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen++
		d := s.Nodes[nodes[id]].Depth
		maxDepth = max(maxDepth, d)
		for _, c := range children[id] {
			if s.Nodes[nodes[c]].Depth != d+1 {
				return fmt.Errorf("%w: node %q", ErrBadDepth, c)
			}
			stack = append(stack, c)
		}
	}
	if seen != len(s.Nodes) {
		return fmt.Errorf("%w: %d nodes unreachable from root", ErrNotATree, len(s.Nodes)-seen)
	}
	if maxDepth != s.Depth {
		return fmt.Errorf("%w: depth %d, deepest node %d", ErrBadDepth, s.Depth, maxDepth)
	}
	return nil
}
