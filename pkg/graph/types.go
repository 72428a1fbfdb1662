package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/graphize/pkg/decode"
	"github.com/matzehuels/graphize/pkg/tree"
	"github.com/matzehuels/graphize/pkg/value"
)

// =============================================================================
// Tree - Wire Format
// =============================================================================

// Tree is the canonical serialization format for built trees.
// Used for API responses, storage, caching, and rendering collaborators.
type Tree struct {
	Nodes []Node          `json:"nodes"`
	Edges []Edge          `json:"edges"`
	Depth int             `json:"depth"`
	Tree  json.RawMessage `json:"tree,omitempty"` // Whole document, omitted when empty
}

// IsEmpty reports whether the tree has nothing to draw.
func (t Tree) IsEmpty() bool {
	return len(t.Nodes) == 0 && len(t.Edges) == 0
}

// Node is one box of the diagram.
type Node struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Depth int      `json:"depth"`
	Data  NodeData `json:"data"`
}

// NodeData carries the node's own value for copy-node exports.
type NodeData struct {
	Node json.RawMessage `json:"node"`
}

// Edge is a directed parent → child link.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// =============================================================================
// State ↔ Tree Conversion
// =============================================================================

// FromState converts a built tree to its serialization format.
// Node and edge order is kept.
func FromState(s *tree.State) Tree {
	out := Tree{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
		Depth: s.Depth,
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = Node{
			ID:    n.ID,
			Text:  n.Text,
			Depth: n.Depth,
			Data:  NodeData{Node: n.Data.Value.AppendJSON(nil)},
		}
	}
	for i, e := range s.Edges {
		out.Edges[i] = Edge{ID: e.ID, From: e.From, To: e.To}
	}
	if s.Root != nil {
		out.Tree = s.Root.AppendJSON(nil)
	}
	return out
}

var rawDecoder, _ = decode.New(decode.Options{Format: decode.FormatJSON})

// ToState converts a serialized tree back into a validated State. Every node
// shares the single decoded document as its Data.Tree.
func ToState(t Tree) (*tree.State, error) {
	if t.IsEmpty() {
		if t.Depth != 0 {
			return nil, fmt.Errorf("empty tree with depth %d", t.Depth)
		}
		return tree.Empty(), nil
	}

	s := &tree.State{
		Nodes: make([]tree.Node, len(t.Nodes)),
		Edges: make([]tree.Edge, len(t.Edges)),
		Depth: t.Depth,
	}
	if len(t.Tree) > 0 {
		root, err := decodeRaw(t.Tree)
		if err != nil {
			return nil, fmt.Errorf("tree: %w", err)
		}
		s.Root = &root
	}

	for i, n := range t.Nodes {
		v, err := decodeRaw(n.Data.Node)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		s.Nodes[i] = tree.Node{
			ID:    n.ID,
			Text:  n.Text,
			Depth: n.Depth,
			Data:  tree.Data{Value: v, Tree: s.Root},
		}
	}
	for i, e := range t.Edges {
		s.Edges[i] = tree.Edge{ID: e.ID, From: e.From, To: e.To}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// decodeRaw decodes a JSON value kept as raw bytes. A missing value is null.
func decodeRaw(raw json.RawMessage) (value.Value, error) {
	if len(raw) == 0 {
		return value.Null(), nil
	}
	return rawDecoder.Decode(string(raw))
}
