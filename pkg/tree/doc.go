// Package tree converts decoded documents into node-and-edge tree graphs.
//
// # Overview
//
// A [State] is the builder's output: an ordered list of [Node] values, an
// ordered list of [Edge] values linking parents to children, and the maximum
// node depth. It is what a rendering collaborator lays out and draws.
//
//	st, err := tree.Parse(`{"name": "Alice", "pets": ["Rex", "Mia"]}`)
//	// st.Nodes: root, name: Alice, pets, 0: Rex, 1: Mia
//	// st.Edges: #->#/name, #->#/pets, #/pets->#/pets/0, #/pets->#/pets/1
//	// st.Depth: 2
//
// # Shape
//
// The nodes and edges always form a single rooted tree. The root sits at
// depth 0 and represents the whole document. Mapping members and sequence
// elements each get one child node. A leaf under a key or index is folded
// into its node's label (name: Alice) rather than getting a node of its own.
// A document that is a single leaf yields a single node.
//
// Nodes and edges are listed in pre-order: every parent comes immediately
// before its subtree, children in document order.
//
// # Identifiers
//
// Node IDs are paths from the root, in the style of JSON Pointer (RFC 6901):
// the root is "#", a member is the parent path plus "/" and the key with "~"
// written as "~0" and "/" as "~1", and an element is the parent path plus
// "/" and its index. Edge IDs are "from->to". IDs depend only on document
// structure, so rebuilding the same input yields the same IDs.
//
// # Labels
//
// See [Preview] and [ChildLabel] for the label convention.
//
// # Empty Results
//
// [Empty] is the "nothing to show" state: no nodes and no edges. [Parse]
// returns it for documents that hold nothing, and renderers treat it as "no
// diagram" rather than as an error.
//
// # Concurrency
//
// Building is pure and uses an explicit stack, so arbitrarily deep documents
// do not grow the goroutine stack. A returned State is never modified and is
// safe to share between goroutines.
package tree
