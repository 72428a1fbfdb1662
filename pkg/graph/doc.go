// Package graph provides the serialization format for built trees.
//
// This package defines the canonical wire format for graphize's tree data,
// used for JSON files, API responses, caching, and rendering collaborators.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory
// representation and external formats:
//
//   - [Tree], [Node], [Edge]: Serialization types (this package)
//   - pkg/tree.State: In-memory tree built from a document
//
// Use [FromState]/[ToState] to convert between them.
//
// # Tree Serialization
//
// Trees use a node-link JSON format. Each node carries its own value under
// data.node; the whole document is written once, at top level, under tree:
//
//	{
//	  "nodes": [
//	    {"id": "#", "text": "root", "depth": 0, "data": {"node": {"a": 1}}},
//	    {"id": "#/a", "text": "a: 1", "depth": 1, "data": {"node": 1}}
//	  ],
//	  "edges": [{"id": "#->#/a", "from": "#", "to": "#/a"}],
//	  "depth": 1,
//	  "tree": {"a": 1}
//	}
//
// Common operations:
//
//	st, _ := graph.ReadTreeFile("tree.json")    // File → State
//	graph.WriteTreeFile(st, "output.json")      // State → File
//	data, _ := graph.MarshalTree(st)            // State → []byte
//	st, _ = graph.UnmarshalTree(data)           // []byte → State
//
// Mapping order is preserved in data.node and tree, so a node's value can be
// copied out and parsed again to reproduce the same subtree.
//
// # Validation
//
// [ToState] rejects trees whose edges reference unknown nodes, that have
// duplicate IDs, or that do not form a single rooted tree.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
