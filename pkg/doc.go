// Package pkg provides the core libraries for graphize, which turns JSON and
// YAML documents into tree diagrams.
//
// # Overview
//
// A document goes through three stages. Its text is decoded into a generic
// value, the value is expanded into a rooted tree of labelled nodes, and the
// tree is drawn by Graphviz:
//
//	document text (JSON or YAML)
//	         ↓
//	    [decode] package (text → [value.Value])
//	         ↓
//	    [tree] package (value → nodes, edges, depth)
//	         ↓
//	    [render/nodelink] package (tree → DOT → SVG / layout boxes)
//
// [pipeline] runs these stages with validation and caching and is shared by
// the CLI and the HTTP server.
//
// # Quick Start
//
//	st, err := tree.Parse(`{"name": "Alice", "pets": ["Rex", "Mia"]}`)
//	dot, err := nodelink.ToDOT(st, nodelink.Options{Direction: nodelink.Down})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Viewport{Width: 800, Height: 600})
//
// # Main Packages
//
// ## Domain
//
// [value] - Ordered, format-neutral document values.
//
// [decode] - JSON and YAML decoding with format auto-detection.
//
// [tree] - Tree construction, labels, node IDs and zoom bounds.
//
// [graph] - The JSON wire form of a tree.
//
// [render/nodelink] - DOT generation and in-process Graphviz rendering.
//
// ## Orchestration
//
// [pipeline] - Parse and render with option validation and caching.
//
// [live] - A document that keeps its last good tree across edits.
//
// [watcher] - File change notification with debouncing.
//
// [server] - HTTP API and server-sent event stream for a live document.
//
// ## Infrastructure
//
// [cache] - File, memory, Redis and MongoDB cache backends.
//
// [config] - Layered configuration from defaults, file, environment and flags.
//
// [pubsub] - Topic fan-out to server-sent event subscribers.
//
// [errors] - Coded errors with user messages, HTTP statuses and exit codes.
//
// [observability] - Log hooks for the pipeline, cache and live document.
//
// [value]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/value
// [value.Value]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/value#Value
// [decode]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/decode
// [tree]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/tree
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/pipeline
// [live]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/live
// [watcher]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/watcher
// [server]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/config
// [pubsub]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/pubsub
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphize/pkg/observability
package pkg
