// Package nodelink renders built trees as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// nodes appear as boxes connected by arrows. Layout is delegated entirely to
// Graphviz; the package only describes the tree and sizes the result.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot, err := nodelink.ToDOT(st, nodelink.Options{Direction: nodelink.Down})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Viewport{Width: 1280, Height: 720})
//
// An empty tree has nothing to draw: [ToDOT] returns [ErrNothingToDraw] and
// callers show no diagram instead of an error.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Direction: DOWN, LEFT, UP or RIGHT; rotate with [NextDirection]
//   - Detailed: When true, node labels include the node ID and depth
//
// # Pane Size
//
// [Render] lays the graph out once, reads back every node's box, and sizes
// the drawing with [PaneSize]: the boxes' extent plus a 100px margin, never
// smaller than the viewport. The SVG viewBox is centred on the drawing.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process layout and
// SVG rendering. No external Graphviz installation is needed.
package nodelink
