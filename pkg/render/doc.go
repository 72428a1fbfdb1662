// Package render groups the drawing back ends for parsed document trees.
//
// # Overview
//
// graphize does not lay out or paint trees itself. A back end takes a
// [tree.State], describes it in a format an external engine understands and
// asks that engine for the picture.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the tree as boxes connected by arrows
// using Graphviz, run in process through go-graphviz.
//
//	dot, err := nodelink.ToDOT(state, nodelink.Options{Direction: nodelink.Right})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Viewport{Width: 800, Height: 600})
//
// The rendered pane always covers the viewport and grows past it, with a
// margin, when the laid-out boxes do not fit.
//
// [tree.State]: github.com/matzehuels/graphize/pkg/tree.State
// [nodelink]: github.com/matzehuels/graphize/pkg/render/nodelink
package render
