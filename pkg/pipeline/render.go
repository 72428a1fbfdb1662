package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/graphize/pkg/graph"
	"github.com/matzehuels/graphize/pkg/observability"
	"github.com/matzehuels/graphize/pkg/render/nodelink"
	"github.com/matzehuels/graphize/pkg/tree"
)

// Render generates output artifacts in the requested formats. Options must
// have passed ValidateForRender.
//
// The json format works for every tree, the empty one included. Drawing
// formats fail with [ErrNothingToDraw] for the empty tree.
func Render(ctx context.Context, s *tree.State, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, err := render(ctx, s, opts)

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, s *tree.State, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// DOT and the Graphviz result are shared by the drawing formats.
	var (
		dot    string
		drawn  *nodelink.Result
		dotErr error
	)
	needDOT := func() (string, error) {
		if dot == "" && dotErr == nil {
			dot, dotErr = nodelink.ToDOT(s, opts.NodelinkOptions())
		}
		return dot, dotErr
	}
	needDrawn := func() (*nodelink.Result, error) {
		if drawn != nil {
			return drawn, nil
		}
		d, err := needDOT()
		if err != nil {
			return nil, err
		}
		drawn, err = nodelink.Render(ctx, d, opts.Viewport())
		return drawn, err
	}

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalTree(s)
		case FormatDOT:
			var d string
			if d, err = needDOT(); err == nil {
				data = []byte(d)
			}
		case FormatSVG:
			var r *nodelink.Result
			if r, err = needDrawn(); err == nil {
				data = r.SVG
			}
		case FormatLayout:
			var r *nodelink.Result
			if r, err = needDrawn(); err == nil {
				data, err = marshalLayout(r)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
