package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// Viewport is the visible area the diagram is drawn into. The rendered pane
// is never smaller than it.
type Viewport struct {
	Width  float64
	Height float64
}

// Result is a rendered diagram.
type Result struct {
	SVG    []byte
	Width  float64 // pane width
	Height float64 // pane height
	Boxes  []Box
}

// Render lays out a DOT graph, sizes the pane with [PaneSize] and renders
// the SVG.
func Render(ctx context.Context, dot string, vp Viewport) (*Result, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	boxes, err := layout(ctx, gv, dot)
	if err != nil {
		return nil, err
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	w, h := PaneSize(boxes, vp.Width, vp.Height)
	return &Result{
		SVG:    fitViewBox(buf.Bytes(), w, h),
		Width:  w,
		Height: h,
		Boxes:  boxes,
	}, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes sized to the pane.
func RenderSVG(ctx context.Context, dot string, vp Viewport) ([]byte, error) {
	res, err := Render(ctx, dot, vp)
	if err != nil {
		return nil, err
	}
	return res.SVG, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// fitViewBox replaces the root svg tag so the drawing sits centred in a
// pane of the given size.
func fitViewBox(svg []byte, paneW, paneH float64) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	paneW, paneH = max(paneW, w), max(paneH, h)

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`,
		-(paneW-w)/2, -(paneH-h)/2, paneW, paneH, paneW, paneH)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
