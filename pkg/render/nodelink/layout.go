package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// PaneMargin is added around the laid-out boxes.
const PaneMargin = 100

// pointsPerInch converts Graphviz node sizes to points.
const pointsPerInch = 72

// Box is the laid-out bounds of one node, in points, with the origin at the
// top-left corner of the drawing.
type Box struct {
	ID     string
	X, Y   float64
	Width  float64
	Height float64
}

// PaneSize returns the size of a pane that bounds every box. Each dimension
// is the furthest box edge plus [PaneMargin], or the viewport dimension when
// the boxes fit inside it.
func PaneSize(boxes []Box, minWidth, minHeight float64) (width, height float64) {
	var extentW, extentH float64
	for _, b := range boxes {
		extentW = max(extentW, b.X+b.Width)
		extentH = max(extentH, b.Y+b.Height)
	}

	width, height = minWidth, minHeight
	if extentW >= minWidth {
		width = extentW + PaneMargin
	}
	if extentH >= minHeight {
		height = extentH + PaneMargin
	}
	return width, height
}

// Layout runs Graphviz on dot and returns the box of every node.
func Layout(ctx context.Context, dot string) ([]Box, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	return layout(ctx, gv, dot)
}

func layout(ctx context.Context, gv *graphviz.Graphviz, dot string) ([]Box, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	// The XDOT output is DOT annotated with positions; read it back.
	laid, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	defer laid.Close()

	_, _, _, top, err := parseBB(laid.GetStr("bb"))
	if err != nil {
		return nil, err
	}

	var boxes []Box
	n, err := laid.FirstNode()
	for ; n != nil && err == nil; n, err = laid.NextNode(n) {
		name, err := n.Name()
		if err != nil {
			return nil, fmt.Errorf("node name: %w", err)
		}
		b, err := nodeBox(name, n.GetStr("pos"), n.GetStr("width"), n.GetStr("height"), top)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	if err != nil {
		return nil, fmt.Errorf("walk nodes: %w", err)
	}
	return boxes, nil
}

// nodeBox converts Graphviz node attributes to a Box. Graphviz places the
// node centre at pos with y growing upwards from the bottom of the bounding
// box; top is the bounding box's upper edge.
func nodeBox(id, pos, width, height string, top float64) (Box, error) {
	x, y, ok := strings.Cut(strings.TrimSuffix(pos, "!"), ",")
	if !ok {
		return Box{}, fmt.Errorf("node %q: bad pos %q", id, pos)
	}
	nums, err := parseFloats(x, y, width, height)
	if err != nil {
		return Box{}, fmt.Errorf("node %q: %w", id, err)
	}
	cx, cy := nums[0], nums[1]
	w, h := nums[2]*pointsPerInch, nums[3]*pointsPerInch
	return Box{
		ID:     id,
		X:      cx - w/2,
		Y:      top - cy - h/2,
		Width:  w,
		Height: h,
	}, nil
}

// parseBB parses a Graphviz "llx,lly,urx,ury" bounding box.
func parseBB(bb string) (llx, lly, urx, ury float64, err error) {
	parts := strings.Split(bb, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("bad bounding box %q", bb)
	}
	nums, err := parseFloats(parts...)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return nums[0], nums[1], nums[2], nums[3], nil
}

func parseFloats(ss ...string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		out[i] = f
	}
	return out, nil
}
