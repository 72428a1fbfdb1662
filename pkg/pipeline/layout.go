package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/graphize/pkg/render/nodelink"
)

// =============================================================================
// Layout Export
// =============================================================================

// Layout is the serialized form of a Graphviz layout: the pane a drawing
// collaborator should allocate and the box of every node, in points with the
// origin at the top-left corner.
type Layout struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Boxes  []LayoutBox `json:"boxes"`
}

// LayoutBox is the serialized form of [nodelink.Box].
type LayoutBox struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExportLayout converts a rendered result to its serialized layout.
func ExportLayout(r *nodelink.Result) Layout {
	l := Layout{Width: r.Width, Height: r.Height, Boxes: make([]LayoutBox, len(r.Boxes))}
	for i, b := range r.Boxes {
		l.Boxes[i] = LayoutBox{ID: b.ID, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	}
	return l
}

// UnmarshalLayout parses a layout artifact.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	err := json.Unmarshal(data, &l)
	return l, err
}

func marshalLayout(r *nodelink.Result) ([]byte, error) {
	return json.MarshalIndent(ExportLayout(r), "", "  ")
}
