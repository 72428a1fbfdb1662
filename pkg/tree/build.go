package tree

import (
	"strconv"
	"strings"

	"github.com/matzehuels/graphize/pkg/decode"
	"github.com/matzehuels/graphize/pkg/value"
)

// Option configures [Build] and [Parse].
type Option func(*config)

type config struct {
	maxLabel  int
	rootLabel string
	decoder   *decode.Decoder
}

func newConfig(opts []Option) config {
	c := config{maxLabel: DefaultMaxLabel, rootLabel: DefaultRootLabel}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMaxLabel sets the rune limit for strings inside labels. Zero disables
// truncation.
func WithMaxLabel(n int) Option {
	return func(c *config) { c.maxLabel = max(n, 0) }
}

// WithRootLabel sets the label of the root node of container documents.
func WithRootLabel(s string) Option {
	return func(c *config) {
		if s != "" {
			c.rootLabel = s
		}
	}
}

// WithDecoder makes [Parse] use d instead of the default JSON-then-YAML
// decoder. Build ignores it.
func WithDecoder(d *decode.Decoder) Option {
	return func(c *config) { c.decoder = d }
}

// frame is an open container on the build stack.
type frame struct {
	id    string
	v     value.Value
	depth int
	next  int
}

// Build converts v into a State. It is total: every value yields a valid
// tree.
func Build(v value.Value, opts ...Option) *State {
	cfg := newConfig(opts)

	root := v
	s := &State{Root: &root}

	if v.IsLeaf() {
		s.Nodes = []Node{{
			ID:   RootID,
			Text: Preview(v, cfg.maxLabel),
			Data: Data{Value: v, Tree: s.Root},
		}}
		return s
	}

	s.Nodes = append(s.Nodes, Node{
		ID:   RootID,
		Text: rootLabel(cfg.rootLabel, v),
		Data: Data{Value: v, Tree: s.Root},
	})

	stack := []frame{{id: RootID, v: v}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= top.v.Len() {
			stack = stack[:len(stack)-1]
			continue
		}
		i := top.next
		top.next++

		var key, seg string
		var child value.Value
		if top.v.Kind() == value.KindMapping {
			m := top.v.Member(i)
			key, child = m.Key, m.Value
			seg = EscapeKey(key)
		} else {
			key = strconv.Itoa(i)
			seg, child = key, top.v.Item(i)
		}

		id := top.id + "/" + seg
		depth := top.depth + 1
		s.Nodes = append(s.Nodes, Node{
			ID:    id,
			Text:  ChildLabel(key, child, cfg.maxLabel),
			Depth: depth,
			Data:  Data{Value: child, Tree: s.Root},
		})
		s.Edges = append(s.Edges, Edge{ID: EdgeID(top.id, id), From: top.id, To: id})
		s.Depth = max(s.Depth, depth)

		if child.IsContainer() && child.Len() > 0 {
			stack = append(stack, frame{id: id, v: child, depth: depth})
		}
	}
	return s
}

var keyEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapeKey escapes a mapping key for use as a node ID segment.
func EscapeKey(key string) string {
	return keyEscaper.Replace(key)
}

// EdgeID returns the ID of the edge from one node to another.
func EdgeID(from, to string) string {
	return from + "->" + to
}
