package tree

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/graphize/pkg/decode"
	"github.com/matzehuels/graphize/pkg/value"
)

func mustParse(t *testing.T, text string, opts ...Option) *State {
	t.Helper()
	s, err := Parse(text, opts...)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Parse(%q) produced invalid tree: %v", text, err)
	}
	return s
}

// shape summarises the structural parts of a State, ignoring Data.
func shape(s *State) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		fmt.Fprintf(&b, "%s|%s|%d\n", n.ID, n.Text, n.Depth)
	}
	for _, e := range s.Edges {
		fmt.Fprintf(&b, "%s|%s|%s\n", e.ID, e.From, e.To)
	}
	fmt.Fprintf(&b, "depth=%d", s.Depth)
	return b.String()
}

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestParseScenario(t *testing.T) {
	s := mustParse(t, `{"name": "Alice", "pets": ["Rex", "Mia"]}`)

	wantNodes := []struct{ id, text string }{
		{"#", "root"},
		{"#/name", "name: Alice"},
		{"#/pets", "pets"},
		{"#/pets/0", "0: Rex"},
		{"#/pets/1", "1: Mia"},
	}
	if len(s.Nodes) != len(wantNodes) {
		t.Fatalf("got %d nodes, want %d:\n%s", len(s.Nodes), len(wantNodes), shape(s))
	}
	for i, w := range wantNodes {
		if s.Nodes[i].ID != w.id || s.Nodes[i].Text != w.text {
			t.Errorf("node %d = %s %q, want %s %q", i, s.Nodes[i].ID, s.Nodes[i].Text, w.id, w.text)
		}
	}

	wantEdges := [][2]string{
		{"#", "#/name"},
		{"#", "#/pets"},
		{"#/pets", "#/pets/0"},
		{"#/pets", "#/pets/1"},
	}
	if len(s.Edges) != len(wantEdges) {
		t.Fatalf("got %d edges, want %d", len(s.Edges), len(wantEdges))
	}
	for i, w := range wantEdges {
		e := s.Edges[i]
		if e.From != w[0] || e.To != w[1] || e.ID != w[0]+"->"+w[1] {
			t.Errorf("edge %d = %+v, want %s->%s", i, e, w[0], w[1])
		}
	}

	if s.Depth != 2 {
		t.Errorf("Depth = %d, want 2", s.Depth)
	}
}

func TestParseDeterministic(t *testing.T) {
	inputs := []string{
		`{"a": {"b": {"c": 1}}, "d": [1, [2, 3], {"e": null}]}`,
		"list:\n  - x\n  - y: [1, 2]\nflag: true\n",
		`"just a string"`,
		`[]`,
	}

	for _, in := range inputs {
		a := mustParse(t, in)
		b := mustParse(t, in)
		if shape(a) != shape(b) {
			t.Errorf("Parse(%q) not deterministic:\n%s\nvs\n%s", in, shape(a), shape(b))
		}
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{`{"a": {"b": {"c": 1}}}`, 3},
		{`{"a": 1}`, 1},
		{`[[[]]]`, 2},
		{`42`, 0},
		{`{}`, 0},
		{`{"a": [], "b": {"c": [1]}}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := mustParse(t, tt.text)
			if s.Depth != tt.want {
				t.Errorf("Depth = %d, want %d", s.Depth, tt.want)
			}
		})
	}
}

func TestEmptyContainers(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`{}`, "root: {}"},
		{`[]`, "root: []"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := mustParse(t, tt.text)
			if len(s.Nodes) != 1 || len(s.Edges) != 0 || s.Depth != 0 {
				t.Fatalf("got %s", shape(s))
			}
			if s.Nodes[0].Text != tt.want {
				t.Errorf("Text = %q, want %q", s.Nodes[0].Text, tt.want)
			}
		})
	}
}

func TestNestedEmptyContainerIsLeafLabel(t *testing.T) {
	s := mustParse(t, `{"a": {}, "b": []}`)
	if got := ids(s.Nodes); !reflect.DeepEqual(got, []string{"#", "#/a", "#/b"}) {
		t.Fatalf("ids = %v", got)
	}
	if s.Nodes[1].Text != "a: {}" || s.Nodes[2].Text != "b: []" {
		t.Errorf("labels = %q, %q", s.Nodes[1].Text, s.Nodes[2].Text)
	}
}

func TestParseNoContent(t *testing.T) {
	for _, text := range []string{"", "  \n", "# nothing here\n", "---\n"} {
		t.Run(text, func(t *testing.T) {
			s, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse(%q): %v", text, err)
			}
			if !s.IsEmpty() {
				t.Errorf("Parse(%q) = %s, want empty", text, shape(s))
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"garbage", "{not json or yaml::"},
		{"truncated array", "[1, 2"},
		{"truncated object", `{"a": 1`},
		{"member without value", `{"a":`},
		{"lone bracket", "["},
		{"half-typed document", `{"name": "Alice", "pets": ["Rex"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(tt.text)
			if err != decode.ErrDecode {
				t.Fatalf("Parse(%q) err = %v, want decode.ErrDecode", tt.text, err)
			}
			if s != nil {
				t.Errorf("Parse(%q) returned a partial state: %s", tt.text, shape(s))
			}
		})
	}
}

func TestYAMLMatchesJSON(t *testing.T) {
	y := mustParse(t, "a:\n  b: 1\n  c: 2")
	j := mustParse(t, `{"a":{"b":1,"c":2}}`)

	if shape(y) != shape(j) {
		t.Errorf("YAML and JSON differ:\n%s\nvs\n%s", shape(y), shape(j))
	}
}

func TestReparseIdempotent(t *testing.T) {
	inputs := []string{
		`{"name": "Alice", "pets": ["Rex", "Mia"]}`,
		"a:\n  b: 1.50\n  c: [x, {d: ~}]\n",
		`[{"k/ey": "v~"}, [], {}, "", false]`,
	}

	for _, in := range inputs {
		first := mustParse(t, in)
		text := string(first.Nodes[0].Data.Tree.AppendJSON(nil))
		second := mustParse(t, text)

		if shape(first) != shape(second) {
			t.Errorf("re-parse of %q differs:\n%s\nvs\n%s", in, shape(first), shape(second))
		}
	}
}

func TestTreeDataIsShared(t *testing.T) {
	s := mustParse(t, `{"a": [1, 2], "b": {"c": true}}`)

	for _, n := range s.Nodes {
		if n.Data.Tree != s.Root {
			t.Fatalf("node %s does not share the state root", n.ID)
		}
	}
	leaf, _ := s.Node("#/a/1")
	if leaf.Data.Value.Literal() != "2" {
		t.Errorf("#/a/1 value = %s", leaf.Data.Value.AppendJSON(nil))
	}
	if !value.Equal(s.Nodes[0].Data.Value, *s.Root) {
		t.Error("root node value should be the whole document")
	}
}

func TestTopLevelLeaf(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`42`, "42"},
		{`"hello"`, "hello"},
		{`""`, `""`},
		{`null`, "null"},
		{`false`, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := mustParse(t, tt.text)
			if len(s.Nodes) != 1 || s.Nodes[0].ID != RootID || s.Nodes[0].Text != tt.want {
				t.Errorf("got %s, want single node %q", shape(s), tt.want)
			}
		})
	}
}

func TestIDEscaping(t *testing.T) {
	s := mustParse(t, `{"a/b": {"c~d": 1}, "": 2}`)

	want := []string{"#", "#/a~1b", "#/a~1b/c~0d", "#/"}
	if got := ids(s.Nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if s.Nodes[3].Text != `"": 2` {
		t.Errorf("empty key label = %q", s.Nodes[3].Text)
	}
}

func TestPreOrder(t *testing.T) {
	s := mustParse(t, `{"a": {"x": 1, "y": 2}, "b": [3, [4]]}`)

	want := []string{"#", "#/a", "#/a/x", "#/a/y", "#/b", "#/b/0", "#/b/1", "#/b/1/0"}
	if got := ids(s.Nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestBuildOptions(t *testing.T) {
	s := mustParse(t, `{"long": "abcdefghij"}`, WithMaxLabel(4), WithRootLabel("$"))

	if s.Nodes[0].Text != "$" {
		t.Errorf("root label = %q, want $", s.Nodes[0].Text)
	}
	if s.Nodes[1].Text != "long: abcd…" {
		t.Errorf("child label = %q", s.Nodes[1].Text)
	}
}

func TestParseWithDecoder(t *testing.T) {
	dec, err := decode.New(decode.Options{Format: decode.FormatTOML})
	if err != nil {
		t.Fatal(err)
	}
	s := mustParse(t, "a = 1\n[b]\nc = \"x\"\n", WithDecoder(dec))

	want := []string{"#", "#/a", "#/b", "#/b/c"}
	if got := ids(s.Nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestDeepDocument(t *testing.T) {
	const depth = 2000
	text := strings.Repeat(`{"k":`, depth) + "1" + strings.Repeat("}", depth)

	s := mustParse(t, text)
	if s.Depth != depth {
		t.Errorf("Depth = %d, want %d", s.Depth, depth)
	}
	if len(s.Nodes) != depth+1 {
		t.Errorf("len(Nodes) = %d, want %d", len(s.Nodes), depth+1)
	}
}

func TestChildrenAndRoots(t *testing.T) {
	s := mustParse(t, `{"name": "Alice", "pets": ["Rex", "Mia"]}`)

	if got := ids(s.Children("#/pets")); !reflect.DeepEqual(got, []string{"#/pets/0", "#/pets/1"}) {
		t.Errorf("Children(#/pets) = %v", got)
	}
	if got := s.Children("#/name"); len(got) != 0 {
		t.Errorf("Children(#/name) = %v, want none", ids(got))
	}
	roots := s.Roots()
	if len(roots) != 1 || roots[0].ID != RootID {
		t.Errorf("Roots() = %v", ids(roots))
	}
	if _, ok := s.Node("#/missing"); ok {
		t.Error("Node(#/missing) should not be found")
	}
}

func TestValidate(t *testing.T) {
	base := func() *State {
		return &State{
			Nodes: []Node{{ID: "#"}, {ID: "#/a", Depth: 1}},
			Edges: []Edge{{ID: "#->#/a", From: "#", To: "#/a"}},
			Depth: 1,
		}
	}

	tests := []struct {
		name   string
		mutate func(*State)
		want   error
	}{
		{"valid", func(*State) {}, nil},
		{"duplicate node", func(s *State) { s.Nodes = append(s.Nodes, Node{ID: "#/a", Depth: 1}) }, ErrDuplicateID},
		{"dangling edge", func(s *State) { s.Edges[0].To = "#/x" }, ErrDanglingEdge},
		{"two roots", func(s *State) { s.Nodes = append(s.Nodes, Node{ID: "#/b"}) }, ErrNotATree},
		{"wrong depth", func(s *State) { s.Depth = 4 }, ErrBadDepth},
		{"wrong node depth", func(s *State) { s.Nodes[1].Depth = 2; s.Depth = 2 }, ErrBadDepth},
		{"two parents", func(s *State) {
			s.Nodes = append(s.Nodes, Node{ID: "#/b", Depth: 1})
			s.Edges = append(s.Edges,
				Edge{ID: "#->#/b", From: "#", To: "#/b"},
				Edge{ID: "#/b->#/a", From: "#/b", To: "#/a"},
			)
		}, ErrNotATree},
		{"cycle off the root", func(s *State) {
			s.Nodes = append(s.Nodes, Node{ID: "x", Depth: 1}, Node{ID: "y", Depth: 1})
			s.Edges = append(s.Edges,
				Edge{ID: "x->y", From: "x", To: "y"},
				Edge{ID: "y->x", From: "y", To: "x"},
			)
		}, ErrNotATree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := s.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMaxZoom(t *testing.T) {
	if MaxZoom(0) != 1 || MaxZoom(3) != 4 {
		t.Errorf("MaxZoom(0)=%v MaxZoom(3)=%v", MaxZoom(0), MaxZoom(3))
	}
}

func TestEmpty(t *testing.T) {
	s := Empty()
	if !s.IsEmpty() || s.Root != nil {
		t.Error("Empty() should have no nodes, edges or root")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Empty().Validate() = %v", err)
	}
}
