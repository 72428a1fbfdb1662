package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/graphize/pkg/tree"
	"github.com/matzehuels/graphize/pkg/value"
)

func mustParse(t *testing.T, text string) *tree.State {
	t.Helper()
	s, err := tree.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return s
}

func TestMarshalTree(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantDepth int
		check     func(t *testing.T, g Tree)
	}{
		{
			name:  "Empty",
			input: "",
		},
		{
			name:      "Leaf",
			input:     `"hello"`,
			wantNodes: 1,
			check: func(t *testing.T, g Tree) {
				if string(g.Tree) != `"hello"` {
					t.Errorf("tree = %s, want \"hello\"", g.Tree)
				}
			},
		},
		{
			name:      "Scenario",
			input:     `{"name": "Alice", "pets": ["Rex", "Mia"]}`,
			wantNodes: 5,
			wantEdges: 4,
			wantDepth: 2,
			check: func(t *testing.T, g Tree) {
				if string(g.Nodes[2].Data.Node) != `["Rex","Mia"]` {
					t.Errorf("pets data = %s", g.Nodes[2].Data.Node)
				}
				if g.Edges[0].ID != "#->#/name" {
					t.Errorf("edge id = %q, want #->#/name", g.Edges[0].ID)
				}
			},
		},
		{
			name:      "PreservesOrder",
			input:     `{"z": 1, "a": 2}`,
			wantNodes: 3,
			wantEdges: 2,
			wantDepth: 1,
			check: func(t *testing.T, g Tree) {
				if string(g.Tree) != `{"z":1,"a":2}` {
					t.Errorf("tree = %s", g.Tree)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalTree(mustParse(t, tt.input))
			if err != nil {
				t.Fatalf("MarshalTree: %v", err)
			}

			var result Tree
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if got := len(result.Nodes); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := len(result.Edges); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if result.Depth != tt.wantDepth {
				t.Errorf("depth = %d, want %d", result.Depth, tt.wantDepth)
			}
			if tt.check != nil {
				tt.check(t, result)
			}
		})
	}
}

func TestMarshalTreeNoHTMLEscaping(t *testing.T) {
	data, err := MarshalTree(mustParse(t, `{"a": "<b>"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"#->#/a"`)) {
		t.Errorf("edge id should not be escaped:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"a: <b>"`)) {
		t.Errorf("label should not be escaped:\n%s", data)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`{"name": "Alice", "pets": ["Rex", "Mia"]}`,
		"a:\n  b: 1.50\n  c: [x, {d: ~}]\n",
		`[]`,
		`42`,
		``,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			orig := mustParse(t, in)
			data, err := MarshalTree(orig)
			if err != nil {
				t.Fatalf("MarshalTree: %v", err)
			}
			got, err := UnmarshalTree(data)
			if err != nil {
				t.Fatalf("UnmarshalTree: %v", err)
			}

			if len(got.Nodes) != len(orig.Nodes) || len(got.Edges) != len(orig.Edges) || got.Depth != orig.Depth {
				t.Fatalf("round trip changed shape: %d/%d/%d -> %d/%d/%d",
					len(orig.Nodes), len(orig.Edges), orig.Depth,
					len(got.Nodes), len(got.Edges), got.Depth)
			}
			for i := range orig.Nodes {
				a, b := orig.Nodes[i], got.Nodes[i]
				if a.ID != b.ID || a.Text != b.Text || a.Depth != b.Depth {
					t.Errorf("node %d: %+v != %+v", i, a, b)
				}
				if !value.Equal(a.Data.Value, b.Data.Value) {
					t.Errorf("node %s value changed", a.ID)
				}
				if b.Data.Tree != got.Root {
					t.Errorf("node %s not linked to the root", b.ID)
				}
			}
			if orig.Root != nil && !value.Equal(*orig.Root, *got.Root) {
				t.Error("root value changed")
			}
		})
	}
}

func TestReadTree(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"id": "#", "text": "root", "depth": 0, "data": {"node": {"a": 1}}},
					{"id": "#/a", "text": "a: 1", "depth": 1, "data": {"node": 1}}
				],
				"edges": [{"id": "#->#/a", "from": "#", "to": "#/a"}],
				"depth": 1,
				"tree": {"a": 1}
			}`,
		},
		{
			name:  "Empty",
			input: `{"nodes": [], "edges": [], "depth": 0}`,
		},
		{
			name: "DanglingEdge",
			input: `{
				"nodes": [{"id": "#", "text": "root", "depth": 0, "data": {"node": {}}}],
				"edges": [{"id": "#->#/x", "from": "#", "to": "#/x"}],
				"depth": 1
			}`,
			wantErr: tree.ErrDanglingEdge,
		},
		{
			name: "DuplicateNode",
			input: `{
				"nodes": [
					{"id": "#", "text": "root", "depth": 0, "data": {"node": null}},
					{"id": "#", "text": "root", "depth": 0, "data": {"node": null}}
				],
				"edges": [],
				"depth": 0
			}`,
			wantErr: tree.ErrDuplicateID,
		},
		{
			name: "TwoRoots",
			input: `{
				"nodes": [
					{"id": "#", "text": "a", "depth": 0, "data": {"node": 1}},
					{"id": "$", "text": "b", "depth": 0, "data": {"node": 2}}
				],
				"edges": [],
				"depth": 0
			}`,
			wantErr: tree.ErrNotATree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTree(strings.NewReader(tt.input))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ReadTree() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadTree() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadTreeInvalidJSON(t *testing.T) {
	if _, err := ReadTree(strings.NewReader("{nodes")); err == nil {
		t.Error("ReadTree() should fail on invalid JSON")
	}
}

func TestTreeFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	orig := mustParse(t, `{"a": {"b": [true]}}`)

	if err := WriteTreeFile(orig, path); err != nil {
		t.Fatalf("WriteTreeFile: %v", err)
	}
	got, err := ReadTreeFile(path)
	if err != nil {
		t.Fatalf("ReadTreeFile: %v", err)
	}
	if len(got.Nodes) != 4 || got.Depth != 3 {
		t.Errorf("got %d nodes depth %d, want 4 nodes depth 3", len(got.Nodes), got.Depth)
	}

	if _, err := ReadTreeFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadTreeFile(missing) error = %v, want not exist", err)
	}
}
