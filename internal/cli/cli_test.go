package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/graph"
)

const alice = `{"name": "Alice", "age": 30, "pets": ["Rex", "Mia"]}`

// runCLI executes the root command in a scratch working directory with
// an isolated cache. It returns stdout, the status stream and the error.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, status bytes.Buffer

	old := statusOut
	statusOut = &status
	t.Cleanup(func() { statusOut = old })

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), status.String(), err
}

// scratch moves the test into an empty directory with its own cache.
func scratch(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseCommand(t *testing.T) {
	scratch(t)

	out, _, err := runCLI(t, alice, "parse")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, err := graph.UnmarshalTree([]byte(out))
	if err != nil {
		t.Fatalf("output is not a wire tree: %v\n%s", err, out)
	}
	if len(s.Nodes) != 6 || s.Depth != 2 {
		t.Errorf("got %d nodes, depth %d; want 6 nodes, depth 2", len(s.Nodes), s.Depth)
	}
}

func TestParseCommandInvalidContent(t *testing.T) {
	scratch(t)

	_, _, err := runCLI(t, `{"a": [1, 2`, "parse", "--cache", "none")
	if !errs.Is(err, errs.ErrCodeInvalidContent) {
		t.Fatalf("err = %v, want INVALID_CONTENT", err)
	}
	if got := errs.UserMessage(err); got != "Not valid JSON/YAML content." {
		t.Errorf("UserMessage = %q", got)
	}
	if got := errs.ExitCode(err); got != 2 {
		t.Errorf("ExitCode = %d, want 2", got)
	}
}

func TestParseCommandFileToFile(t *testing.T) {
	dir := scratch(t)
	writeFile(t, "doc.yaml", "name: Alice\npets: [Rex, Mia]\n")

	out, status, err := runCLI(t, "", "parse", "doc.yaml", "-o", "doc.tree.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty when writing a file, got %q", out)
	}
	if !strings.Contains(status, "Parsed doc.yaml") {
		t.Errorf("status %q should report the parse", status)
	}
	if _, err := graph.ReadTreeFile(filepath.Join(dir, "doc.tree.json")); err != nil {
		t.Errorf("output file: %v", err)
	}
}

func TestParseCommandMissingFile(t *testing.T) {
	scratch(t)
	_, _, err := runCLI(t, "", "parse", "nope.json")
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	scratch(t)
	writeFile(t, "graphize.toml", "[label]\nroot = \"doc\"\n")

	out, _, err := runCLI(t, alice, "parse", "--cache", "none")
	if err != nil {
		t.Fatal(err)
	}
	s, _ := graph.UnmarshalTree([]byte(out))
	if s.Nodes[0].Text != "doc" {
		t.Errorf("root label = %q, want the configured %q", s.Nodes[0].Text, "doc")
	}

	out, _, err = runCLI(t, alice, "parse", "--cache", "none", "--root-label", "flag")
	if err != nil {
		t.Fatal(err)
	}
	s, _ = graph.UnmarshalTree([]byte(out))
	if s.Nodes[0].Text != "flag" {
		t.Errorf("root label = %q, want the flag value %q", s.Nodes[0].Text, "flag")
	}
}

func TestBadConfigFile(t *testing.T) {
	scratch(t)
	writeFile(t, "graphize.toml", "[render]\ndirection = \"north\"\n")

	_, _, err := runCLI(t, alice, "parse")
	if !errs.Is(err, errs.ErrCodeInvalidDirection) {
		t.Errorf("err = %v, want INVALID_DIRECTION", err)
	}
}

func TestRenderCommandStdout(t *testing.T) {
	scratch(t)

	out, _, err := runCLI(t, alice, "render", "-f", "dot", "--direction", "left", "--cache", "memory")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("stdout should hold DOT source, got %q", out)
	}
	if !strings.Contains(out, "rankdir=RL;") {
		t.Errorf("LEFT should map to rankdir=RL:\n%s", out)
	}
}

func TestRenderCommandMultipleFormats(t *testing.T) {
	dir := scratch(t)
	writeFile(t, "doc.json", alice)

	_, status, err := runCLI(t, "", "render", "doc.json", "-f", "dot,json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"doc.dot", "doc.tree.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
		if !strings.Contains(status, name) {
			t.Errorf("status should list %s:\n%s", name, status)
		}
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "doc.json")); string(data) != alice {
		t.Error("input file was overwritten")
	}
}

func TestRenderCommandEmptyDocument(t *testing.T) {
	scratch(t)

	out, status, err := runCLI(t, "   \n", "render", "-f", "svg", "--cache", "none")
	if err != nil {
		t.Fatalf("an empty document is not an error: %v", err)
	}
	if out != "" {
		t.Errorf("nothing should be drawn, got %q", out)
	}
	if !strings.Contains(status, "Nothing to draw") {
		t.Errorf("status %q should warn", status)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	scratch(t)
	_, _, err := runCLI(t, alice, "render", "-f", "svg,png")
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestInspectCommand(t *testing.T) {
	scratch(t)

	out, _, err := runCLI(t, alice, "inspect", "--cache", "none")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Nodes", "6", "Depth", "name: Alice", "0: Rex", "1: Mia"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output should contain %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, alice, "inspect", "--cache", "none", "--table")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ID", "Kind", "#/pets/1", "sequence", "mapping"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output should contain %q:\n%s", want, out)
		}
	}
}

func TestInspectNode(t *testing.T) {
	scratch(t)

	out, _, err := runCLI(t, alice, "inspect", "--cache", "none", "--node", "#/pets")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"#/pets", "sequence", "Children", `"Rex"`} {
		if !strings.Contains(out, want) {
			t.Errorf("node output should contain %q:\n%s", want, out)
		}
	}

	_, _, err = runCLI(t, alice, "inspect", "--cache", "none", "--node", "#/nope")
	if !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestInspectEmpty(t *testing.T) {
	scratch(t)
	out, _, err := runCLI(t, "", "inspect", "--cache", "none")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(empty document)") {
		t.Errorf("output should mark the empty document:\n%s", out)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := scratch(t)

	out, _, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", "graphize"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, _, err := runCLI(t, alice, "parse"); err != nil {
		t.Fatal(err)
	}
	_, status, err := runCLI(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "Cleared") || strings.Contains(status, "Cleared 0 ") {
		t.Errorf("clear should remove the parsed entries:\n%s", status)
	}
}

func TestCompletionCommand(t *testing.T) {
	scratch(t)
	out, _, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "graphize") {
		t.Error("bash completion should mention the program name")
	}

	if _, _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should be rejected")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"svg, DOT ,json", []string{"svg", "dot", "json"}},
		{"layout,,", []string{"layout"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		args    []string
		formats []string
		want    map[string]string
	}{
		{
			name:    "single format explicit output",
			output:  "out.svg",
			args:    []string{"doc.yaml"},
			formats: []string{"svg"},
			want:    map[string]string{"svg": "out.svg"},
		},
		{
			name:    "derived from input",
			args:    []string{"dir/doc.yaml"},
			formats: []string{"svg", "json"},
			want:    map[string]string{"svg": "dir/doc.svg", "json": "dir/doc.tree.json"},
		},
		{
			name:    "output extension stripped",
			output:  "out/diagram.layout.json",
			args:    []string{"doc.json"},
			formats: []string{"dot", "layout"},
			want:    map[string]string{"dot": "out/diagram.dot", "layout": "out/diagram.layout.json"},
		},
		{
			name:    "stdin",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "graphize.svg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.output, tt.args, tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadLimited(t *testing.T) {
	text, err := readLimited(strings.NewReader("abc"), 3)
	if err != nil || text != "abc" {
		t.Errorf("readLimited at the limit = %q, %v", text, err)
	}
	if _, err := readLimited(strings.NewReader("abcd"), 3); !errs.Is(err, errs.ErrCodeTooLarge) {
		t.Errorf("err = %v, want TOO_LARGE", err)
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		"":               "127.0.0.1:8080",
		":9000":          "localhost:9000",
		"0.0.0.0:80":     "0.0.0.0:80",
		"127.0.0.1:8080": "127.0.0.1:8080",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
