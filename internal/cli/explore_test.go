package cli

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/tree"
)

func mustTree(t *testing.T, text string) *tree.State {
	t.Helper()
	s, err := tree.Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ExploreModel, keys ...string) ExploreModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ExploreModel)
	}
	return m
}

func TestExploreExpandCollapse(t *testing.T) {
	m := NewExploreModel("doc.json", mustTree(t, alice))

	want := []string{"#", "#/name", "#/age", "#/pets"}
	if got := m.Rows(); !reflect.DeepEqual(got, want) {
		t.Fatalf("initial rows = %v, want %v", got, want)
	}

	m = press(m, "down", "down", "down", "right")
	want = []string{"#", "#/name", "#/age", "#/pets", "#/pets/0", "#/pets/1"}
	if got := m.Rows(); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows after expanding pets = %v, want %v", got, want)
	}

	m = press(m, "down", "left")
	if n, _ := m.Selected(); n.ID != "#/pets" {
		t.Errorf("left on a leaf should move to the parent, at %s", n.ID)
	}

	m = press(m, "left")
	if got := len(m.Rows()); got != 4 {
		t.Errorf("left on an open container should collapse it, %d rows", got)
	}

	m = press(m, "left")
	if n, _ := m.Selected(); n.ID != tree.RootID {
		t.Errorf("left should reach the root, at %s", n.ID)
	}
}

func TestExploreLeavesDoNotExpand(t *testing.T) {
	m := NewExploreModel("doc.json", mustTree(t, alice))
	m = press(m, "down", "right", " ")
	if got := len(m.Rows()); got != 4 {
		t.Errorf("expanding a leaf changed the rows: %v", m.Rows())
	}
}

func TestExploreCursorBounds(t *testing.T) {
	m := NewExploreModel("doc.json", mustTree(t, alice))
	m = press(m, "up", "up")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
	m = press(m, "j", "j", "j", "j", "j", "j")
	if m.Cursor != 3 {
		t.Errorf("cursor = %d, want 3", m.Cursor)
	}
}

func TestExploreQuit(t *testing.T) {
	m := NewExploreModel("doc.json", mustTree(t, alice))
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExploreStateMsg(t *testing.T) {
	m := NewExploreModel("doc.json", mustTree(t, alice))
	m = press(m, "down", "down", "down") // #/pets

	next, _ := m.Update(stateMsg{err: errs.New(errs.ErrCodeInvalidContent, "Not valid JSON/YAML content.")})
	m = next.(ExploreModel)
	if len(m.Rows()) != 4 {
		t.Error("a failed reload should keep the previous tree")
	}
	if view := m.View(); !strings.Contains(view, "Not valid JSON/YAML content.") {
		t.Errorf("view should show the error:\n%s", view)
	}

	updated := mustTree(t, `{"title": "x", "pets": ["Rex"]}`)
	next, _ = m.Update(stateMsg{state: updated, revision: 2})
	m = next.(ExploreModel)

	if m.Err != nil || m.Revision != 2 {
		t.Errorf("Err = %v, Revision = %d after accepted reload", m.Err, m.Revision)
	}
	if n, _ := m.Selected(); n.ID != "#/pets" {
		t.Errorf("selection should follow the node id, at %s", n.ID)
	}
	if want := []string{"#", "#/title", "#/pets"}; !reflect.DeepEqual(m.Rows(), want) {
		t.Errorf("rows = %v, want %v", m.Rows(), want)
	}
}

func TestExploreView(t *testing.T) {
	m := NewExploreModel("doc.json", mustTree(t, alice))
	m = press(m, "down")

	view := m.View()
	for _, want := range []string{"doc.json", "6 nodes", "name: Alice", "pets", `"Alice"`, "[2/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}

	m = press(m, "v")
	if strings.Contains(m.View(), `"Alice"`) {
		t.Error("v should hide the value pane")
	}
}

func TestExploreEmpty(t *testing.T) {
	m := NewExploreModel("empty.json", tree.Empty())
	m = press(m, "down", "right", "left")
	if !strings.Contains(m.View(), "(empty document)") {
		t.Errorf("view should mark the empty document:\n%s", m.View())
	}
}

func TestClipLines(t *testing.T) {
	if got := clipLines("a\nb", 2); got != "a\nb" {
		t.Errorf("clipLines kept = %q", got)
	}
	if got := clipLines("a\nb\nc", 2); got != "a\nb\n…" {
		t.Errorf("clipLines cut = %q", got)
	}
}
