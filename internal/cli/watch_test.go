package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/live"
	"github.com/matzehuels/graphize/pkg/pipeline"
)

func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = old })
	return &buf
}

func TestWatchWriterReport(t *testing.T) {
	dir := scratch(t)
	status := captureStatus(t)

	runner := pipeline.NewRunner(nil, nil, nil)
	opts := pipeline.Options{Formats: []string{pipeline.FormatDOT, pipeline.FormatJSON}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	paths := outputPaths("", []string{filepath.Join(dir, "doc.json")}, opts.Formats)
	w := &watchWriter{runner: runner, opts: opts, paths: paths}

	s := mustTree(t, alice)
	w.report(context.Background(), update{state: s, revision: 3, accepted: true})

	dot, err := os.ReadFile(filepath.Join(dir, "doc.dot"))
	if err != nil {
		t.Fatalf("dot not written: %v", err)
	}
	if !strings.Contains(string(dot), `"#/pets/1"`) {
		t.Errorf("dot output missing nodes:\n%s", dot)
	}
	if !strings.Contains(status.String(), "Revision 3") {
		t.Errorf("status should report the revision:\n%s", status)
	}

	status.Reset()
	failure := errs.New(errs.ErrCodeInvalidContent, pipeline.InvalidContentMessage)
	w.report(context.Background(), update{state: s, revision: 3, err: failure})
	if !strings.Contains(status.String(), "Not valid JSON/YAML content.") || !strings.Contains(status.String(), "keeping revision 3") {
		t.Errorf("status should report the failure and the kept revision:\n%s", status)
	}
}

func TestWatchWriterEmptyDocument(t *testing.T) {
	scratch(t)
	status := captureStatus(t)

	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	w := &watchWriter{runner: pipeline.NewRunner(nil, nil, nil), opts: opts, paths: map[string]string{"svg": "empty.svg"}}
	w.report(context.Background(), update{state: mustTree(t, ""), accepted: true, revision: 1})

	if !strings.Contains(status.String(), "Nothing to draw") {
		t.Errorf("status = %q", status)
	}
	if _, err := os.Stat("empty.svg"); !os.IsNotExist(err) {
		t.Error("no file should be written for the empty document")
	}
}

func TestFollowDocument(t *testing.T) {
	dir := scratch(t)
	path := filepath.Join(dir, "doc.json")
	writeFile(t, path, `{"a": 1}`)

	c := New(io.Discard, log.InfoLevel)
	doc := live.New(live.Config{Source: path})
	if _, _, err := doc.Reload(context.Background(), path, 0); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan update, 8)
	done := make(chan error, 1)
	go func() {
		done <- c.followDocument(ctx, path, doc, func(u update) { updates <- u })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, `{"a": 1, "b": [true]}`)

	select {
	case u := <-updates:
		if !u.accepted || u.err != nil {
			t.Fatalf("update = %+v, want accepted", u)
		}
		if len(u.state.Nodes) != 4 {
			t.Errorf("reloaded tree has %d nodes, want 4", len(u.state.Nodes))
		}
		if u.revision < 2 {
			t.Errorf("revision = %d, want a later revision", u.revision)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no update after the file changed")
	}

	writeFile(t, path, `{"a": [`)
	select {
	case u := <-updates:
		if u.accepted || !errs.Is(u.err, errs.ErrCodeInvalidContent) {
			t.Fatalf("update = %+v, want a rejected reload", u)
		}
		if len(u.state.Nodes) != 4 {
			t.Error("a rejected reload should report the last good tree")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no update after the file broke")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("followDocument returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("followDocument did not stop")
	}
}
