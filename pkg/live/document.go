// Package live keeps the current tree of a document that changes over time.
//
// A [Document] is fed new text by a file watcher or by HTTP clients. Each
// update is parsed through the pipeline; text that fails to parse never
// replaces the tree being shown, so a half-typed edit keeps the last good
// tree on screen while the error is reported next to it.
//
// Updates may be parsed concurrently. Every update takes a revision number
// when it starts and its result is applied only if no later revision has
// been applied in the meantime, so the last writer wins regardless of how
// long each parse takes.
package live

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/graph"
	"github.com/matzehuels/graphize/pkg/observability"
	"github.com/matzehuels/graphize/pkg/pipeline"
	"github.com/matzehuels/graphize/pkg/pubsub"
	"github.com/matzehuels/graphize/pkg/tree"
)

// Topic is the event stream topic live documents publish to.
const Topic = "tree"

// Event types published on [Topic].
const (
	EventTree  = "tree"  // a new tree was accepted
	EventError = "error" // an update failed; the previous tree stays current
)

// Snapshot is the state of a document at one point in time.
type Snapshot struct {
	Source    string
	Revision  uint64 // revision of State; 0 before the first accepted update
	State     *tree.State
	Err       error // last update failure, cleared by the next accepted update
	UpdatedAt time.Time
}

// Event is the JSON payload published for every update.
type Event struct {
	Source   string      `json:"source"`
	Revision uint64      `json:"revision"`
	Accepted bool        `json:"accepted"`
	Code     string      `json:"code,omitempty"`
	Error    string      `json:"error,omitempty"`
	Tree     *graph.Tree `json:"tree,omitempty"`
}

// Config configures a Document.
type Config struct {
	// Source names the document in logs and events, e.g. a file path.
	Source string

	// Runner parses updates. Nil means an uncached runner.
	Runner *pipeline.Runner

	// Options carries the parse options applied to every update. Text is
	// ignored.
	Options pipeline.Options

	// Publisher, if set, receives an event on Topic for every update.
	Publisher pubsub.Publisher
}

// Document holds the last good tree of a changing document.
type Document struct {
	cfg  Config
	next atomic.Uint64

	mu       sync.RWMutex
	state    *tree.State
	revision uint64 // revision of state
	seen     uint64 // newest revision applied, accepted or failed
	err      error
	updated  time.Time
}

// New creates a document showing the empty tree.
func New(cfg Config) *Document {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, nil)
	}
	return &Document{cfg: cfg, state: tree.Empty(), updated: time.Now()}
}

// Source returns the document's name.
func (d *Document) Source() string { return d.cfg.Source }

// Update parses text and makes its tree current.
//
// On success it returns the new state and accepted=true. If text fails to
// parse, the previous state stays current and is returned with the error.
// If a later update was accepted while this one was parsing, the result is
// discarded and the current state is returned with accepted=false and a nil
// error. A later update that failed also makes an earlier one stale.
func (d *Document) Update(ctx context.Context, text string) (*tree.State, bool, error) {
	rev := d.next.Add(1)

	opts := d.cfg.Options
	opts.Text = text
	s, parseErr := d.cfg.Runner.Parse(ctx, opts)

	d.mu.Lock()
	if rev < d.seen {
		cur := d.state
		d.mu.Unlock()
		observability.Live().OnUpdate(ctx, d.cfg.Source, rev, false, nil)
		return cur, false, nil
	}

	d.seen, d.updated = rev, time.Now()
	if parseErr != nil {
		d.err = parseErr
		cur, curRev := d.state, d.revision
		d.publish(Event{Source: d.cfg.Source, Revision: curRev, Code: string(errs.GetCode(parseErr)), Error: errs.UserMessage(parseErr)})
		d.mu.Unlock()
		observability.Live().OnUpdate(ctx, d.cfg.Source, rev, false, parseErr)
		return cur, false, parseErr
	}

	d.state, d.revision, d.err = s, rev, nil
	wire := graph.FromState(s)
	d.publish(Event{Source: d.cfg.Source, Revision: rev, Accepted: true, Tree: &wire})
	d.mu.Unlock()

	observability.Live().OnUpdate(ctx, d.cfg.Source, rev, true, nil)
	return s, true, nil
}

// publish is called with d.mu held so that events leave in revision order.
func (d *Document) publish(ev Event) {
	if d.cfg.Publisher == nil {
		return
	}
	typ := EventTree
	if !ev.Accepted {
		typ = EventError
	}
	// Publishing only fails once the publisher is closed.
	_ = d.cfg.Publisher.Publish(Topic, typ, ev)
}

// Snapshot returns the current state.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		Source:    d.cfg.Source,
		Revision:  d.revision,
		State:     d.state,
		Err:       d.err,
		UpdatedAt: d.updated,
	}
}

// State returns the current tree.
func (d *Document) State() *tree.State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Reload reads the document from path and updates it. A missing or
// oversized file counts as a failed update: the previous tree stays current.
func (d *Document) Reload(ctx context.Context, path string, limit int64) (*tree.State, bool, error) {
	text, err := ReadFile(path, limit)
	if err != nil {
		d.mu.Lock()
		d.err, d.updated = err, time.Now()
		cur, curRev := d.state, d.revision
		d.publish(Event{Source: d.cfg.Source, Revision: curRev, Code: string(errs.GetCode(err)), Error: errs.UserMessage(err)})
		d.mu.Unlock()
		observability.Live().OnUpdate(ctx, d.cfg.Source, d.next.Add(1), false, err)
		return cur, false, err
	}
	return d.Update(ctx, text)
}

// ReadFile reads a document file, enforcing a size limit. limit <= 0 means
// [errs.MaxDocumentSize].
func ReadFile(path string, limit int64) (string, error) {
	if err := errs.ValidateDocumentPath(path); err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "stat %s", path)
	}
	if err := errs.ValidateDocumentSize(info.Size(), limit); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "read %s", path)
	}
	return string(data), nil
}
