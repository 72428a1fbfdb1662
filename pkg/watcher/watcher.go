// Package watcher reports changes to a document file.
//
// [FileWatcher] watches the directory holding the document rather than the
// file itself: editors commonly save by writing a temporary file and renaming
// it over the original, which would silently end a watch on the old inode.
// Events for other files in the directory are ignored.
//
// Editors also produce bursts (truncate, write, chmod) for a single save.
// Feed [FileWatcher.Events] through a [Debouncer] to get one event per save:
//
//	fw, err := watcher.NewFileWatcher(path, logger)
//	if err != nil {
//	    return err
//	}
//	if err := fw.Start(ctx); err != nil {
//	    return err
//	}
//	d := watcher.NewDebouncer(fw.Events(), 150*time.Millisecond, time.Second)
//	d.Start(ctx)
//	for ev := range d.Output() {
//	    // re-read ev.Path and re-parse
//	}
package watcher

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ChangeEvent is one or more changes to the watched file.
type ChangeEvent struct {
	Path      string
	Removed   bool // the file no longer exists under Path
	Count     int  // raw file system events folded into this one
	Timestamp time.Time
}

// FileWatcher watches a single document file.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *log.Logger
	events  chan ChangeEvent

	stopOnce sync.Once
}

// NewFileWatcher creates a watcher for path. A nil logger discards output.
func NewFileWatcher(path string, logger *log.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileWatcher{
		watcher: w,
		path:    abs,
		logger:  logger.WithPrefix("watch"),
		events:  make(chan ChangeEvent, 16),
	}, nil
}

// Path returns the absolute path of the watched file.
func (fw *FileWatcher) Path() string { return fw.path }

// Start begins watching. Events flow until ctx is cancelled or Stop is
// called; the Events channel is then closed.
func (fw *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		fw.watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	fw.logger.Debug("watching", "path", fw.path)

	go fw.run(ctx)
	return nil
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.events)
	defer fw.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path || ev.Op == fsnotify.Chmod {
				continue
			}
			change := ChangeEvent{
				Path:      fw.path,
				Removed:   ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename),
				Count:     1,
				Timestamp: time.Now(),
			}
			select {
			case fw.events <- change:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watcher error", "err", err)
		}
	}
}

// Events returns the channel of raw change events.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() { err = fw.watcher.Close() })
	return err
}
