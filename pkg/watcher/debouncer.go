package watcher

import (
	"context"
	"time"
)

// Debouncer folds bursts of change events into one.
//
// A burst ends once no event has arrived for the quiet period. Bursts longer
// than maxWait are flushed anyway, so a file rewritten continuously still
// produces an event every maxWait.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a debouncer reading from input. A maxWait smaller
// than quietPeriod is raised to it.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 1),
		quietPeriod: quietPeriod,
		maxWait:     max(maxWait, quietPeriod),
	}
}

// Start begins debouncing in a new goroutine. Output is closed once the
// input closes or ctx is cancelled; a pending burst is flushed first when
// the input closes.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// Output returns the channel of debounced events.
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending  *ChangeEvent
		quiet    = newStoppedTimer()
		deadline = newStoppedTimer()
	)

	flush := func() {
		if pending == nil {
			return
		}
		ev := *pending
		pending = nil
		quiet.Stop()
		deadline.Stop()
		select {
		case d.output <- ev:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			if pending == nil {
				pending = &ev
				deadline.Reset(d.maxWait)
			} else {
				pending.Removed = ev.Removed
				pending.Count += ev.Count
				pending.Timestamp = ev.Timestamp
			}
			quiet.Reset(d.quietPeriod)

		case <-quiet.C:
			flush()

		case <-deadline.C:
			flush()
		}
	}
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}
