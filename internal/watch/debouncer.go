package watch

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Debouncer collects events into bursts. A burst ends after interval
// without a new event; the callback then receives the distinct paths of
// the burst in the order they were first seen.
type Debouncer struct {
	interval time.Duration
	callback func(paths []string)

	mu      sync.Mutex
	timer   *time.Timer
	pending []string
	burst   uint64
	stopped bool
}

// NewDebouncer returns a debouncer that calls callback once per burst.
func NewDebouncer(interval time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{interval: interval, callback: callback}
}

// Trigger adds path to the current burst and restarts the quiet period.
// It is a no-op after Stop.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if !slices.Contains(d.pending, path) {
		d.pending = append(d.pending, path)
	}

	d.burst++
	burst := d.burst

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() { d.flush(burst) })
}

// flush hands the pending paths to the callback unless a later Trigger
// or Stop superseded burst.
func (d *Debouncer) flush(burst uint64) {
	d.mu.Lock()
	if d.stopped || burst != d.burst {
		d.mu.Unlock()
		return
	}

	paths := d.pending
	d.pending = nil
	d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("watch callback panicked", slog.Any("panic", r), slog.Any("paths", paths))
		}
	}()

	d.callback(paths)
}

// Stop drops the pending burst and disables the debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
