// Package watcher reloads the config file when it changes on disk.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default quiet period before a reload.
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer collapses a burst of Trigger calls into one call of fn, made
// once the burst has been quiet for the configured duration. Editors
// typically write a file in several steps (truncate, write, rename) and
// only the last state matters.
type Debouncer struct {
	fn       func()
	duration time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	fired int
}

// NewDebouncer creates a Debouncer calling fn. A zero duration selects
// DefaultDebounceDuration.
func NewDebouncer(duration time.Duration, fn func()) *Debouncer {
	if duration <= 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{fn: fn, duration: duration}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() { d.fire(gen) })
}

// fire runs fn unless a later Trigger or Stop superseded generation gen.
// Timer.Stop can lose the race against an already fired timer, so the
// generation check is what guarantees a single call per burst.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.fired++
	d.mu.Unlock()

	d.fn()
}

// Stop drops any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending returns true while a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Fired returns how many times fn has been called
func (d *Debouncer) Fired() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
