// Package watch turns files landing in an inbox directory into review drops.
package watch

import (
	"sync"
	"time"
)

// Debouncer delays a callback per key until the key has been quiet for the window.
// A file being copied produces a burst of writes; only the last one fires.
type Debouncer struct {
	window   time.Duration
	mu       sync.Mutex
	timers   map[string]pending
	seq      uint64
	callback func(key string)
	stopped  bool
}

type pending struct {
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer with the given window duration.
func NewDebouncer(window time.Duration, callback func(key string)) *Debouncer {
	return &Debouncer{
		window:   window,
		timers:   make(map[string]pending),
		callback: callback,
	}
}

// Trigger restarts the timer for key.
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.timers[key]; ok {
		p.timer.Stop()
	}
	d.seq++
	gen := d.seq
	d.timers[key] = pending{timer: time.AfterFunc(d.window, func() { d.fire(key, gen) }), gen: gen}
}

// fire runs the callback unless key was re-triggered after this timer was armed.
func (d *Debouncer) fire(key string, gen uint64) {
	d.mu.Lock()
	if p, ok := d.timers[key]; d.stopped || !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.timers, key)
	d.mu.Unlock()

	d.callback(key)
}

// Pending returns the number of keys waiting to fire.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, p := range d.timers {
		p.timer.Stop()
		delete(d.timers, key)
	}
}
