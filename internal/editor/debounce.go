package editor

import (
	"sync"
	"time"
)

// Debouncer runs fn once delay has elapsed without another Trigger.
//
// Trigger, Cancel and Pending must be called with mu held. fn runs with mu
// held; the func it returns, if any, runs after mu is released.
type Debouncer struct {
	mu    sync.Locker
	clock Clock
	delay time.Duration
	fn    func() func()
	timer Timer
	seq   uint64
}

// NewDebouncer builds a debouncer guarded by mu.
func NewDebouncer(mu sync.Locker, clock Clock, delay time.Duration, fn func() func()) *Debouncer {
	return &Debouncer{mu: mu, clock: clock, delay: delay, fn: fn}
}

// Trigger cancels any pending run and arms a new one.
func (d *Debouncer) Trigger() {
	d.stop()
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops the pending run, if any.
func (d *Debouncer) Cancel() {
	d.stop()
	d.seq++
}

// Pending reports whether a run is armed.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}

func (d *Debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	// a timer that already fired cannot be stopped, so stale callbacks are
	// recognised by their sequence number
	if d.timer == nil || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	after := d.fn()
	d.mu.Unlock()
	if after != nil {
		after()
	}
}
