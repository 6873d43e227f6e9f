package search

import (
	"sync"
	"time"
)

// Debouncer delays a callback until input has been quiet for the configured period.
// Every Trigger cancels the pending timer and starts a new one, so only the last value
// of a burst is delivered.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	pending T
	armed   bool
	stopped bool
}

// NewDebouncer builds a debouncer that calls fn with the last triggered value.
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records value and restarts the quiet period.
func (d *Debouncer[T]) Trigger(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = value
	d.armed = true
	if d.delay <= 0 {
		d.timer = nil
		d.armed = false
		go d.fn(value)
		return
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Flush delivers the pending value immediately, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.armed = false
	d.mu.Unlock()
	d.fn(value)
}

// Stop cancels any pending call; later triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()
	d.fn(value)
}
