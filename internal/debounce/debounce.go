// Package debounce coalesces bursts of calls into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls. RealClock uses the time package; tests use Fake.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Debouncer runs fn once, wait after the last Trigger in a burst, with the
// arguments of that last Trigger.
type Debouncer[T any] struct {
	clock Clock
	wait  time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   Timer
	pending T
	seq     uint64
}

// New returns a Debouncer. A nil clock means RealClock.
func New[T any](clock Clock, wait time.Duration, fn func(T)) *Debouncer[T] {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer[T]{clock: clock, wait: wait, fn: fn}
}

// Trigger schedules fn(arg), replacing any call still waiting.
func (d *Debouncer[T]) Trigger(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = arg
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(seq) })
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// A later Trigger or Stop won the race with this timer.
	if seq != d.seq || d.timer == nil {
		d.mu.Unlock()
		return
	}
	arg := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(arg)
}

// Stop cancels the pending call, if any. It reports whether one was cancelled.
func (d *Debouncer[T]) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	return true
}
