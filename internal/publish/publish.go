// Package publish delivers finalized orders to the host, at most once per settled state.
package publish

import (
	"reflect"
	"time"

	"dragsort/internal/loop"
)

// DefaultDebounce is the delay between a commit and its emission.
const DefaultDebounce = 3 * time.Second

type Options struct {
	Debounce time.Duration
	// Immediate emits synchronously from Submit.
	Immediate bool
	// Disabled never emits; the host pulls the order itself.
	Disabled bool
	// Scheduler arms debounce timers. Required unless Immediate or Disabled.
	Scheduler loop.Scheduler
}

// Publisher is not safe for concurrent use; timers must call back on the owning loop.
type Publisher[T any] struct {
	opts Options
	emit func(T)

	last       T
	hasLast    bool
	pending    T
	hasPending bool
	timer      loop.Timer
}

func New[T any](opts Options, emit func(T)) *Publisher[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Scheduler == nil && !opts.Disabled {
		opts.Immediate = true
	}
	return &Publisher[T]{opts: opts, emit: emit}
}

// Baseline records the order the host currently holds. A pending emission is dropped:
// the host's data is newer than anything the publisher was waiting on.
func (p *Publisher[T]) Baseline(v T) {
	p.stop()
	p.hasPending = false
	var zero T
	p.pending = zero
	p.last = v
	p.hasLast = true
}

// Submit offers a finalized order for emission.
func (p *Publisher[T]) Submit(v T) {
	if p.opts.Disabled {
		return
	}
	p.pending = v
	p.hasPending = true
	if p.opts.Immediate {
		p.fire()
		return
	}
	p.arm()
}

// Hold cancels a pending timer without dropping the pending order. Called when a drag
// starts, so nothing is emitted mid-drag.
func (p *Publisher[T]) Hold() {
	p.stop()
}

// Resume re-arms the timer for a held order. Called when a drag ends without a commit.
func (p *Publisher[T]) Resume() {
	if p.hasPending && p.timer == nil && !p.opts.Immediate {
		p.arm()
	}
}

// Flush emits a pending order now. It reports whether a callback ran.
func (p *Publisher[T]) Flush() bool {
	p.stop()
	if !p.hasPending {
		return false
	}
	return p.fire()
}

// Pending reports whether an order is waiting for emission.
func (p *Publisher[T]) Pending() bool { return p.hasPending }

func (p *Publisher[T]) arm() {
	p.stop()
	p.timer = p.opts.Scheduler.AfterFunc(p.opts.Debounce, func() {
		p.timer = nil
		p.fire()
	})
}

func (p *Publisher[T]) stop() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Publisher[T]) fire() bool {
	if !p.hasPending {
		return false
	}
	v := p.pending
	var zero T
	p.pending = zero
	p.hasPending = false

	if p.hasLast && reflect.DeepEqual(v, p.last) {
		return false
	}
	p.last = v
	p.hasLast = true
	if p.emit != nil {
		p.emit(v)
	}
	return true
}
