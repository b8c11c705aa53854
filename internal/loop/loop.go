// Package loop provides the single owner that serializes all engine work.
//
// Gesture samples, scroll samples, layout callbacks and timer expirations are all posted
// to one Loop and run one at a time, so the engine itself needs no locking.
package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by Post once Run has returned.
var ErrClosed = errors.New("loop closed")

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call stopped it.
	Stop() bool
}

// Scheduler creates timers whose callbacks run on the owning loop.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type Loop struct {
	queue chan func()
	done  chan struct{}
	state atomic.Int32
}

const (
	stateNew int32 = iota
	stateRunning
	stateDone
)

// New returns a loop with a queue of the given capacity (minimum 1).
func New(capacity int) *Loop {
	if capacity < 1 {
		capacity = 1
	}
	return &Loop{
		queue: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the queue is full and fails once the loop is done.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Run executes posted functions until ctx is done. It may be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(stateNew, stateRunning) {
		return errors.New("loop already started")
	}
	defer func() {
		l.state.Store(stateDone)
		close(l.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Sync posts fn and waits until it has run.
func (l *Loop) Sync(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if err := l.Post(func() {
		defer close(ran)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.stopped.Store(true)
	return t.t.Stop()
}

// AfterFunc runs fn on the loop after d. A timer stopped after it fired but before the
// loop ran its callback still never runs it.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if lt.stopped.Load() {
				return
			}
			fn()
		})
	})
	return lt
}
