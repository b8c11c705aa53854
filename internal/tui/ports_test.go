package tui

import (
	"testing"
	"time"
)

func TestScheduler_FireAndStop(t *testing.T) {
	t.Parallel()

	s := newScheduler()
	var fired []string
	keep := s.AfterFunc(time.Second, func() { fired = append(fired, "keep") })
	drop := s.AfterFunc(time.Second, func() { fired = append(fired, "drop") })
	if s.drain() == nil {
		t.Fatalf("expected tick commands for armed timers")
	}
	if s.drain() != nil {
		t.Fatalf("expected drain to empty the queue")
	}

	if !drop.Stop() {
		t.Fatalf("expected Stop to report an armed timer")
	}
	if drop.Stop() {
		t.Fatalf("expected second Stop to report false")
	}
	s.fire(1)
	s.fire(2)
	s.fire(1)
	if len(fired) != 1 || fired[0] != "keep" {
		t.Fatalf("fired %v", fired)
	}
	if keep.Stop() {
		t.Fatalf("expected Stop after firing to report false")
	}
}

func TestScrollPort(t *testing.T) {
	t.Parallel()

	var p scrollPort
	if p.drain() != nil {
		t.Fatalf("expected no command without requests")
	}
	p.SetScrollEnabled(false)
	if !p.disabled {
		t.Fatalf("expected disabled")
	}
	p.ScrollTo(10)
	p.ScrollTo(20)
	if p.drain() == nil || len(p.pending) != 0 {
		t.Fatalf("expected drain to consume the requests")
	}
	p.SetScrollEnabled(true)
	if p.disabled {
		t.Fatalf("expected enabled")
	}
}
