package loop

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler driven by Advance. Callbacks run synchronously
// inside Advance, in due order.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m   *Manual
	due time.Duration
	seq int
	fn  func()
}

func (t *manualTimer) Stop() bool {
	for i, o := range t.m.timers {
		if o == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			return true
		}
	}
	return false
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now is the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration { return m.now }

// Pending is the number of armed timers.
func (m *Manual) Pending() int { return len(m.timers) }

// Advance moves virtual time forward by d and fires every timer that falls due,
// including timers armed by callbacks within the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		next := m.next(end)
		if next == nil {
			break
		}
		next.Stop()
		m.now = next.due
		next.fn()
	}
	m.now = end
}

func (m *Manual) next(end time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due != m.timers[j].due {
			return m.timers[i].due < m.timers[j].due
		}
		return m.timers[i].seq < m.timers[j].seq
	})
	if m.timers[0].due > end {
		return nil
	}
	return m.timers[0]
}
