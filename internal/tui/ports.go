package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dragsort/internal/loop"
)

// scrollInterval paces scroll reports, standing in for the viewport's scroll animation.
const scrollInterval = 40 * time.Millisecond

type scrollMsg struct{ offset float64 }

// scrollPort is the engine's viewport. Requests are answered with a scrollMsg one
// interval later, so auto-scroll advances at a visible pace.
type scrollPort struct {
	disabled bool
	pending  []float64
}

func (p *scrollPort) ScrollTo(offset float64) { p.pending = append(p.pending, offset) }

func (p *scrollPort) SetScrollEnabled(enabled bool) { p.disabled = !enabled }

func (p *scrollPort) drain() tea.Cmd {
	if len(p.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(p.pending))
	for _, offset := range p.pending {
		offset := offset
		cmds = append(cmds, tea.Tick(scrollInterval, func(time.Time) tea.Msg { return scrollMsg{offset: offset} }))
	}
	p.pending = nil
	return tea.Batch(cmds...)
}

type timerMsg struct{ id int }

// scheduler runs engine timers on the bubbletea goroutine: each AfterFunc becomes a
// tea.Tick whose message fires the callback from Update.
type scheduler struct {
	seq     int
	timers  map[int]func()
	pending []tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[int]func())}
}

func (s *scheduler) AfterFunc(d time.Duration, fn func()) loop.Timer {
	s.seq++
	id := s.seq
	s.timers[id] = fn
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg { return timerMsg{id: id} }))
	return schedTimer{s: s, id: id}
}

func (s *scheduler) fire(id int) {
	fn, ok := s.timers[id]
	if !ok {
		return
	}
	delete(s.timers, id)
	fn()
}

func (s *scheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmd := tea.Batch(s.pending...)
	s.pending = nil
	return cmd
}

type schedTimer struct {
	s  *scheduler
	id int
}

func (t schedTimer) Stop() bool {
	_, ok := t.s.timers[t.id]
	delete(t.s.timers, t.id)
	return ok
}
