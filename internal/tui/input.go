package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dragsort/internal/gesture"
	"dragsort/internal/layout"
)

type longPressMsg struct{ seq int }

// pointer turns terminal mouse events into recognizer samples: a press on the handle is
// a tap, any other press is a long press that activates after a hold.
type pointer struct {
	down    bool
	handle  bool
	holding bool // long press began, not yet active
	active  bool // long press active
	seq     int
	y       float64
}

// pointerY maps a terminal row to the middle of that row.
func pointerY(row int) float64 { return float64(row) + 0.5 }

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	ev := tea.MouseEvent(msg)
	if ev.IsWheel() {
		return m.wheel(ev)
	}
	y := pointerY(ev.Y)

	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft || m.pointer.down {
			return nil
		}
		return m.press(ev.X, y)
	case tea.MouseActionMotion:
		if !m.pointer.down {
			return nil
		}
		return m.motion(y)
	case tea.MouseActionRelease:
		if !m.pointer.down {
			return nil
		}
		m.release(y)
	}
	return nil
}

func (m *Model) press(x int, y float64) tea.Cmd {
	lay := m.list.Layout()
	hit := lay.LocateItem(y, m.list.ScrollTop(), lay.ContainerOffsetTop)
	if hit == layout.None {
		return nil
	}
	m.selectIndex(hit)
	m.pointer = pointer{down: true, y: y, seq: m.pointer.seq + 1}

	if x < handleWidth {
		if err := m.list.StartDrag(hit); err != nil {
			m.log.Debug("handle press ignored", "item", hit, "err", err)
			m.pointer.down = false
			return nil
		}
		m.pointer.handle = true
		m.sample(gesture.Tap, gesture.Began, y)
		return nil
	}

	m.pointer.holding = true
	m.sample(gesture.LongPress, gesture.Began, y)
	seq := m.pointer.seq
	return tea.Tick(m.cfg.LongPress(), func(time.Time) tea.Msg { return longPressMsg{seq: seq} })
}

func (m *Model) longPressed(msg longPressMsg) {
	if msg.seq != m.pointer.seq || !m.pointer.down || !m.pointer.holding {
		return
	}
	m.pointer.holding = false
	m.pointer.active = true
	m.sample(gesture.LongPress, gesture.Active, m.pointer.y)
}

func (m *Model) motion(y float64) tea.Cmd {
	if y == m.pointer.y {
		return nil
	}
	m.pointer.y = y
	switch {
	case m.pointer.handle || m.pointer.active:
		m.sample(gesture.Pan, gesture.Active, y)
	case m.pointer.holding:
		// Moving before the hold elapses is a scroll attempt, not a drag.
		m.pointer.holding = false
		m.sample(gesture.LongPress, gesture.Failed, y)
	}
	return nil
}

func (m *Model) release(y float64) {
	m.pointer.y = y
	m.sample(gesture.Pan, gesture.End, y)
	m.sample(gesture.LongPress, gesture.End, y)
	m.sample(gesture.Tap, gesture.End, y)
	m.pointer = pointer{seq: m.pointer.seq}
}

func (m *Model) sample(r gesture.Recognizer, st gesture.RecognizerState, y float64) {
	m.list.HandleGesture(gesture.Raw{Recognizer: r, State: st, AbsoluteY: y})
}

func (m *Model) wheel(ev tea.MouseEvent) tea.Cmd {
	if m.scroller.disabled {
		return nil
	}
	const rows = 3
	offset := m.list.ScrollTop()
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		offset -= rows
	case tea.MouseButtonWheelDown:
		offset += rows
	default:
		return nil
	}
	m.scrollTo(offset)
	return nil
}
