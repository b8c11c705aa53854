// Package gesture interprets recognizer samples as drag semantics.
//
// The Machine only decides whether a transition is legal; the engine performs the
// side effects (hit testing, scroll locking, finalizing) around accepted transitions.
package gesture

import (
	"errors"
	"fmt"
)

// State is the drag lifecycle state.
type State int

const (
	Idle State = iota
	Pressed
	LongPressing
	Dragging
	Saving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case LongPressing:
		return "long-pressing"
	case Dragging:
		return "dragging"
	case Saving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Kind enumerates typed gesture events.
type Kind int

const (
	PressBegan Kind = iota
	LongPressBegan
	LongPressActive
	PanChanged
	Released
	Cancelled
	Settled
)

func (k Kind) String() string {
	switch k {
	case PressBegan:
		return "press-began"
	case LongPressBegan:
		return "long-press-began"
	case LongPressActive:
		return "long-press-active"
	case PanChanged:
		return "pan-changed"
	case Released:
		return "released"
	case Cancelled:
		return "cancelled"
	case Settled:
		return "settled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NoItem marks an event that does not carry a resolved item.
const NoItem = -1

// Event is one typed gesture event. Y is the absolute pointer coordinate; Item is the
// global item index resolved for presses and long presses (NoItem otherwise).
type Event struct {
	Kind Kind
	Y    float64
	Item int
}

// ErrRejected is returned for events that are not legal in the current state.
var ErrRejected = errors.New("gesture: transition rejected")

type transitionKey struct {
	from State
	kind Kind
}

type transition struct {
	to State
	// needsItem rejects the event unless it resolved to an item.
	needsItem bool
}

// transitions is the authoritative state table.
var transitions = map[transitionKey]transition{
	{Idle, PressBegan}:      {to: Pressed, needsItem: true},
	{Idle, LongPressBegan}:  {to: LongPressing},
	{Idle, LongPressActive}: {to: Dragging, needsItem: true},

	{LongPressing, LongPressActive}: {to: Dragging, needsItem: true},
	{LongPressing, Cancelled}:       {to: Idle},
	{LongPressing, Released}:        {to: Idle},

	{Pressed, PanChanged}:      {to: Dragging},
	{Pressed, LongPressActive}: {to: Pressed},
	{Pressed, Released}:        {to: Idle},
	{Pressed, Cancelled}:       {to: Idle},

	{Dragging, PanChanged}:      {to: Dragging},
	{Dragging, LongPressActive}: {to: Dragging},
	{Dragging, Released}:        {to: Saving},
	{Dragging, Cancelled}:       {to: Saving},

	{Saving, Settled}: {to: Idle},
}

// Transition describes an accepted state change.
type Transition struct {
	From  State
	To    State
	Event Event
}

// Machine is the drag state machine. The zero value is Idle.
type Machine struct {
	state State
}

func (m *Machine) State() State { return m.state }

// Active reports whether a drag session exists (anything but Idle).
func (m *Machine) Active() bool { return m.state != Idle }

// Saving reports whether a release is being finalized.
func (m *Machine) Saving() bool { return m.state == Saving }

// Can reports whether ev would be accepted without applying it.
func (m *Machine) Can(ev Event) bool {
	t, ok := transitions[transitionKey{m.state, ev.Kind}]
	if !ok {
		return false
	}
	return !t.needsItem || ev.Item >= 0
}

// Fire applies ev. Rejected events leave the state untouched and return ErrRejected.
func (m *Machine) Fire(ev Event) (Transition, error) {
	if !m.Can(ev) {
		return Transition{}, fmt.Errorf("%w: %s in %s", ErrRejected, ev.Kind, m.state)
	}
	t := transitions[transitionKey{m.state, ev.Kind}]
	tr := Transition{From: m.state, To: t.to, Event: ev}
	m.state = t.to
	return tr, nil
}

// Reset forces the machine back to Idle.
func (m *Machine) Reset() { m.state = Idle }
