package gesture

import (
	"errors"
	"testing"
)

func TestMachine_LongPressDragRelease(t *testing.T) {
	t.Parallel()

	var m Machine
	steps := []struct {
		ev   Event
		want State
	}{
		{Event{Kind: LongPressBegan, Item: NoItem}, LongPressing},
		{Event{Kind: LongPressActive, Y: 40, Item: 2}, Dragging},
		{Event{Kind: PanChanged, Y: 60, Item: NoItem}, Dragging},
		{Event{Kind: Released, Item: NoItem}, Saving},
		{Event{Kind: Settled, Item: NoItem}, Idle},
	}
	for i, s := range steps {
		tr, err := m.Fire(s.ev)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, s.ev.Kind, err)
		}
		if tr.To != s.want || m.State() != s.want {
			t.Fatalf("step %d: got %s want %s", i, m.State(), s.want)
		}
	}
}

func TestMachine_RejectsWhileSaving(t *testing.T) {
	t.Parallel()

	var m Machine
	mustFire(t, &m, Event{Kind: PressBegan, Item: 0})
	mustFire(t, &m, Event{Kind: PanChanged, Item: NoItem})
	mustFire(t, &m, Event{Kind: Released, Item: NoItem})

	for _, k := range []Kind{PressBegan, LongPressBegan, LongPressActive, PanChanged, Released, Cancelled} {
		_, err := m.Fire(Event{Kind: k, Item: 1})
		if !errors.Is(err, ErrRejected) {
			t.Fatalf("%s while saving: expected ErrRejected, got %v", k, err)
		}
		if m.State() != Saving {
			t.Fatalf("%s changed state to %s", k, m.State())
		}
	}
}

func TestMachine_SecondPressRejectedDuringSession(t *testing.T) {
	t.Parallel()

	var m Machine
	mustFire(t, &m, Event{Kind: PressBegan, Item: 3})
	if _, err := m.Fire(Event{Kind: PressBegan, Item: 4}); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected second press to be rejected, got %v", err)
	}
}

func TestMachine_LongPressNeedsItem(t *testing.T) {
	t.Parallel()

	var m Machine
	if _, err := m.Fire(Event{Kind: LongPressActive, Item: NoItem}); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection without an item, got %v", err)
	}
	if m.Active() {
		t.Fatalf("machine must stay idle")
	}
}

func TestMachine_ManualPressTapEndsWithoutSaving(t *testing.T) {
	t.Parallel()

	var m Machine
	mustFire(t, &m, Event{Kind: PressBegan, Item: 1})
	mustFire(t, &m, Event{Kind: LongPressActive, Item: 1})
	if m.State() != Pressed {
		t.Fatalf("long press with a manual trigger pending must be ignored, got %s", m.State())
	}
	tr := mustFire(t, &m, Event{Kind: Released, Item: NoItem})
	if tr.To != Idle {
		t.Fatalf("tap release must go idle, got %s", tr.To)
	}
}

func TestMachine_CancelWhileDraggingCommits(t *testing.T) {
	t.Parallel()

	var m Machine
	mustFire(t, &m, Event{Kind: LongPressActive, Item: 0})
	tr := mustFire(t, &m, Event{Kind: Cancelled, Item: NoItem})
	if tr.To != Saving {
		t.Fatalf("cancel while dragging must save, got %s", tr.To)
	}
}

func TestTranslator(t *testing.T) {
	t.Parallel()

	var tr Translator
	tests := []struct {
		name   string
		raw    Raw
		want   Kind
		wantOK bool
	}{
		{name: "tap began", raw: Raw{Recognizer: Tap, State: Began}, want: PressBegan, wantOK: true},
		{name: "tap began repeated is not a change", raw: Raw{Recognizer: Tap, State: Began}, wantOK: false},
		{name: "long press began", raw: Raw{Recognizer: LongPress, State: Began}, want: LongPressBegan, wantOK: true},
		{name: "long press active", raw: Raw{Recognizer: LongPress, State: Active, AbsoluteY: 12}, want: LongPressActive, wantOK: true},
		{name: "pan active", raw: Raw{Recognizer: Pan, State: Active, AbsoluteY: 20}, want: PanChanged, wantOK: true},
		{name: "pan active again", raw: Raw{Recognizer: Pan, State: Active, AbsoluteY: 21}, want: PanChanged, wantOK: true},
		{name: "tap failed", raw: Raw{Recognizer: Tap, State: Failed}, wantOK: false},
		{name: "pan end", raw: Raw{Recognizer: Pan, State: End}, want: Released, wantOK: true},
		{name: "long press cancelled", raw: Raw{Recognizer: LongPress, State: Canceled}, want: Cancelled, wantOK: true},
	}
	for _, tt := range tests {
		ev, ok := tr.Translate(tt.raw)
		if ok != tt.wantOK {
			t.Fatalf("%s: ok=%v want %v", tt.name, ok, tt.wantOK)
		}
		if ok && ev.Kind != tt.want {
			t.Fatalf("%s: kind=%s want %s", tt.name, ev.Kind, tt.want)
		}
		if ok && ev.Y != tt.raw.AbsoluteY {
			t.Fatalf("%s: y=%v want %v", tt.name, ev.Y, tt.raw.AbsoluteY)
		}
	}
}

func mustFire(t *testing.T, m *Machine, ev Event) Transition {
	t.Helper()
	tr, err := m.Fire(ev)
	if err != nil {
		t.Fatalf("fire %s: %v", ev.Kind, err)
	}
	return tr
}
