package gesture

// Recognizer identifies the source of a raw sample.
type Recognizer int

const (
	Tap Recognizer = iota
	LongPress
	Pan
)

func (r Recognizer) String() string {
	switch r {
	case Tap:
		return "tap"
	case LongPress:
		return "long-press"
	case Pan:
		return "pan"
	default:
		return "unknown"
	}
}

// RecognizerState is the lifecycle state reported by a platform gesture recognizer.
type RecognizerState int

const (
	Undetermined RecognizerState = iota
	Failed
	Began
	Canceled
	Active
	End
)

// Raw is one recognizer sample as delivered by the host.
type Raw struct {
	Recognizer Recognizer
	State      RecognizerState
	OldState   RecognizerState
	AbsoluteY  float64
}

// Translator turns raw recognizer samples into typed events. Tap and long-press samples
// only produce an event when their state changes; pan samples produce one per movement.
type Translator struct {
	last [3]RecognizerState
}

// Translate maps r to a typed event. ok is false for samples that carry no semantics.
// Item is left as NoItem; the caller resolves it.
func (t *Translator) Translate(r Raw) (ev Event, ok bool) {
	ev = Event{Y: r.AbsoluteY, Item: NoItem}

	if r.Recognizer != Pan {
		idx := int(r.Recognizer)
		if idx < 0 || idx >= len(t.last) {
			return ev, false
		}
		if t.last[idx] == r.State {
			return ev, false
		}
		t.last[idx] = r.State
	}

	switch r.Recognizer {
	case Tap:
		switch r.State {
		case Began:
			ev.Kind = PressBegan
		case End:
			ev.Kind = Released
		default:
			// A failed tap means another recognizer took over; it ends nothing.
			return ev, false
		}
	case LongPress:
		switch r.State {
		case Began:
			ev.Kind = LongPressBegan
		case Active:
			ev.Kind = LongPressActive
		case End:
			ev.Kind = Released
		case Canceled, Failed:
			ev.Kind = Cancelled
		default:
			return ev, false
		}
	case Pan:
		switch r.State {
		case Active:
			ev.Kind = PanChanged
		case End:
			ev.Kind = Released
		case Canceled, Failed:
			ev.Kind = Cancelled
		default:
			return ev, false
		}
	default:
		return ev, false
	}
	return ev, true
}

// Reset forgets the last seen recognizer states.
func (t *Translator) Reset() {
	t.last = [3]RecognizerState{}
}
