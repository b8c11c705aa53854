package reorder

// Unset is the sentinel for indices that are not part of a drag.
const Unset = -1

// Session is the state of one drag. Indices are global indices into the flattened item
// space. The zero value is not a valid idle session; use NewSession.
type Session struct {
	ActiveItem int
	ActiveList int
	HoverItem  int
	HoverList  int

	// HoverZone is the candidate list of the last list hit test.
	HoverZone        int
	HoverOutOfBounds bool
	HoverAbove       bool

	OutOfViewport       bool
	OutOfViewportTop    bool
	OutOfViewportBottom bool

	// ManualTrigger is the item pressed through a drag handle, or Unset.
	ManualTrigger int

	PointerY  float64
	ScrollTop float64
}

// NewSession returns an idle session with every index unset.
func NewSession() Session {
	return Session{
		ActiveItem:    Unset,
		ActiveList:    Unset,
		HoverItem:     Unset,
		HoverList:     Unset,
		HoverZone:     Unset,
		ManualTrigger: Unset,
	}
}

// Active reports whether an item is being dragged.
func (s Session) Active() bool { return s.ActiveItem != Unset }

// OutOfBounds reports whether the active item should stop following the pointer.
func (s Session) OutOfBounds() bool { return s.OutOfViewport || s.HoverOutOfBounds }
