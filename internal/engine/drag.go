package engine

import (
	"errors"
	"fmt"

	"dragsort/internal/autoscroll"
	"dragsort/internal/gesture"
	"dragsort/internal/layout"
	"dragsort/internal/reorder"
)

// StartDrag arms the item at a global index as a manual trigger. The drag itself starts
// with the next tap-began sample.
func (l *List[T]) StartDrag(global int) error {
	if l.machine.Active() {
		return ErrNotIdle
	}
	if _, ok := l.order.Item(global); !ok {
		return fmt.Errorf("start drag: no item at index %d", global)
	}
	l.session.ManualTrigger = global
	return nil
}

// HandleGesture consumes one raw recognizer sample.
func (l *List[T]) HandleGesture(r gesture.Raw) {
	ev, ok := l.translator.Translate(r)
	if !ok {
		return
	}
	l.dispatch(ev)
}

func (l *List[T]) dispatch(ev gesture.Event) {
	if l.machine.Saving() {
		l.log.Debug("gesture ignored while saving", "event", ev.Kind.String())
		return
	}

	from := l.machine.State()
	switch ev.Kind {
	case gesture.PressBegan:
		ev.Item = l.session.ManualTrigger
	case gesture.LongPressActive:
		if from == gesture.Idle || from == gesture.LongPressing {
			ev.Item = l.locate(ev.Y)
		}
	}

	tr, err := l.machine.Fire(ev)
	if err != nil {
		if errors.Is(err, gesture.ErrRejected) {
			l.log.Debug("gesture rejected", "err", err)
			return
		}
		l.log.Error("gesture failed", "err", err)
		return
	}

	switch tr.To {
	case gesture.Pressed:
		if tr.From == gesture.Idle {
			l.activate(ev.Item, ev.Y)
		}
	case gesture.Dragging:
		if tr.From == gesture.Idle || tr.From == gesture.LongPressing {
			l.activate(ev.Item, ev.Y)
		}
		l.move(ev.Y)
	case gesture.Saving:
		l.commit()
	case gesture.Idle:
		l.abandon()
	}
	l.notify()
}

func (l *List[T]) locate(y float64) int {
	if !l.model.Ready() {
		return layout.None
	}
	lay := l.model.Layout()
	return lay.LocateItem(y, l.scrollTop, lay.ContainerOffsetTop)
}

func (l *List[T]) activate(global int, y float64) {
	it, ok := l.order.Item(global)
	if !ok {
		return
	}
	s := reorder.NewSession()
	s.ScrollTop = l.scrollTop
	s.ManualTrigger = l.session.ManualTrigger
	s.ActiveItem = global
	s.ActiveList = it.ListIndex
	s.HoverItem = global
	s.HoverList = it.ListIndex
	s.HoverZone = it.ListIndex
	s.PointerY = y
	l.session = s

	l.opts.Scroller.SetScrollEnabled(false)
	l.pub.Hold()
	l.log.Debug("drag started", "item", global, "list", it.ListIndex, "key", it.Key)
}

func (l *List[T]) move(y float64) {
	s := l.session
	s.PointerY = y
	s.ScrollTop = l.scrollTop

	if l.model.Ready() {
		lay := l.model.Layout()
		top := lay.ContainerOffsetTop
		s.OutOfViewportTop = y < top
		s.OutOfViewportBottom = y > top+lay.ContainerHeight
		s.OutOfViewport = s.OutOfViewportTop || s.OutOfViewportBottom

		if !s.OutOfViewport {
			// No item under the pointer keeps the previous hover.
			if hit := lay.LocateItem(y, l.scrollTop, top); hit != layout.None && hit != s.HoverItem {
				s.HoverItem = hit
				s.HoverList = lay.ListOf(hit)
			}
			zone := lay.LocateList(y, l.scrollTop, top, s.ActiveList)
			s.HoverZone = zone.List
			s.HoverOutOfBounds = zone.OutOfBounds
			s.HoverAbove = zone.Above
		}
	}
	l.session = s

	if s.OutOfViewport || l.machine.State() != gesture.Dragging {
		return
	}
	if req, ok := l.scroll.Evaluate(l.scrollInput()); ok {
		l.scrollTo(req)
	}
}

func (l *List[T]) scrollInput() autoscroll.Input {
	lay := l.model.Layout()
	return autoscroll.Input{
		Dragging:             l.machine.State() == gesture.Dragging,
		PointerOutOfViewport: l.session.OutOfViewport,
		PointerY:             l.session.PointerY,
		ScrollTop:            l.scrollTop,
		ScrollLowerBound:     lay.ScrollLowerBound,
		UpperTrigger:         lay.UpperTrigger,
		LowerTrigger:         lay.LowerTrigger,
		Speed:                lay.ScrollSpeed,
	}
}

func (l *List[T]) scrollTo(req autoscroll.Request) {
	l.log.Debug("auto-scroll", "direction", req.Direction.String(), "target", req.Target, "step", l.scroll.Steps())
	l.opts.Scroller.ScrollTo(req.Target)
}

// HandleScroll consumes a scroll position sample from the viewport.
func (l *List[T]) HandleScroll(offset float64) {
	if l.scrolling {
		l.deferredScroll = &offset
		return
	}
	l.scrolling = true
	defer func() { l.scrolling = false }()

	for {
		l.applyScroll(offset)
		if l.deferredScroll == nil {
			return
		}
		offset = *l.deferredScroll
		l.deferredScroll = nil
	}
}

func (l *List[T]) applyScroll(offset float64) {
	l.scrollTop = offset
	if l.session.Active() {
		l.session.ScrollTop = offset
	}
	if req, ok := l.scroll.Complete(offset, l.scrollInput()); ok {
		l.scrollTo(req)
	}
}

// commit runs with the machine in Saving, so anything the host does from its callbacks
// is dropped until the session is settled.
func (l *List[T]) commit() {
	s := l.session
	l.scroll.Reset()

	before := l.order.Items()
	move := l.order.Finalize(s)
	if move.Moved {
		l.rebase(before)
	}
	l.log.Info("drag finished", "from", move.From, "to", move.To, "moved", move.Moved)

	l.resetSession()
	l.opts.Scroller.SetScrollEnabled(true)
	l.pub.Submit(l.order.Data())

	if _, err := l.machine.Fire(gesture.Event{Kind: gesture.Settled, Item: gesture.NoItem}); err != nil {
		l.log.Error("settle drag", "err", err)
		l.machine.Reset()
	}
}

// rebase keeps every moved item on screen where it was before its rest slot changed.
func (l *List[T]) rebase(before []reorder.Item[T]) {
	if !l.model.Ready() {
		return
	}
	bounds := l.model.Layout().Items
	old := make(map[string]int, len(before))
	for i, it := range before {
		old[it.Key] = i
	}
	deltas := make(map[string]float64)
	for i, it := range l.order.Items() {
		j, ok := old[it.Key]
		if !ok || i == j || i >= len(bounds) || j >= len(bounds) {
			continue
		}
		deltas[it.Key] = bounds[i].Top - bounds[j].Top
	}
	l.anim.Rebase(deltas)
}

func (l *List[T]) abandon() {
	l.scroll.Reset()
	l.resetSession()
	l.opts.Scroller.SetScrollEnabled(true)
	l.pub.Resume()
}

func (l *List[T]) resetSession() {
	s := reorder.NewSession()
	s.ScrollTop = l.scrollTop
	l.session = s
}

func (l *List[T]) notify() {
	if prev, changed := l.active.Observe(l.session.ActiveItem); changed && l.opts.OnActiveChange != nil {
		l.opts.OnActiveChange(prev, l.session.ActiveItem)
	}
	if prev, changed := l.hover.Observe(l.session.HoverItem); changed && l.opts.OnHoverChange != nil {
		l.opts.OnHoverChange(prev, l.session.HoverItem)
	}
}
