// Package reorder owns the working order of a drag-sortable set of lists: it computes the
// live translation of every item while a drag is in progress and produces the final
// permutation when the drag ends.
package reorder

import (
	"dragsort/internal/layout"
)

// Item is one draggable unit.
type Item[T any] struct {
	// DraggableID is the item's position inside its list.
	DraggableID int
	ListIndex   int
	// Key is the stable identity supplied by the host.
	Key   string
	Value T
}

// KeyFunc extracts a stable key from a payload and its global index.
type KeyFunc[T any] func(v T, index int) string

// Engine is not safe for concurrent use.
type Engine[T any] struct {
	items  []Item[T]
	counts []int
	nested bool
}

// Move describes the outcome of Finalize.
type Move struct {
	From  int
	To    int
	Moved bool
}

// New flattens d into the global item space.
func New[T any](d Data[T], key KeyFunc[T]) *Engine[T] {
	e := &Engine[T]{}
	e.load(d, key)
	return e
}

func (e *Engine[T]) load(d Data[T], key KeyFunc[T]) {
	e.nested = d.Nested
	e.counts = d.Counts()
	e.items = make([]Item[T], 0, d.Len())
	for li, l := range d.Lists {
		for i, v := range l {
			global := len(e.items)
			k := ""
			if key != nil {
				k = key(v, global)
			}
			e.items = append(e.items, Item[T]{DraggableID: i, ListIndex: li, Key: k, Value: v})
		}
	}
}

func (e *Engine[T]) Len() int { return len(e.items) }

// Counts returns the number of items per list.
func (e *Engine[T]) Counts() []int { return append([]int(nil), e.counts...) }

// Item returns the item at a global index.
func (e *Engine[T]) Item(global int) (Item[T], bool) {
	if global < 0 || global >= len(e.items) {
		return Item[T]{}, false
	}
	return e.items[global], true
}

// Items returns a copy of the working order.
func (e *Engine[T]) Items() []Item[T] {
	return append([]Item[T](nil), e.items...)
}

// Keys returns the stable keys in working order.
func (e *Engine[T]) Keys() []string {
	out := make([]string, len(e.items))
	for i, it := range e.items {
		out[i] = it.Key
	}
	return out
}

// Target returns the translation an item should move to for the session s.
func (e *Engine[T]) Target(global int, s Session, l layout.Layout) float64 {
	if !s.Active() || global < 0 || global >= len(e.items) {
		return 0
	}
	it := e.items[global]
	if it.ListIndex != s.ActiveList || s.ActiveList < 0 || s.ActiveList >= len(l.Lists) {
		return 0
	}
	g := l.Lists[s.ActiveList]
	h := g.ItemHeight

	if global == s.ActiveItem {
		if s.OutOfBounds() {
			if s.OutOfViewportTop || (s.HoverOutOfBounds && s.HoverAbove) {
				return float64(g.FirstIndex-global) * h
			}
			return float64(g.LastIndex-global) * h
		}
		if global >= len(l.Items) {
			return 0
		}
		rest := l.Items[global].Top
		return s.PointerY - h/2 - l.ContainerOffsetTop - rest + s.ScrollTop
	}

	switch {
	case global > s.ActiveItem && global <= s.HoverItem:
		return -h
	case global < s.ActiveItem && s.HoverItem > Unset && global >= s.HoverItem:
		return h
	default:
		return 0
	}
}

// Opacity is 1 for every item except an active item that would not land where it hovers.
func (e *Engine[T]) Opacity(global int, s Session) float64 {
	if !s.Active() || global != s.ActiveItem {
		return 1
	}
	it := e.items[global]
	if (s.HoverList != Unset && s.HoverList != it.ListIndex) || s.OutOfBounds() {
		return 0.5
	}
	return 1
}

// Finalize commits the session: the active item moves to the hover index when the hover
// list is the item's own list, otherwise the order is left untouched. DraggableIDs are
// reassigned per list either way.
func (e *Engine[T]) Finalize(s Session) Move {
	m := Move{From: s.ActiveItem, To: s.ActiveItem}
	defer e.renumber()

	if s.ActiveItem < 0 || s.ActiveItem >= len(e.items) {
		return m
	}
	if s.HoverItem == Unset || s.HoverList == Unset {
		return m
	}
	if s.HoverItem < 0 || s.HoverItem >= len(e.items) {
		return m
	}
	active := e.items[s.ActiveItem]
	if active.ListIndex != s.HoverList || e.items[s.HoverItem].ListIndex != s.HoverList {
		return m
	}
	if s.HoverItem == s.ActiveItem {
		return m
	}

	rest := make([]Item[T], 0, len(e.items))
	rest = append(rest, e.items[:s.ActiveItem]...)
	rest = append(rest, e.items[s.ActiveItem+1:]...)

	out := make([]Item[T], 0, len(e.items))
	out = append(out, rest[:s.HoverItem]...)
	out = append(out, active)
	out = append(out, rest[s.HoverItem:]...)
	e.items = out

	m.To = s.HoverItem
	m.Moved = true
	return m
}

func (e *Engine[T]) renumber() {
	next := make([]int, len(e.counts))
	for i := range e.items {
		li := e.items[i].ListIndex
		if li < 0 || li >= len(next) {
			continue
		}
		e.items[i].DraggableID = next[li]
		next[li]++
	}
}

// Data reshapes the working order into the shape of the input, without internal fields.
func (e *Engine[T]) Data() Data[T] {
	lists := make([][]T, len(e.counts))
	for i, c := range e.counts {
		lists[i] = make([]T, 0, c)
	}
	for _, it := range e.items {
		if it.ListIndex < 0 || it.ListIndex >= len(lists) {
			continue
		}
		lists[it.ListIndex] = append(lists[it.ListIndex], it.Value)
	}
	return Data[T]{Lists: lists, Nested: e.nested}
}
