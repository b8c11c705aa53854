package engine

import (
	"fmt"

	"dragsort/internal/layout"
	"dragsort/internal/reorder"
)

type RowKind int

const (
	RowItem RowKind = iota
	RowHeader
)

// Row is one rendered element in content order. Headers appear once, above the first item
// of their list.
type Row struct {
	Kind  RowKind
	List  int
	Index int
	Key   string
	// Top is the rest position in content coordinates; Translate is added on top of it.
	Top       float64
	Translate float64
	Opacity   float64
	Active    bool
	Hovered   bool
	// Settled is false while the item's translation is still tweening.
	Settled bool
	View    string
}

// Render produces the rows for the current order. Lists without a usable render callback
// are logged and skipped; their headers are still shown.
func (l *List[T]) Render() []Row {
	lay := l.model.Layout()
	ready := l.model.Ready()
	items := l.order.Items()
	counts := l.order.Counts()
	rows := make([]Row, 0, len(items)+len(counts))

	global := 0
	for list, n := range counts {
		if fn, ok := l.headerFor(list); ok {
			r := Row{Kind: RowHeader, List: list, Index: reorder.Unset, Opacity: 1, View: fn(list)}
			if ready && list < len(lay.Lists) {
				g := lay.Lists[list]
				r.Top = g.Offset - g.HeaderHeight
			}
			rows = append(rows, r)
		}
		if n == 0 {
			continue
		}

		fn, ok := l.rendererFor(list)
		for end := global + n; global < end; global++ {
			if !ok {
				continue
			}
			rows = append(rows, l.itemRow(fn, items[global], global, lay, ready))
		}
	}
	return rows
}

func (l *List[T]) itemRow(fn RenderItemFunc[T], it reorder.Item[T], global int, lay layout.Layout, ready bool) Row {
	props := ItemProps[T]{
		Item:      it,
		Index:     global,
		Active:    l.session.ActiveItem == global,
		Hovered:   l.session.Active() && l.session.HoverItem == global,
		StartDrag: func() error { return l.StartDrag(global) },
	}
	r := Row{
		Kind:      RowItem,
		List:      it.ListIndex,
		Index:     global,
		Key:       it.Key,
		Translate: l.anim.Position(it.Key),
		Opacity:   l.order.Opacity(global, l.session),
		Active:    props.Active,
		Hovered:   props.Hovered,
		Settled:   l.anim.Settled(it.Key),
		View:      fn(props),
	}
	if ready && global < len(lay.Items) {
		r.Top = lay.Items[global].Top
	}
	return r
}

func (l *List[T]) rendererFor(list int) (RenderItemFunc[T], bool) {
	fns := l.opts.RenderItem
	var fn RenderItemFunc[T]
	switch {
	case len(fns) == 1:
		fn = fns[0]
	case list < len(fns):
		fn = fns[list]
	}
	if fn == nil {
		l.misconfig(fmt.Sprintf("item:%d", list), "no render callback for list", list, len(fns))
		return nil, false
	}
	if len(fns) > 1 && len(fns) != len(l.order.Counts()) {
		l.misconfig("item:shape", "render callbacks do not match the number of lists", list, len(fns))
	}
	return fn, true
}

func (l *List[T]) headerFor(list int) (RenderHeaderFunc, bool) {
	fns := l.opts.RenderHeader
	switch {
	case len(fns) == 0:
		return nil, false
	case len(fns) == 1:
		return fns[0], fns[0] != nil
	case list < len(fns) && fns[list] != nil:
		return fns[list], true
	}
	l.misconfig(fmt.Sprintf("header:%d", list), "no header callback for list", list, len(fns))
	return nil, false
}

// misconfig logs each distinct problem once.
func (l *List[T]) misconfig(id, msg string, list, callbacks int) {
	if l.misconfigured[id] {
		return
	}
	l.misconfigured[id] = true
	l.log.Error(msg, "list", list, "callbacks", callbacks, "lists", len(l.order.Counts()))
}
