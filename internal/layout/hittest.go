package layout

// ListHit is the result of a list hit test for one pointer sample.
type ListHit struct {
	// List is the candidate list, clamped to a valid index.
	List int
	// OutOfBounds is set when the pointer left the current list's hover zone.
	OutOfBounds bool
	// Above is set when the pointer left through the top of the hover zone.
	Above bool
}

func touchY(pointerY, scrollTop, containerOffsetTop float64) float64 {
	return pointerY - containerOffsetTop + scrollTop
}

// LocateItem returns the global index of the item under the pointer, or None when the
// pointer is outside every item (e.g. over a header or past the last item).
func (l Layout) LocateItem(pointerY, scrollTop, containerOffsetTop float64) int {
	y := touchY(pointerY, scrollTop, containerOffsetTop)
	for i, b := range l.Items {
		if b.Contains(y) {
			return i
		}
	}
	return None
}

// LocateList decides which list the pointer belongs to relative to the current list.
// The candidate moves at most one list per sample.
func (l Layout) LocateList(pointerY, scrollTop, containerOffsetTop float64, current int) ListHit {
	if current < 0 || current >= len(l.Lists) {
		return ListHit{List: current}
	}
	y := touchY(pointerY, scrollTop, containerOffsetTop)
	zone := l.Lists[current].HoverZone
	if zone.Contains(y) {
		return ListHit{List: current}
	}

	hit := ListHit{OutOfBounds: true}
	if y < zone.Top {
		hit.Above = true
		hit.List = current - 1
	} else {
		hit.List = current + 1
	}
	if hit.List < 0 {
		hit.List = 0
	}
	if hit.List >= len(l.Lists) {
		hit.List = len(l.Lists) - 1
	}
	return hit
}
