package layout

import (
	"math"
	"slices"
)

// None is returned by the hit tester when no item covers the pointer.
const None = -1

// Insets are device safe-area insets in pixels.
type Insets struct {
	Top    float64
	Bottom float64
}

// Measurements is the raw input of the layout model. ItemHeights and HeaderHeights are
// indexed by list; a missing header is reported as 0.
type Measurements struct {
	ItemHeights        []float64
	HeaderHeights      []float64
	ContainerHeight    float64
	ContainerOffsetTop float64
	Insets             Insets
}

func (m Measurements) equal(o Measurements) bool {
	return slices.Equal(m.ItemHeights, o.ItemHeights) &&
		slices.Equal(m.HeaderHeights, o.HeaderHeights) &&
		m.ContainerHeight == o.ContainerHeight &&
		m.ContainerOffsetTop == o.ContainerOffsetTop &&
		m.Insets == o.Insets
}

// Boundary is a vertical pixel span in content coordinates. Top is inclusive, Bottom exclusive.
type Boundary struct {
	Top    float64
	Bottom float64
}

// Contains reports whether y lies in [Top, Bottom).
func (b Boundary) Contains(y float64) bool {
	return y >= b.Top && y < b.Bottom
}

// ListGeometry is the derived geometry of one list.
type ListGeometry struct {
	ItemHeight   float64
	HeaderHeight float64
	// FirstIndex and LastIndex are global indices into the flattened item space.
	// An empty list has LastIndex == FirstIndex-1.
	FirstIndex int
	LastIndex  int
	// Offset is where the list's first item starts (its header sits just above).
	Offset    float64
	HoverZone Boundary
}

// Count returns the number of items in the list.
func (g ListGeometry) Count() int {
	return g.LastIndex - g.FirstIndex + 1
}

// Options tune derived values that are not pure geometry.
type Options struct {
	// ScrollSpeedScale multiplies the largest item height to get the auto-scroll step.
	// Zero means 1.
	ScrollSpeedScale float64
}

// Layout is the full derived geometry of a set of lists inside one container.
type Layout struct {
	Lists []ListGeometry
	// Items holds one boundary per global item index.
	Items []Boundary

	ContainerHeight    float64
	ContainerOffsetTop float64
	ContentHeight      float64
	LargestItemHeight  float64

	ScrollSpeed      float64
	LowerTrigger     float64
	UpperTrigger     float64
	ScrollLowerBound float64
}

// HiddenContentHeight is the part of the content that does not fit in the container.
func (l Layout) HiddenContentHeight() float64 {
	return l.ContentHeight - l.ContainerHeight
}

// ListOf returns the list index that owns the global item index, or None.
func (l Layout) ListOf(global int) int {
	for i, g := range l.Lists {
		if global >= g.FirstIndex && global <= g.LastIndex {
			return i
		}
	}
	return None
}

// Compute derives a layout from item counts (one per list) and measurements.
func Compute(counts []int, m Measurements, opts Options) Layout {
	n := len(counts)
	out := Layout{
		Lists:              make([]ListGeometry, n),
		ContainerHeight:    m.ContainerHeight,
		ContainerOffsetTop: m.ContainerOffsetTop,
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	out.Items = make([]Boundary, 0, total)

	first := 0
	offset := 0.0
	for i, c := range counts {
		h := heightAt(m.ItemHeights, i)
		header := heightAt(m.HeaderHeights, i)
		offset += header

		g := ListGeometry{
			ItemHeight:   h,
			HeaderHeight: header,
			FirstIndex:   first,
			LastIndex:    first + c - 1,
			Offset:       offset,
		}
		for local := 0; local < c; local++ {
			top := float64(local)*h + offset
			out.Items = append(out.Items, Boundary{Top: top, Bottom: top + h})
		}
		out.Lists[i] = g
		out.ContentHeight += header + float64(c)*h
		if h > out.LargestItemHeight {
			out.LargestItemHeight = h
		}

		offset += float64(c) * h
		first += c
	}

	for i := range out.Lists {
		top := out.Lists[i].Offset
		bottom := out.ContentHeight
		if i+1 < n {
			bottom = out.Lists[i+1].Offset - out.Lists[i+1].HeaderHeight
		}
		out.Lists[i].HoverZone = Boundary{Top: top, Bottom: bottom}
	}

	scale := opts.ScrollSpeedScale
	if scale <= 0 {
		scale = 1
	}
	out.ScrollSpeed = math.Round(out.LargestItemHeight * scale)
	out.LowerTrigger = m.ContainerOffsetTop + m.ContainerHeight - m.Insets.Bottom - out.LargestItemHeight
	out.UpperTrigger = m.ContainerOffsetTop + m.Insets.Top + out.LargestItemHeight
	out.ScrollLowerBound = math.Max(0, out.ContentHeight-m.ContainerHeight)
	return out
}

func heightAt(hs []float64, i int) float64 {
	if i < len(hs) {
		return hs[i]
	}
	// Flat data measured with a single height: every list shares it.
	if len(hs) > 0 && i > 0 {
		return hs[len(hs)-1]
	}
	return 0
}

// Model caches the last layout and recomputes only when its inputs change.
type Model struct {
	opts   Options
	counts []int
	meas   Measurements
	cur    Layout
	ready  bool
}

// NewModel returns an empty model; Ready reports false until the first Update.
func NewModel(opts Options) *Model {
	return &Model{opts: opts}
}

// Update re-derives the layout when counts or measurements differ from the previous call.
// It reports whether a new layout was produced.
func (m *Model) Update(counts []int, meas Measurements) bool {
	if m.ready && slices.Equal(m.counts, counts) && m.meas.equal(meas) {
		return false
	}
	m.counts = slices.Clone(counts)
	m.meas = Measurements{
		ItemHeights:        slices.Clone(meas.ItemHeights),
		HeaderHeights:      slices.Clone(meas.HeaderHeights),
		ContainerHeight:    meas.ContainerHeight,
		ContainerOffsetTop: meas.ContainerOffsetTop,
		Insets:             meas.Insets,
	}
	m.cur = Compute(m.counts, m.meas, m.opts)
	m.ready = true
	return true
}

// Recount recomputes with the last measurements for new item counts.
func (m *Model) Recount(counts []int) bool {
	if !m.ready {
		m.counts = slices.Clone(counts)
		return false
	}
	return m.Update(counts, m.meas)
}

func (m *Model) Ready() bool { return m.ready }

func (m *Model) Layout() Layout { return m.cur }

func (m *Model) Measurements() Measurements { return m.meas }
