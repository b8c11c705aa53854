// Package engine wires the drag-to-reorder modules behind one controller per set of lists.
//
// A List is owned by exactly one goroutine (an event loop or a bubbletea Update). Every
// input the host receives (gesture samples, scroll samples, layout measurements, frame
// ticks) is handed to the List on that goroutine; timers are expected to call back there
// too, which loop.Loop and loop.Manual guarantee.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dragsort/internal/anim"
	"dragsort/internal/autoscroll"
	"dragsort/internal/gesture"
	"dragsort/internal/layout"
	"dragsort/internal/loop"
	"dragsort/internal/publish"
	"dragsort/internal/reorder"
)

var (
	ErrNoData         = errors.New("engine: no data")
	ErrNoKeyExtractor = errors.New("engine: key extractor is required")
	ErrNotIdle        = errors.New("engine: a drag is in progress")
	ErrDuplicateKey   = errors.New("engine: duplicate item key")
)

// ScrollPort is the host's scrollable viewport. Scroll positions are reported back through
// List.HandleScroll.
type ScrollPort interface {
	ScrollTo(offset float64)
	SetScrollEnabled(enabled bool)
}

// ItemProps is what a render callback gets for one item.
type ItemProps[T any] struct {
	Item    reorder.Item[T]
	Index   int
	Active  bool
	Hovered bool
	// StartDrag arms the item as a manual drag trigger (a drag handle).
	StartDrag func() error
}

type RenderItemFunc[T any] func(ItemProps[T]) string

type RenderHeaderFunc func(list int) string

type Options[T any] struct {
	Data reorder.Data[T]
	// RenderItem holds one callback for every list, or one per list.
	RenderItem   []RenderItemFunc[T]
	KeyExtractor reorder.KeyFunc[T]
	// RenderHeader is optional: one callback for every list, or one per list.
	RenderHeader []RenderHeaderFunc
	OnDragEnd    func(reorder.Data[T])

	DisableUpdateListDebounce  bool
	UpdateListDebounceDuration time.Duration
	DisableAutoUpdate          bool

	Scroller  ScrollPort
	Scheduler loop.Scheduler
	Logger    *slog.Logger

	ScrollSpeedScale float64
	TweenDuration    time.Duration
	Insets           layout.Insets
	Retry            layout.RetryPolicy

	OnActiveChange func(prev, cur int)
	OnHoverChange  func(prev, cur int)
}

// List is the drag-to-reorder controller. It is not safe for concurrent use.
type List[T any] struct {
	opts Options[T]
	log  *slog.Logger

	order      *reorder.Engine[T]
	model      *layout.Model
	machine    gesture.Machine
	translator gesture.Translator
	scroll     autoscroll.Controller
	anim       *anim.Animator
	pub        *publish.Publisher[reorder.Data[T]]

	session   reorder.Session
	scrollTop float64

	// scrolling and deferredScroll turn scroll samples reported from inside ScrollTo into
	// loop iterations.
	scrolling      bool
	deferredScroll *float64

	active anim.Edge[int]
	hover  anim.Edge[int]

	misconfigured map[string]bool
}

func New[T any](opts Options[T]) (*List[T], error) {
	if opts.Data.Lists == nil {
		return nil, ErrNoData
	}
	if opts.KeyExtractor == nil {
		return nil, ErrNoKeyExtractor
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scroller == nil {
		opts.Scroller = nopScroller{}
	}
	if opts.Retry == (layout.RetryPolicy{}) {
		opts.Retry = layout.DefaultRetryPolicy()
	}

	order := reorder.New(opts.Data, opts.KeyExtractor)
	if err := uniqueKeys(order.Keys()); err != nil {
		return nil, err
	}

	l := &List[T]{
		opts:          opts,
		log:           opts.Logger,
		order:         order,
		model:         layout.NewModel(layout.Options{ScrollSpeedScale: opts.ScrollSpeedScale}),
		anim:          anim.New(opts.TweenDuration),
		session:       reorder.NewSession(),
		misconfigured: make(map[string]bool),
	}
	l.pub = publish.New(publish.Options{
		Debounce:  opts.UpdateListDebounceDuration,
		Immediate: opts.DisableUpdateListDebounce,
		Disabled:  opts.DisableAutoUpdate,
		Scheduler: opts.Scheduler,
	}, l.emit)
	l.pub.Baseline(opts.Data.Clone())
	l.active.Prime(reorder.Unset)
	l.hover.Prime(reorder.Unset)
	return l, nil
}

func (l *List[T]) emit(d reorder.Data[T]) {
	l.log.Info("order published", "items", d.Len(), "lists", len(d.Lists))
	if l.opts.OnDragEnd != nil {
		l.opts.OnDragEnd(d)
	}
}

// SetData replaces the host data. It is refused while a drag is in progress.
func (l *List[T]) SetData(d reorder.Data[T]) error {
	if d.Lists == nil {
		return ErrNoData
	}
	switch l.machine.State() {
	case gesture.Pressed, gesture.LongPressing, gesture.Dragging:
		l.log.Debug("data update ignored during drag", "state", l.machine.State())
		return ErrNotIdle
	}
	next := reorder.New(d, l.opts.KeyExtractor)
	if err := uniqueKeys(next.Keys()); err != nil {
		return err
	}
	l.order = next
	l.model.Recount(l.order.Counts())
	l.anim.Retain(l.order.Keys())
	l.pub.Baseline(d.Clone())
	return nil
}

// uniqueKeys rejects key sets where two items would share one animation track.
func uniqueKeys(keys []string) error {
	seen := make(map[string]int, len(keys))
	for i, k := range keys {
		if j, ok := seen[k]; ok {
			return fmt.Errorf("%w %q at %d and %d", ErrDuplicateKey, k, j, i)
		}
		seen[k] = i
	}
	return nil
}

// Data returns the current order in the shape of the input.
func (l *List[T]) Data() reorder.Data[T] { return l.order.Data() }

func (l *List[T]) Session() reorder.Session { return l.session }

func (l *List[T]) State() gesture.State { return l.machine.State() }

func (l *List[T]) AutoScroll() autoscroll.State { return l.scroll.State() }

func (l *List[T]) Layout() layout.Layout { return l.model.Layout() }

func (l *List[T]) ScrollTop() float64 { return l.scrollTop }

// Items returns the working order with draggable ids and keys.
func (l *List[T]) Items() []reorder.Item[T] { return l.order.Items() }

// HandleLayout applies new measurements. It reports whether the layout changed.
func (l *List[T]) HandleLayout(m layout.Measurements) bool {
	if m.Insets == (layout.Insets{}) {
		m.Insets = l.opts.Insets
	}
	if !l.model.Update(l.order.Counts(), m) {
		return false
	}
	lay := l.model.Layout()
	l.log.Debug("layout updated",
		"content_height", lay.ContentHeight,
		"container_height", lay.ContainerHeight,
		"scroll_speed", lay.ScrollSpeed)
	return true
}

// Measure polls m until every list's first item has a height, then applies the result.
func (l *List[T]) Measure(ctx context.Context, m layout.Measurer, containerHeight, containerOffsetTop float64) error {
	counts := l.order.Counts()
	headers := make([]bool, len(counts))
	for i := range headers {
		_, headers[i] = l.headerFor(i)
	}
	logged := layout.MeasurerFunc(func(ctx context.Context, h layout.Handle) (float64, error) {
		v, err := m.Measure(ctx, h)
		if errors.Is(err, layout.ErrNotReady) {
			l.log.Debug("measurement not ready, retrying", "node", h.String())
		}
		return v, err
	})
	hs, err := layout.MeasureAll(ctx, logged, len(counts), headers, l.opts.Retry)
	if err != nil {
		return fmt.Errorf("measure lists: %w", err)
	}
	l.HandleLayout(layout.Measurements{
		ItemHeights:        hs.Items,
		HeaderHeights:      hs.Headers,
		ContainerHeight:    containerHeight,
		ContainerOffsetTop: containerOffsetTop,
	})
	return nil
}

// Frame advances item animations by dt. It reports whether anything is still moving.
func (l *List[T]) Frame(dt time.Duration) bool {
	if !l.model.Ready() {
		return false
	}
	lay := l.model.Layout()
	items := l.order.Items()
	targets := make(map[string]float64, len(items))
	for i, it := range items {
		target := l.order.Target(i, l.session, lay)
		if i == l.session.ActiveItem {
			// the dragged item tracks the pointer
			l.anim.Set(it.Key, target)
			continue
		}
		targets[it.Key] = target
	}
	l.anim.Frame(dt, targets)
	return !l.anim.Idle()
}

// Position is the current translation of the item at a global index.
func (l *List[T]) Position(global int) float64 {
	it, ok := l.order.Item(global)
	if !ok {
		return 0
	}
	return l.anim.Position(it.Key)
}

// Opacity of the item at a global index.
func (l *List[T]) Opacity(global int) float64 {
	if _, ok := l.order.Item(global); !ok {
		return 1
	}
	return l.order.Opacity(global, l.session)
}

// Close emits any pending order.
func (l *List[T]) Close() {
	l.pub.Flush()
}

type nopScroller struct{}

func (nopScroller) ScrollTo(float64)      {}
func (nopScroller) SetScrollEnabled(bool) {}
