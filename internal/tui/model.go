package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"dragsort/internal/config"
	"dragsort/internal/docs"
	"dragsort/internal/engine"
	"dragsort/internal/gesture"
	"dragsort/internal/layout"
	"dragsort/internal/model"
	"dragsort/internal/reorder"
	"dragsort/internal/store"
)

const (
	// offsetTop is the title line plus a blank line above the board.
	offsetTop = 2
	// footerHeight is the help line plus the status line.
	footerHeight  = 2
	frameInterval = time.Second / 60
)

type frameMsg time.Time

type Options struct {
	Store  store.Store
	Board  model.Board
	Config config.Config
	Logger *slog.Logger
}

type Model struct {
	store store.Store
	cfg   config.Config
	log   *slog.Logger
	board model.Board

	list     *engine.List[model.Card]
	scroller *scrollPort
	sched    *scheduler
	pointer  pointer

	keys keyMap
	help help.Model
	st   styles

	width  int
	height int

	framing   bool
	lastFrame time.Time

	showHelp bool
	darkBG   *bool
	selected string
	restore  *store.BoardView
	status   string
	err      error
}

func cardKey(c model.Card, _ int) string { return c.ID }

func New(opts Options) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Model{
		store:    opts.Store,
		cfg:      opts.Config,
		log:      log,
		board:    opts.Board,
		scroller: &scrollPort{},
		sched:    newScheduler(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		st:       newStyles(),
	}

	list, err := engine.New(engine.Options[model.Card]{
		Data:                       reorder.Nested(opts.Board.Lists()),
		RenderItem:                 []engine.RenderItemFunc[model.Card]{m.renderCard},
		RenderHeader:               []engine.RenderHeaderFunc{m.renderHeader},
		KeyExtractor:               cardKey,
		OnDragEnd:                  m.persist,
		DisableUpdateListDebounce:  opts.Config.DisableDebounce,
		UpdateListDebounceDuration: opts.Config.Debounce(),
		DisableAutoUpdate:          opts.Config.DisableAutoUpdate,
		Scroller:                   m.scroller,
		Scheduler:                  m.sched,
		Logger:                     log,
		ScrollSpeedScale:           opts.Config.ScrollSpeedScale,
		TweenDuration:              opts.Config.TweenDuration(),
		Retry:                      opts.Config.Retry(),
	})
	if err != nil {
		return nil, fmt.Errorf("open board %q: %w", opts.Board.Name, err)
	}
	m.list = list

	if st, err := m.store.LoadTUIState(); err == nil {
		if v, ok := st.View(opts.Board.ID); ok {
			m.restore = &v
			m.selected = v.Selected
		}
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	animate := true
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if err := m.measure(); err != nil {
			m.err = err
			m.log.Error("measure board", "err", err)
		}
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))
	case longPressMsg:
		m.longPressed(msg)
	case scrollMsg:
		m.list.HandleScroll(m.clampScroll(msg.offset))
	case timerMsg:
		m.sched.fire(msg.id)
	case frameMsg:
		animate = false
		cmds = append(cmds, m.frame(time.Time(msg)))
	}
	cmds = append(cmds, m.scroller.drain(), m.sched.drain())
	if animate {
		cmds = append(cmds, m.startFrames())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	}
	return nil
}

// quit publishes any pending order and remembers where the user was.
func (m *Model) quit() {
	m.list.Close()
	st, err := m.store.LoadTUIState()
	if err != nil {
		m.log.Warn("load tui state", "err", err)
		return
	}
	st.Remember(m.board.ID, store.BoardView{Selected: m.selected, ScrollTop: m.list.ScrollTop()})
	if err := m.store.SaveTUIState(st); err != nil {
		m.log.Warn("save tui state", "err", err)
	}
}

func (m *Model) persist(d reorder.Data[model.Card]) {
	m.board = m.board.WithLists(d.Lists)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.SaveBoard(ctx, &m.board); err != nil {
		m.err = err
		m.log.Error("save board", "board", m.board.Name, "err", err)
		return
	}
	m.err = nil
	m.status = "saved " + time.Now().Format("15:04:05")
}

func (m *Model) reload() {
	if m.list.State() != gesture.Idle {
		return
	}
	m.list.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b, err := m.store.LoadBoard(ctx, m.board.ID)
	if err != nil {
		m.err = err
		return
	}
	if err := m.list.SetData(reorder.Nested(b.Lists())); err != nil {
		m.err = err
		return
	}
	m.board = b
	m.err = nil
	m.status = "reloaded"
	if err := m.measure(); err != nil {
		m.err = err
	}
}

func (m *Model) containerHeight() int {
	return max(m.height-offsetTop-footerHeight, 1)
}

func (m *Model) measure() error {
	if m.width <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.list.Measure(ctx, layout.MeasurerFunc(m.measureNode), float64(m.containerHeight()), offsetTop); err != nil {
		return err
	}
	target := m.list.ScrollTop()
	if m.restore != nil {
		target = m.restore.ScrollTop
		m.restore = nil
	}
	m.list.HandleScroll(m.clampScroll(target))
	return nil
}

// measureNode renders a sample node: every card of a list has the same height.
func (m *Model) measureNode(_ context.Context, h layout.Handle) (float64, error) {
	if m.width <= 0 {
		return 0, layout.ErrNotReady
	}
	if h.Header {
		return float64(lipgloss.Height(m.renderHeader(h.List))), nil
	}
	sample := engine.ItemProps[model.Card]{
		Item:  reorder.Item[model.Card]{Value: model.Card{Title: "x"}},
		Index: reorder.Unset,
	}
	return float64(lipgloss.Height(m.renderCard(sample))), nil
}

func (m *Model) clampScroll(offset float64) float64 {
	return min(max(offset, 0), m.list.Layout().ScrollLowerBound)
}

func (m *Model) scrollTo(offset float64) {
	m.list.HandleScroll(m.clampScroll(offset))
}

func (m *Model) startFrames() tea.Cmd {
	if m.framing || m.width <= 0 {
		return nil
	}
	m.framing = true
	m.lastFrame = time.Now()
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) frame(t time.Time) tea.Cmd {
	dt := max(t.Sub(m.lastFrame), 0)
	m.lastFrame = t
	if m.list.Frame(dt) || m.list.State() != gesture.Idle {
		return frameTick()
	}
	m.framing = false
	return nil
}

func (m *Model) moveSelection(delta int) {
	items := m.list.Items()
	if len(items) == 0 {
		return
	}
	idx := -1
	for i, it := range items {
		if it.Key == m.selected {
			idx = i
			break
		}
	}
	idx = min(max(idx+delta, 0), len(items)-1)
	m.selectIndex(idx)

	lay := m.list.Layout()
	if idx >= len(lay.Items) {
		return
	}
	b := lay.Items[idx]
	top := m.list.ScrollTop()
	switch {
	case b.Top < top:
		m.scrollTo(b.Top)
	case b.Bottom > top+lay.ContainerHeight:
		m.scrollTo(b.Bottom - lay.ContainerHeight)
	}
}

func (m *Model) selectIndex(global int) {
	items := m.list.Items()
	if global >= 0 && global < len(items) {
		m.selected = items[global].Key
	}
}

func (m *Model) renderCard(p engine.ItemProps[model.Card]) string {
	style := m.st.card
	switch {
	case p.Active:
		style = m.st.active
	case p.Hovered:
		style = m.st.hovered
	case p.Item.Key != "" && p.Item.Key == m.selected:
		style = m.st.selected
	}
	if m.list != nil && m.list.Opacity(p.Index) < 1 {
		style = style.Faint(true)
	}

	// Border and padding take four cells.
	inner := max(m.width-4, 8)
	line := m.st.handle.Render("⠿") + " " + p.Item.Value.Title
	if len(p.Item.Value.Tags) > 0 {
		line += "  " + m.st.tags.Render("#"+strings.Join(p.Item.Value.Tags, " #"))
	}
	return style.Width(inner + 2).Render(xansi.Truncate(line, inner, "…"))
}

func (m *Model) renderHeader(list int) string {
	title, n := fmt.Sprintf("List %d", list+1), 0
	if list < len(m.board.Columns) {
		col := m.board.Columns[list]
		title, n = col.Title, len(col.Cards)
	}
	return m.st.header.Render(xansi.Truncate(fmt.Sprintf("%s (%d)", title, n), max(m.width, 1), "…"))
}

func (m *Model) View() string {
	if m.width <= 0 {
		return ""
	}
	title := fmt.Sprintf("%s  %d cards  %s", m.board.Name, m.board.CardCount(), m.list.State())
	body := m.viewBoard()
	if m.showHelp {
		body = m.viewHelp()
	}
	status := m.st.status.Render(m.status)
	if m.err != nil {
		status = m.st.err.Render("error: " + m.err.Error())
	}
	return strings.Join([]string{
		m.st.title.Render(xansi.Truncate(title, m.width, "…")),
		"",
		body,
		m.help.View(m.keys),
		xansi.Truncate(status, m.width, "…"),
	}, "\n")
}

// viewBoard paints every row at its rest position plus its animated translation. Cards
// still sliding are painted over settled ones and the dragged card goes last.
func (m *Model) viewBoard() string {
	h := m.containerHeight()
	canvas := make([]string, h)
	scrollTop := m.list.ScrollTop()

	paint := func(r engine.Row) {
		y := int(math.Round(r.Top + r.Translate - scrollTop))
		for i, ln := range strings.Split(r.View, "\n") {
			if row := y + i; row >= 0 && row < h {
				canvas[row] = ln
			}
		}
	}
	var moving, active []engine.Row
	for _, r := range m.list.Render() {
		switch {
		case r.Active:
			active = append(active, r)
		case r.Kind == engine.RowItem && !r.Settled:
			moving = append(moving, r)
		default:
			paint(r)
		}
	}
	for _, r := range append(moving, active...) {
		paint(r)
	}
	return strings.Join(canvas, "\n")
}

func (m *Model) viewHelp() string {
	if m.darkBG == nil {
		dark := lipgloss.HasDarkBackground()
		m.darkBG = &dark
	}
	md, _ := docs.Get("tui")
	lines := strings.Split(docs.Render(md, m.width, docs.Style(*m.darkBG)), "\n")
	h := m.containerHeight()
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Run opens the board in the terminal until the user quits.
func Run(opts Options) error {
	applyProfile(opts.Config.TUI.Profile)
	m, err := New(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
